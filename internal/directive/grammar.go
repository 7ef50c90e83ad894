// Package directive reads stylint suppression comments and removes the
// diagnostics they silence.
//
//	// stylint-disable [rule, ...]            until stylint-enable or end of file
//	// stylint-enable [rule, ...]
//	// stylint-disable-line [rule, ...]       the comment's own line
//	// stylint-disable-next-line [rule, ...]  the line after the comment
//
// An empty rule list means every rule. Text after " -- " is a free-form reason.
package directive

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
)

const prefix = "stylint-"

type comment struct {
	Action string    `"stylint" "-" @( "disable" ( "-" ( "next" "-" )? "line" )? | "enable" )`
	Rules  []ruleRef `( @@ ( "," @@ )* )?`
}

type ruleRef struct {
	Name string `@Ident ( @"-" @Ident )*`
}

var grammar = participle.MustBuild[comment]()

// Parse reads the text of one comment, markers included. ok is false when the
// comment is not a stylint directive at all.
func Parse(text string) (kind Kind, rules []string, ok bool, err error) {
	body := strip(text)
	if !strings.HasPrefix(body, prefix) {
		return 0, nil, false, nil
	}
	c, err := grammar.ParseString("", body)
	if err != nil {
		return 0, nil, true, fmt.Errorf("malformed directive %q: %w", body, err)
	}
	kind = parseKind(c.Action)
	if kind == 0 {
		return 0, nil, true, fmt.Errorf("malformed directive %q: unknown action %q", body, c.Action)
	}
	for _, r := range c.Rules {
		rules = append(rules, r.Name)
	}
	return kind, rules, true, nil
}

func strip(text string) string {
	switch {
	case strings.HasPrefix(text, "//"):
		text = text[2:]
	case strings.HasPrefix(text, "/*"):
		text = strings.TrimSuffix(text[2:], "*/")
	}
	if i := strings.Index(text, " -- "); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(text), "*"))
}
