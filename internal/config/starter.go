package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"stylint/internal/lint"
)

var ErrExists = errors.New("configuration file already exists")

const starterHeader = `# stylint configuration.
# extends: "recommended" enables every non-optional rule, "none" starts empty.
# rules: rule id = "warning" | "error" | "off".
`

// Starter renders a stylint.toml that lists every catalog rule with the
// severity it would run at under the recommended set.
func Starter(catalog []lint.Rule) ([]byte, error) {
	rules := make(map[string]string, len(catalog))
	for _, r := range catalog {
		if r.Optional {
			rules[r.ID] = lint.SeverityOff
			continue
		}
		rules[r.ID] = r.Severity.String()
	}
	file := struct {
		Extends string            `toml:"extends"`
		Ignore  []string          `toml:"ignore"`
		Rules   map[string]string `toml:"rules"`
	}{
		Extends: ExtendsRecommended,
		Ignore:  []string{"node_modules/**", "*.min.js"},
		Rules:   rules,
	}

	var buf bytes.Buffer
	buf.WriteString(starterHeader)
	if err := toml.NewEncoder(&buf).Encode(file); err != nil {
		return nil, fmt.Errorf("failed to encode starter config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteStarter creates dir/stylint.toml. An existing file is kept unless
// force is set.
func WriteStarter(dir string, catalog []lint.Rule, force bool) (string, error) {
	p := filepath.Join(dir, TOMLName)
	if !force {
		if _, err := os.Stat(p); err == nil {
			return p, fmt.Errorf("%s: %w", p, ErrExists)
		}
	}
	data, err := Starter(catalog)
	if err != nil {
		return p, err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return p, err
	}
	return p, nil
}
