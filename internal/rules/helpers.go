package rules

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"stylint/internal/ast"
	"stylint/internal/lint"
)

// ErrUnexpectedNode is returned when an evaluator is handed a node whose
// payload does not match the kinds it subscribed to.
var ErrUnexpectedNode = errors.New("unexpected node")

func unexpected(tree *ast.Tree, id ast.NodeID) error {
	return fmt.Errorf("%w: %s", ErrUnexpectedNode, tree.Kind(id))
}

func found(format string, args ...any) (*lint.Finding, error) {
	return &lint.Finding{Message: fmt.Sprintf(format, args...)}, nil
}

// calleeName returns the dotted path of a call's callee, or "".
func calleeName(tree *ast.Tree, call ast.CallData) string {
	path, _ := tree.DotPath(call.Callee)
	return path
}

// memberName returns the property name of a non-computed member access, or
// the value of a string literal in a computed one.
func memberName(tree *ast.Tree, m ast.MemberData) string {
	if !m.Computed {
		return tree.Name(m.Property)
	}
	if kind, value, ok := tree.LiteralValue(tree.Unparen(m.Property)); ok && kind == ast.LitString {
		return value
	}
	return ""
}

// isPropertyName reports whether an identifier is used as a property key or
// a non-computed member name rather than as a variable reference.
func isPropertyName(tree *ast.Tree, id ast.NodeID) bool {
	parent := tree.Parent(id)
	switch tree.Kind(parent) {
	case ast.NodeMember:
		m, _ := tree.Member(parent)
		return m.Property == id && !m.Computed
	case ast.NodeProperty:
		p, _ := tree.Property(parent)
		return p.Key == id && !p.Computed && !p.Shorthand
	case ast.NodeMethod:
		fn, _ := tree.Function(parent)
		return fn.Name == id
	}
	return false
}

func isLiteral(tree *ast.Tree, id ast.NodeID, kind ast.LitKind) bool {
	k, _, ok := tree.LiteralValue(tree.Unparen(id))
	return ok && k == kind
}

func isIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// declares reports whether a statement is a lexical declaration binding name.
func declares(tree *ast.Tree, stmt ast.NodeID, name string) bool {
	decl, ok := tree.VarDecl(stmt)
	if !ok || !decl.Keyword.Lexical() {
		return false
	}
	for _, d := range decl.Declarators {
		data, _ := tree.Declarator(d)
		for _, n := range tree.BoundNames(data.Target) {
			if n == name {
				return true
			}
		}
	}
	return false
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
