package lint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"stylint/internal/ast"
)

// Registry maps node kinds to the rules that inspect them. Registration
// happens before walking; afterwards the registry is read-only and can be
// shared by parallel walkers.
type Registry struct {
	rules  []*Rule
	byID   map[string]*Rule
	byKind map[ast.NodeKind][]*Rule
}

func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]*Rule),
		byKind: make(map[ast.NodeKind][]*Rule),
	}
}

// Register adds a copy of rule under every kind it subscribes to.
func (r *Registry) Register(rule Rule) error {
	if err := rule.validate(); err != nil {
		return err
	}
	if _, dup := r.byID[rule.ID]; dup {
		return configErr(rule.ID, ErrDuplicateRule)
	}
	stored := rule
	stored.Kinds = slices.Clone(rule.Kinds)
	slices.Sort(stored.Kinds)
	stored.Kinds = slices.Compact(stored.Kinds)

	r.rules = append(r.rules, &stored)
	r.byID[stored.ID] = &stored
	for _, k := range stored.Kinds {
		r.byKind[k] = append(r.byKind[k], &stored)
	}
	return nil
}

// RulesFor returns the rules subscribed to kind in registration order.
// The result must not be modified.
func (r *Registry) RulesFor(kind ast.NodeKind) []*Rule {
	return r.byKind[kind]
}

// Rules returns every registered rule in registration order.
func (r *Registry) Rules() []*Rule {
	return r.rules
}

func (r *Registry) Lookup(id string) (*Rule, bool) {
	rule, ok := r.byID[id]
	return rule, ok
}

func (r *Registry) Len() int {
	return len(r.rules)
}

// Fingerprint identifies the active rule set: ids, severities and kinds in
// registration order. Cached results are only valid for the same fingerprint.
func (r *Registry) Fingerprint() string {
	h := sha256.New()
	for _, rule := range r.rules {
		fmt.Fprintf(h, "%s=%s", rule.ID, rule.Severity)
		for _, k := range rule.Kinds {
			fmt.Fprintf(h, ",%d", k)
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
