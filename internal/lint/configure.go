package lint

import (
	"errors"
	"fmt"
	"strings"

	"stylint/internal/diag"
)

// SeverityOff disables a rule in a Setting.
const SeverityOff = "off"

// Setting is the configured state of one rule. An empty Severity keeps the
// rule's default.
type Setting struct {
	ID       string
	Severity string
}

// Selection enumerates the rules to activate.
type Selection struct {
	// Recommended starts from every non-optional catalog rule.
	Recommended bool
	// Settings are applied in order; later entries win.
	Settings []Setting
}

// Configure builds the active registry from a catalog of known rules.
// Every problem is reported, joined, before anything is walked.
func Configure(catalog []Rule, sel Selection) (*Registry, error) {
	known := make(map[string]*Rule, len(catalog))
	var errs []error
	for i := range catalog {
		rule := &catalog[i]
		if _, dup := known[rule.ID]; dup {
			errs = append(errs, configErr(rule.ID, ErrDuplicateRule))
			continue
		}
		known[rule.ID] = rule
	}

	active := make(map[string]diag.Severity)
	if sel.Recommended {
		for i := range catalog {
			if !catalog[i].Optional {
				active[catalog[i].ID] = catalog[i].Severity
			}
		}
	}

	for _, s := range sel.Settings {
		rule, ok := known[s.ID]
		if !ok {
			errs = append(errs, configErr(s.ID, ErrUnknownRule))
			continue
		}
		level := strings.ToLower(strings.TrimSpace(s.Severity))
		switch level {
		case SeverityOff:
			delete(active, s.ID)
		case "":
			active[s.ID] = rule.Severity
		default:
			sev, err := diag.ParseSeverity(level)
			if err != nil {
				errs = append(errs, configErr(s.ID, fmt.Errorf("%w %q", ErrBadSeverity, s.Severity)))
				continue
			}
			active[s.ID] = sev
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	reg := NewRegistry()
	for i := range catalog {
		sev, on := active[catalog[i].ID]
		if !on {
			continue
		}
		rule := catalog[i]
		rule.Severity = sev
		if err := reg.Register(rule); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return reg, nil
}
