package lint

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateRule = errors.New("duplicate rule id")
	ErrUnknownRule   = errors.New("unknown rule id")
	ErrBadSeverity   = errors.New("malformed severity")
	ErrInvalidRule   = errors.New("invalid rule definition")
)

// ConfigError reports a problem with the rule set. It is always raised before
// any tree is walked.
type ConfigError struct {
	RuleID string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.RuleID == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("rule %q: %v", e.RuleID, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErr(id string, err error) *ConfigError {
	return &ConfigError{RuleID: id, Err: err}
}
