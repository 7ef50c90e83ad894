package diag

// Reserved rule ids for findings that do not come from a style rule.
const (
	// RuleInternalFailure marks a rule evaluator that failed or panicked on a node.
	RuleInternalFailure = "internal-rule-failure"
	// RuleParseError marks syntax the parser had to recover from.
	RuleParseError = "parse-error"
	// RuleBadDirective marks a suppression comment that could not be understood.
	RuleBadDirective = "invalid-directive"
)

// IsReserved reports whether id belongs to the engine rather than a style rule.
func IsReserved(id string) bool {
	switch id {
	case RuleInternalFailure, RuleParseError, RuleBadDirective:
		return true
	}
	return false
}
