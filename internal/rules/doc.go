// Package rules holds the style conventions stylint enforces. Every evaluator
// is a pure function of the node and the walker's context: it keeps no state
// between calls and reports at most one finding per node.
package rules
