// Package diag defines the diagnostic model shared by the parser adapter,
// the rule walker and the renderers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Rule: the identifier of the rule that produced it (e.g. "no-nested-ternary").
//     Engine-level findings use the reserved ids in codes.go.
//   - Severity: warning or error.
//   - Message: human oriented text; keep it short and actionable.
//   - Primary span: the source.Span pointing to the offending node.
//   - Notes: optional secondary spans/messages for additional context.
//
// A Diagnostic is a value. Once handed to a Bag it is never modified.
//
// # Collecting
//
// Producers emit through a Reporter; BagReporter stores into a Bag. A Bag is
// in the collecting state until Finalize sorts it by (file, start, end, rule),
// removes duplicates with the same span and rule, and returns an immutable
// copy. Any later Add or Merge fails with ErrFinalized.
//
// A Bag is not safe for concurrent use. Parallel walkers each fill their own
// Bag and the owner merges them before finalizing.
//
// # Consumers
//
//   - internal/diagfmt renders diagnostics in pretty/short/json/sarif form.
//   - internal/directive drops diagnostics silenced by source comments.
//   - internal/driver transports per-file results to the CLI.
package diag
