// Package diag defines the diagnostic model shared by every generator phase.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier (see codes.go) with a stable string
//     form. Code ranges follow the error taxonomy of the generator:
//     LEX (lexing), SYN (item syntax), IO (file access), ATR (annotation
//     errors), TYP (type resolution), SHP (unsupported item shape),
//     INT (internal emitter invariants), CFG (rid.toml).
//   - Message: short, actionable text.
//   - Primary: the span the diagnostic points at.
//   - Notes: secondary spans, e.g. the first declaration of a duplicate.
//   - Fixes: structured edits the fix engine can apply.
//
// # Emitting diagnostics
//
// Phases report through a Reporter so that emission is decoupled from
// storage. ReportError and ReportWarning return a ReportBuilder
// that accepts notes and fixes before Emit is called. BagReporter collects
// into a Bag, which supports sorting, deduplication and merging.
//
// Package diag does no formatting beyond the single-line short form;
// rendering lives in internal/diagfmt and fix application in internal/fix.
package diag
