// Package diag defines the diagnostic records produced while rewriting
// automation files.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Path and Line – where the finding applies; Line is 1-based and zero
//     means the whole file.
//
// Package diag does not perform any formatting or IO. The driver fills a Bag
// per file and the CLI renders it.
package diag
