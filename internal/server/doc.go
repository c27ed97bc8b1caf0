// Package server provides the HTTP front door that triggers migration runs.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Trigger Surface
//
// [MigrationHandler] serves three GET routes: "/" reports a textual status
// line, "/migrate/sample" submits a run over the first five exported
// records, and "/migrate/all" submits the full batch. Both trigger routes
// are job-submission boundaries: the batch runs on a background goroutine
// and the response is a 202 acknowledgement carrying a generated job id,
// not a structured run report.
//
// # Concurrency
//
// Only one run may be active at a time. The handler guards submissions with
// a run-level lock and answers 409 Conflict while a run holds it, because
// the checkpoint ledger is not safe under overlapping runs.
package server
