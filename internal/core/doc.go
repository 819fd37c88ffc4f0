// Package core runs generation requests on behalf of the web server.
//
// The engine in package generate is pure: it turns a row count and a
// schema into a table. This package adds what a shared server needs
// around it:
//
//   - Limits: requests above the configured row or column bounds fail
//     with a [LimitError] before any work is done.
//   - Concurrency: a [GenerationLimiter] bounds parallel generations;
//     callers that wait too long get [ErrTooManyGenerations].
//   - Reproducibility: every result carries the seed that produced it, so
//     the same request with that seed yields the same table.
//   - Audit: each generation is recorded through an [AuditRecorder]. Only
//     counts and column kinds are kept, never names or categories.
//
// # Error Handling
//
// Errors are mapped to user-facing messages with [MapError]. Codes are
// grouped as VAL (bad schema), GEN (limits, capacity, cancellation),
// RATE (throttling) and ERR000 (anything else).
package core
