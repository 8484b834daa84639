// Package repository defines the data access interface for the todos service.
//
// TaskRepository is the contract every storage backend satisfies. Two
// implementations exist:
//
//   - memory: a map guarded by a sync.RWMutex, lost on restart
//   - relational: database/sql against SQLite (modernc.org/sqlite) or
//     PostgreSQL (pgx), durable
//
// Callers pick one at startup and depend only on the interface.
//
// # Errors
//
// Backends report failures with a closed set of error kinds:
//
//   - NotFoundError (errors.Is(err, ErrNotFound)) when find, update or
//     delete target an absent id
//   - UnexpectedError (errors.Is(err, ErrUnexpected)) for any other storage
//     fault; the driver error is kept for logging via Unwrap
//
// Backend-specific error types never cross this boundary.
//
// # Input
//
// Repositories assume their input has been validated by the caller and
// do not re-check text length.
//
// # Testing
//
// The repotest subpackage holds a conformance suite run against every
// backend so they stay interchangeable.
package repository
