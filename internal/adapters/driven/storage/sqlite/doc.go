// Package sqlite implements driven.ProgressStore on SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Datasets live in the issues and pull_requests tables and
// the checkpoint in checkpoints, all keyed by repository.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory.
//
// # Atomicity
//
// A flush is one transaction: rows and checkpoint commit together, and rows
// are upserted by id, so a retried page never duplicates records.
package sqlite
