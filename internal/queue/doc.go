// Package queue persists per-folder processing state in SQLite.
//
// Each entry tracks one item folder and its expected artifacts through the
// pending → processed | failed lifecycle. Transitions are guarded SQL updates
// so a crash mid-batch leaves the store consistent: an entry only becomes
// processed after its row has durably landed in the workbook, and failed
// entries stay eligible for a manual retry.
//
// Treat this package as the single source of truth for queue semantics; when
// statuses or fields change, update schema.sql and bump schemaVersion.
package queue
