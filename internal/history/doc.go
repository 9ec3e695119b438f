// Package history persists one record per conversion job in SQLite.
//
// The store is an archive, not coordination state: jobs append their outcome
// after reaching a terminal state, and the CLI reads recent rows for display.
// A write failure here is logged as a warning by the caller and never fails
// the conversion itself.
//
// Schema changes bump the version in schema.go; users clear the database to
// adopt the new schema.
package history
