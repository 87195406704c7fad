// Package sqlite provides the SQLite implementation of the catalog store
// defined in internal/store, backed by the pure Go modernc.org/sqlite driver.
// It is the default backend for local use and for tests.
package sqlite
