// Package postgres provides the PostgreSQL implementation of the catalog
// store defined in internal/store. Options, related category ids and tags
// are stored as JSONB columns and decoded into domain types on read.
package postgres
