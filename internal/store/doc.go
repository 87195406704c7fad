// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// The catalog (questions and categories) lives in a SQL database, either
// PostgreSQL or SQLite. Answer sessions live in memory or in Redis.
package store
