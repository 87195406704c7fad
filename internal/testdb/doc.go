// Package testdb provides utilities for database testing.
//
// SQLite tests get a fresh, fully migrated database file in t.TempDir(), so
// they need no external services and can run in parallel. PostgreSQL tests
// run only when DATABASE_URL is set and use transaction-based isolation:
// each test runs in its own transaction, rolled back when the test completes.
//
//	func TestCatalog(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetPostgresDBWithT(t) // skips without DATABASE_URL
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        catalogStore := postgres.NewPostgresCatalogStore(tx, nil)
//	        ...
//	    })
//	}
package testdb
