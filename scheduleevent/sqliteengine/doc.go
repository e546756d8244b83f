// Package sqliteengine provides a SQLite implementation of scheduleevent.Repository,
// used for local development and as the in-process store of the test suites.
//
// Due dates are stored as fixed-width UTC text (see DueDateLayout), which makes the lexical comparison
// SQLite applies to TEXT columns equal to the chronological order, so range filters can be pushed down.
//
// The Store expects a database/sql or sqlx handle opened with the mattn/go-sqlite3 driver.
// In-memory databases must be limited to a single open connection, every new connection would get
// its own empty database.
package sqliteengine
