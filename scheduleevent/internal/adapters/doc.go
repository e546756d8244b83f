// Package adapters provide database adapter implementations for the schedule event engines.
//
// This package implements the adapter pattern to support multiple database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface, allowing the PostgreSQL and SQLite engines to work with any
// supported connection type.
//
// The PGX adapter optionally routes reads to a replica pool when the context asks for
// eventual consistency (see scheduleevent.WithEventualConsistency).
package adapters
