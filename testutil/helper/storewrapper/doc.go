// Package storewrapper creates the schedule event store the tests run against.
//
// STORE_ENGINE selects the engine ("sqlite" by default, or "postgres"), ADAPTER_TYPE selects the
// database handle ("pgx.pool", "sql.db", "sqlx.db"). PostgreSQL tests connect to POSTGRES_TEST_DSN
// and are skipped if the database can not be reached.
package storewrapper
