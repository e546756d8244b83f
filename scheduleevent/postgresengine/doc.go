// Package postgresengine provides a PostgreSQL implementation of scheduleevent.Repository.
//
// The Store supports three database adapters, chosen by the constructor:
//   - NewStoreFromPGXPool (and NewStoreFromPGXPoolWithReplica) for jackc/pgx/v5 connection pools
//   - NewStoreFromSQLDB for database/sql, e.g. with the lib/pq driver
//   - NewStoreFromSQLX for jmoiron/sqlx
//
// All SQL is built with goqu using the postgres dialect. Filters are compiled into the WHERE clause,
// nothing is filtered in memory.
//
// With a replica pool configured, reads use the replica only if the context was prepared with
// scheduleevent.WithEventualConsistency; writes and strongly consistent reads always use the primary.
//
// Migrate applies the embedded goose migrations which create the default schedule_events table.
//
// Example:
//
//	store, err := postgresengine.NewStoreFromPGXPool(pool, postgresengine.WithLogger(slog.Default()))
//	if err != nil {
//		return err
//	}
//
//	if err = store.Migrate(ctx); err != nil {
//		return err
//	}
//
//	events, err := store.FindAll(ctx)
package postgresengine
