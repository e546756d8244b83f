package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/scheduling-event-manager-go/config"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/postgresengine"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/sqliteengine"
)

// migratableStore is what both engines offer the server.
type migratableStore interface {
	scheduleevent.Repository
	Migrate(ctx context.Context) error
}

// storeOptions holds the observability adapters handed to the engine, nil members are left out.
type storeOptions struct {
	logger           scheduleevent.Logger
	contextualLogger scheduleevent.ContextualLogger
	metricsCollector scheduleevent.MetricsCollector
	tracingCollector scheduleevent.TracingCollector
}

// openStore opens the database handle selected by the config and builds the matching engine.
// The returned func closes the handle(s).
func openStore(ctx context.Context, sc config.StoreConfig, so storeOptions) (migratableStore, func(), error) {
	switch sc.Engine {
	case config.StoreEngineSQLite:
		return openSQLiteStore(ctx, sc, so)
	default:
		return openPostgresStore(ctx, sc, so)
	}
}

func openPostgresStore(ctx context.Context, sc config.StoreConfig, so storeOptions) (migratableStore, func(), error) {
	options := []postgresengine.Option{postgresengine.WithTableName(sc.TableName)}
	if so.logger != nil {
		options = append(options, postgresengine.WithLogger(so.logger))
	}
	if so.contextualLogger != nil {
		options = append(options, postgresengine.WithContextualLogger(so.contextualLogger))
	}
	if so.metricsCollector != nil {
		options = append(options, postgresengine.WithMetrics(so.metricsCollector))
	}
	if so.tracingCollector != nil {
		options = append(options, postgresengine.WithTracing(so.tracingCollector))
	}

	switch sc.Adapter {
	case config.AdapterSQLDB:
		db, err := config.PostgresSQLDB(ctx, sc.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres (sql.db): %w", err)
		}

		store, err := postgresengine.NewStoreFromSQLDB(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("create postgres store: %w", err)
		}

		return store, func() { _ = db.Close() }, nil

	case config.AdapterSQLXDB:
		db, err := config.PostgresSQLX(ctx, sc.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres (sqlx.db): %w", err)
		}

		store, err := postgresengine.NewStoreFromSQLX(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("create postgres store: %w", err)
		}

		return store, func() { _ = db.Close() }, nil

	default: // pgx.pool
		pool, err := config.PostgresPGXPool(ctx, sc.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres (pgx.pool): %w", err)
		}

		if sc.PostgresReplicaDSN == "" {
			store, storeErr := postgresengine.NewStoreFromPGXPool(pool, options...)
			if storeErr != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("create postgres store: %w", storeErr)
			}

			return store, pool.Close, nil
		}

		var replica *pgxpool.Pool
		replica, err = config.PostgresPGXPool(ctx, sc.PostgresReplicaDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("open postgres replica (pgx.pool): %w", err)
		}

		store, err := postgresengine.NewStoreFromPGXPoolWithReplica(pool, replica, options...)
		if err != nil {
			replica.Close()
			pool.Close()
			return nil, nil, fmt.Errorf("create postgres store: %w", err)
		}

		return store, func() {
			replica.Close()
			pool.Close()
		}, nil
	}
}

func openSQLiteStore(ctx context.Context, sc config.StoreConfig, so storeOptions) (migratableStore, func(), error) {
	options := []sqliteengine.Option{sqliteengine.WithTableName(sc.TableName)}
	if so.logger != nil {
		options = append(options, sqliteengine.WithLogger(so.logger))
	}
	if so.contextualLogger != nil {
		options = append(options, sqliteengine.WithContextualLogger(so.contextualLogger))
	}
	if so.metricsCollector != nil {
		options = append(options, sqliteengine.WithMetrics(so.metricsCollector))
	}
	if so.tracingCollector != nil {
		options = append(options, sqliteengine.WithTracing(so.tracingCollector))
	}

	db, err := config.SQLiteSQLX(ctx, sc.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}

	var store sqliteengine.Store
	if sc.Adapter == config.AdapterSQLXDB {
		store, err = sqliteengine.NewStoreFromSQLX(db, options...)
	} else {
		store, err = sqliteengine.NewStoreFromSQLDB(db.DB, options...)
	}

	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("create sqlite store: %w", err)
	}

	return store, func() { _ = db.Close() }, nil
}
