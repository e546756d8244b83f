package postgresengine

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/internal/adapters"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/internal/instrumentation"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/internal/sqlstore"
)

const (
	DefaultTableName = "schedule_events"

	dialectPostgres   = "postgres"
	dbSystemPostgres  = "postgresql"
	migrationsDir     = "migrations"
	logMsgMigrated    = "schema migration applied"
	logAttrVersion    = "version"
	logAttrDurationMS = "duration_ms"
)

// ErrMigratingCustomTableName is returned by Migrate if the Store was configured WithTableName,
// the embedded migrations only create the default table.
var ErrMigratingCustomTableName = errors.New("migrations only support the default table name")

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Store is the PostgreSQL implementation of scheduleevent.Repository.
type Store struct {
	db               adapters.DBAdapter
	migrationDB      func() (*sql.DB, func() error)
	tableName        string
	logger           scheduleevent.Logger
	contextualLogger scheduleevent.ContextualLogger
	metricsCollector scheduleevent.MetricsCollector
	tracingCollector scheduleevent.TracingCollector
	core             sqlstore.Store
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, scheduleevent.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), migrationDBFromPool(db), options...)
}

// NewStoreFromPGXPoolWithReplica creates a new Store using a primary pgx Pool and a replica Pool.
// Reads are served by the replica when the context asks for eventual consistency.
func NewStoreFromPGXPoolWithReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil || replica == nil {
		return Store{}, scheduleevent.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapterWithReplica(db, replica), migrationDBFromPool(db), options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, scheduleevent.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), borrowedMigrationDB(db), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, scheduleevent.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), borrowedMigrationDB(db.DB), options...)
}

func newStore(db adapters.DBAdapter, migrationDB func() (*sql.DB, func() error), options ...Option) (Store, error) {
	s := Store{
		db:          db,
		migrationDB: migrationDB,
		tableName:   DefaultTableName,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	s.core = sqlstore.New(sqlstore.Config{
		DB:            s.db,
		Dialect:       dialectPostgres,
		TableName:     s.tableName,
		EncodeDueDate: encodeDueDate,
		DecodeDueDate: decodeDueDate,
		InsertMode:    sqlstore.InsertReturningID,
		Instrumentation: instrumentation.Instrumentation{
			Logger:           s.logger,
			ContextualLogger: s.contextualLogger,
			MetricsCollector: s.metricsCollector,
			TracingCollector: s.tracingCollector,
			DBSystem:         dbSystemPostgres,
		},
	})

	return s, nil
}

// TableName returns the name of the table the Store operates on.
func (s Store) TableName() string {
	return s.tableName
}

// FindAll returns all schedule events ordered by id.
func (s Store) FindAll(ctx context.Context) (scheduleevent.ScheduleEvents, error) {
	return s.core.FindAll(ctx)
}

// FindByCondition returns the schedule events matching the filter ordered by id.
// The filter is compiled into the WHERE clause of the query.
func (s Store) FindByCondition(ctx context.Context, filter scheduleevent.Filter) (scheduleevent.ScheduleEvents, error) {
	return s.core.FindByCondition(ctx, filter)
}

// Create inserts the event; on success event.ID holds the id assigned by PostgreSQL.
func (s Store) Create(ctx context.Context, event *scheduleevent.ScheduleEvent) error {
	return s.core.Create(ctx, event)
}

// Update overwrites the mutable fields of the stored event with the same id.
// It returns scheduleevent.ErrScheduleEventNotFound if there is no such event.
func (s Store) Update(ctx context.Context, event *scheduleevent.ScheduleEvent) error {
	return s.core.Update(ctx, event)
}

// Delete removes the event with the given id and reports whether it existed.
func (s Store) Delete(ctx context.Context, id scheduleevent.IDInt64) (bool, error) {
	return s.core.Delete(ctx, id)
}

// Migrate applies all pending embedded goose migrations.
func (s Store) Migrate(ctx context.Context) error {
	if s.tableName != DefaultTableName {
		return errors.Join(scheduleevent.ErrMigratingSchemaFailed, ErrMigratingCustomTableName)
	}

	db, release := s.migrationDB()
	defer func() {
		if err := release(); err != nil && s.logger != nil {
			s.logger.Warn("failed to release the migration connection", "error", err.Error())
		}
	}()

	migrations, subErr := fs.Sub(embeddedMigrations, migrationsDir)
	if subErr != nil {
		return errors.Join(scheduleevent.ErrMigratingSchemaFailed, subErr)
	}

	provider, providerErr := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if providerErr != nil {
		return errors.Join(scheduleevent.ErrMigratingSchemaFailed, providerErr)
	}

	results, upErr := provider.Up(ctx)
	if upErr != nil {
		return errors.Join(scheduleevent.ErrMigratingSchemaFailed, upErr)
	}

	for _, result := range results {
		if s.logger != nil {
			s.logger.Info(
				logMsgMigrated,
				logAttrVersion, fmt.Sprintf("%d", result.Source.Version),
				logAttrDurationMS, instrumentation.ToMilliseconds(result.Duration),
			)
		}
	}

	return nil
}

// encodeDueDate normalizes to UTC with the microsecond precision of TIMESTAMPTZ.
func encodeDueDate(dueDate time.Time) any {
	return dueDate.UTC().Truncate(time.Microsecond)
}

func decodeDueDate(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unexpected due date column type %T", raw)
	}
}

// migrationDBFromPool opens a database/sql handle on top of the pool, goose only works with *sql.DB.
func migrationDBFromPool(pool *pgxpool.Pool) func() (*sql.DB, func() error) {
	return func() (*sql.DB, func() error) {
		db := stdlib.OpenDBFromPool(pool)
		return db, db.Close
	}
}

func borrowedMigrationDB(db *sql.DB) func() (*sql.DB, func() error) {
	return func() (*sql.DB, func() error) {
		return db, func() error { return nil }
	}
}

// Ensure Store implements scheduleevent.Repository.
var _ scheduleevent.Repository = Store{}
