package sqliteengine

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/internal/adapters"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/internal/instrumentation"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/internal/sqlstore"
)

const (
	DefaultTableName = "schedule_events"

	// DueDateLayout is the fixed-width text layout of the due_date column, always in UTC.
	DueDateLayout = "2006-01-02T15:04:05.000000000Z"

	dialectSQLite     = "sqlite3"
	dbSystemSQLite    = "sqlite"
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

// Store is the SQLite implementation of scheduleevent.Repository.
type Store struct {
	db               adapters.DBAdapter
	sqlDB            *sql.DB
	tableName        string
	logger           scheduleevent.Logger
	contextualLogger scheduleevent.ContextualLogger
	metricsCollector scheduleevent.MetricsCollector
	tracingCollector scheduleevent.TracingCollector
	core             sqlstore.Store
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, scheduleevent.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), db, options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, scheduleevent.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), db.DB, options...)
}

func newStore(db adapters.DBAdapter, sqlDB *sql.DB, options ...Option) (Store, error) {
	s := Store{
		db:        db,
		sqlDB:     sqlDB,
		tableName: DefaultTableName,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	s.core = sqlstore.New(sqlstore.Config{
		DB:            s.db,
		Dialect:       dialectSQLite,
		TableName:     s.tableName,
		EncodeDueDate: EncodeDueDate,
		DecodeDueDate: DecodeDueDate,
		InsertMode:    sqlstore.InsertLastInsertID,
		Instrumentation: instrumentation.Instrumentation{
			Logger:           s.logger,
			ContextualLogger: s.contextualLogger,
			MetricsCollector: s.metricsCollector,
			TracingCollector: s.tracingCollector,
			DBSystem:         dbSystemSQLite,
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
func (s Store) FindByCondition(ctx context.Context, filter scheduleevent.Filter) (scheduleevent.ScheduleEvents, error) {
	return s.core.FindByCondition(ctx, filter)
}

// Create inserts the event; on success event.ID holds the rowid assigned by SQLite.
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

	migrations, subErr := fs.Sub(embeddedMigrations, migrationsDir)
	if subErr != nil {
		return errors.Join(scheduleevent.ErrMigratingSchemaFailed, subErr)
	}

	provider, providerErr := goose.NewProvider(goose.DialectSQLite3, s.sqlDB, migrations)
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

// EncodeDueDate renders the due date as fixed-width UTC text.
func EncodeDueDate(dueDate time.Time) any {
	return dueDate.UTC().Format(DueDateLayout)
}

// DecodeDueDate parses a due_date column value as returned by the driver.
func DecodeDueDate(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case string:
		return time.Parse(DueDateLayout, v)
	case []byte:
		return time.Parse(DueDateLayout, string(v))
	case time.Time:
		return v.UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unexpected due date column type %T", raw)
	}
}

// Ensure Store implements scheduleevent.Repository.
var _ scheduleevent.Repository = Store{}
