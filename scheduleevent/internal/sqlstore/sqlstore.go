// Package sqlstore implements the scheduleevent.Repository operations on top of goqu and a DBAdapter.
// The PostgreSQL and SQLite engines only differ in dialect, due date encoding, and how the id of a new row is read.
package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/internal/adapters"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/internal/instrumentation"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/internal/sqlfilter"
)

const (
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgBuildUpdateQueryFailed = "failed to build update query"
	logMsgBuildDeleteQueryFailed = "failed to build delete query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgDBExecFailed           = "database statement execution failed"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgDecodeDueDateFailed    = "failed to decode due date"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgRowsAffectedFailed     = "failed to get rows affected count"
	logMsgLastInsertIDFailed     = "failed to get the id of the inserted row"
	logMsgQueryCompleted         = "query completed"
	logMsgEventCreated           = "schedule event created"
	logMsgEventUpdated           = "schedule event updated"
	logMsgEventDeleted           = "schedule event deleted"
	logMsgEventNotFound          = "schedule event not found"
	logAttrQuery                 = "query"
	logAttrID                    = "id"
)

// DueDateDecoder converts the raw due_date column value returned by the driver into a time.Time.
type DueDateDecoder func(raw any) (time.Time, error)

// InsertMode selects how the id of a newly inserted row is obtained.
type InsertMode int

const (
	// InsertReturningID appends RETURNING id to the INSERT statement and reads it from the result rows.
	InsertReturningID InsertMode = iota

	// InsertLastInsertID executes the INSERT statement and reads the id from the driver's result.
	InsertLastInsertID
)

// Config is assembled by the engines after all of their options have been applied.
type Config struct {
	DB              adapters.DBAdapter
	Dialect         string
	TableName       string
	EncodeDueDate   sqlfilter.DueDateEncoder
	DecodeDueDate   DueDateDecoder
	InsertMode      InsertMode
	Instrumentation instrumentation.Instrumentation
}

// Store executes the schedule event operations for one table.
type Store struct {
	cfg     Config
	builder goqu.DialectWrapper
}

// New creates a Store; the goqu dialect named in cfg must be registered by the caller.
func New(cfg Config) Store {
	return Store{
		cfg:     cfg,
		builder: goqu.Dialect(cfg.Dialect),
	}
}

// TableName returns the name of the table the Store operates on.
func (s Store) TableName() string {
	return s.cfg.TableName
}

// FindAll returns all stored events ordered by id.
func (s Store) FindAll(ctx context.Context) (scheduleevent.ScheduleEvents, error) {
	return s.find(ctx, instrumentation.OperationFindAll, scheduleevent.BuildScheduleEventFilter().MatchingAnyScheduleEvent())
}

// FindByCondition returns all events matching the filter ordered by id.
func (s Store) FindByCondition(ctx context.Context, filter scheduleevent.Filter) (scheduleevent.ScheduleEvents, error) {
	return s.find(ctx, instrumentation.OperationFindByCondition, filter)
}

func (s Store) find(ctx context.Context, operation string, filter scheduleevent.Filter) (scheduleevent.ScheduleEvents, error) {
	ctx, observer := s.cfg.Instrumentation.Start(ctx, operation)

	sqlQuery, buildQueryErr := s.buildSelectQuery(filter)
	if buildQueryErr != nil {
		return nil, observer.Failed(logMsgBuildSelectQueryFailed, instrumentation.ErrorTypeBuildQuery, buildQueryErr)
	}

	start := time.Now()
	rows, queryErr := s.cfg.DB.Query(ctx, sqlQuery)
	observer.SQLExecuted(sqlQuery, time.Since(start))

	if queryErr != nil {
		return nil, observer.Failed(
			logMsgDBQueryFailed,
			instrumentation.ErrorTypeDatabaseQuery,
			errors.Join(scheduleevent.ErrQueryingFailed, queryErr),
			logAttrQuery, sqlQuery,
		)
	}
	defer s.closeRows(rows, observer)

	events, scanErr := s.scanScheduleEvents(rows)
	if scanErr != nil {
		return nil, observer.Failed(logMsgScanRowFailed, instrumentation.ErrorTypeRowScan, scanErr)
	}

	observer.Succeeded(logMsgQueryCompleted, int64(len(events)))

	return events, nil
}

func (s Store) scanScheduleEvents(rows adapters.DBRows) (scheduleevent.ScheduleEvents, error) {
	events := make(scheduleevent.ScheduleEvents, 0)

	for rows.Next() {
		var event scheduleevent.ScheduleEvent
		var rawDueDate any

		if err := rows.Scan(&event.ID, &event.Description, &event.IsCompleted, &rawDueDate); err != nil {
			return nil, errors.Join(scheduleevent.ErrScanningDBRowFailed, err)
		}

		dueDate, decodeErr := s.cfg.DecodeDueDate(rawDueDate)
		if decodeErr != nil {
			return nil, errors.Join(scheduleevent.ErrScanningDBRowFailed, errors.New(logMsgDecodeDueDateFailed), decodeErr)
		}

		event.DueDate = dueDate
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Join(scheduleevent.ErrScanningDBRowFailed, err)
	}

	return events, nil
}

// Create inserts the event and sets the id assigned by the database on it; any id set by the caller is ignored.
func (s Store) Create(ctx context.Context, event *scheduleevent.ScheduleEvent) error {
	ctx, observer := s.cfg.Instrumentation.Start(ctx, instrumentation.OperationCreate)

	sqlQuery, buildQueryErr := s.buildInsertQuery(*event)
	if buildQueryErr != nil {
		return observer.Failed(logMsgBuildInsertQueryFailed, instrumentation.ErrorTypeBuildQuery, buildQueryErr)
	}

	var id scheduleevent.IDInt64
	var err error

	switch s.cfg.InsertMode {
	case InsertLastInsertID:
		id, err = s.insertReadingLastInsertID(ctx, sqlQuery, observer)
	default:
		id, err = s.insertReturningID(ctx, sqlQuery, observer)
	}

	if err != nil {
		return err
	}

	event.ID = id
	event.DueDate = s.storedDueDate(event.DueDate)

	observer.Succeeded(logMsgEventCreated, 1, logAttrID, id)

	return nil
}

func (s Store) insertReturningID(
	ctx context.Context,
	sqlQuery string,
	observer *instrumentation.Observer,
) (scheduleevent.IDInt64, error) {

	start := time.Now()
	rows, queryErr := s.cfg.DB.Query(ctx, sqlQuery)
	observer.SQLExecuted(sqlQuery, time.Since(start))

	if queryErr != nil {
		return 0, observer.Failed(
			logMsgDBExecFailed,
			instrumentation.ErrorTypeDatabaseExec,
			errors.Join(scheduleevent.ErrInsertingFailed, queryErr),
			logAttrQuery, sqlQuery,
		)
	}
	defer s.closeRows(rows, observer)

	var id scheduleevent.IDInt64

	if !rows.Next() {
		err := rows.Err()
		if err == nil {
			err = errors.New("no id returned")
		}

		return 0, observer.Failed(
			logMsgDBExecFailed,
			instrumentation.ErrorTypeDatabaseExec,
			errors.Join(scheduleevent.ErrInsertingFailed, err),
			logAttrQuery, sqlQuery,
		)
	}

	if err := rows.Scan(&id); err != nil {
		return 0, observer.Failed(
			logMsgScanRowFailed,
			instrumentation.ErrorTypeRowScan,
			errors.Join(scheduleevent.ErrScanningDBRowFailed, err),
		)
	}

	return id, nil
}

func (s Store) insertReadingLastInsertID(
	ctx context.Context,
	sqlQuery string,
	observer *instrumentation.Observer,
) (scheduleevent.IDInt64, error) {

	result, execErr := s.exec(ctx, sqlQuery, observer)
	if execErr != nil {
		return 0, observer.Failed(
			logMsgDBExecFailed,
			instrumentation.ErrorTypeDatabaseExec,
			errors.Join(scheduleevent.ErrInsertingFailed, execErr),
			logAttrQuery, sqlQuery,
		)
	}

	id, lastInsertIDErr := result.LastInsertId()
	if lastInsertIDErr != nil {
		return 0, observer.Failed(
			logMsgLastInsertIDFailed,
			instrumentation.ErrorTypeDatabaseExec,
			errors.Join(scheduleevent.ErrInsertingFailed, lastInsertIDErr),
		)
	}

	return id, nil
}

// Update overwrites description, completion flag and due date of the stored event with the same id.
// It returns scheduleevent.ErrScheduleEventNotFound if no row was affected.
// On success the event's due date is normalized like in Create.
func (s Store) Update(ctx context.Context, event *scheduleevent.ScheduleEvent) error {
	ctx, observer := s.cfg.Instrumentation.Start(ctx, instrumentation.OperationUpdate)

	sqlQuery, buildQueryErr := s.buildUpdateQuery(*event)
	if buildQueryErr != nil {
		return observer.Failed(logMsgBuildUpdateQueryFailed, instrumentation.ErrorTypeBuildQuery, buildQueryErr)
	}

	rowsAffected, err := s.execCountingRows(ctx, sqlQuery, scheduleevent.ErrUpdatingFailed, observer)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		observer.NotFound(logMsgEventNotFound, logAttrID, event.ID)

		return scheduleevent.ErrScheduleEventNotFound
	}

	event.DueDate = s.storedDueDate(event.DueDate)

	observer.Succeeded(logMsgEventUpdated, rowsAffected, logAttrID, event.ID)

	return nil
}

// Delete removes the event with the given id and reports whether a row was removed.
func (s Store) Delete(ctx context.Context, id scheduleevent.IDInt64) (bool, error) {
	ctx, observer := s.cfg.Instrumentation.Start(ctx, instrumentation.OperationDelete)

	sqlQuery, buildQueryErr := s.buildDeleteQuery(id)
	if buildQueryErr != nil {
		return false, observer.Failed(logMsgBuildDeleteQueryFailed, instrumentation.ErrorTypeBuildQuery, buildQueryErr)
	}

	rowsAffected, err := s.execCountingRows(ctx, sqlQuery, scheduleevent.ErrDeletingFailed, observer)
	if err != nil {
		return false, err
	}

	if rowsAffected == 0 {
		observer.NotFound(logMsgEventNotFound, logAttrID, id)

		return false, nil
	}

	observer.Succeeded(logMsgEventDeleted, rowsAffected, logAttrID, id)

	return true, nil
}

func (s Store) exec(ctx context.Context, sqlQuery string, observer *instrumentation.Observer) (adapters.DBResult, error) {
	start := time.Now()
	result, execErr := s.cfg.DB.Exec(ctx, sqlQuery)
	observer.SQLExecuted(sqlQuery, time.Since(start))

	return result, execErr
}

func (s Store) execCountingRows(
	ctx context.Context,
	sqlQuery string,
	sentinel error,
	observer *instrumentation.Observer,
) (int64, error) {

	result, execErr := s.exec(ctx, sqlQuery, observer)
	if execErr != nil {
		return 0, observer.Failed(
			logMsgDBExecFailed,
			instrumentation.ErrorTypeDatabaseExec,
			errors.Join(sentinel, execErr),
			logAttrQuery, sqlQuery,
		)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		return 0, observer.Failed(
			logMsgRowsAffectedFailed,
			instrumentation.ErrorTypeRowsAffected,
			errors.Join(scheduleevent.ErrGettingRowsAffectedFailed, rowsAffectedErr),
		)
	}

	return rowsAffected, nil
}

// storedDueDate returns the due date the way it reads back from the database, e.g. in UTC with the column's precision.
func (s Store) storedDueDate(dueDate time.Time) time.Time {
	stored, err := s.cfg.DecodeDueDate(s.cfg.EncodeDueDate(dueDate))
	if err != nil {
		return dueDate.UTC()
	}

	return stored
}

// closeRows closes database rows and logs a warning if that fails.
func (s Store) closeRows(rows adapters.DBRows, observer *instrumentation.Observer) {
	if closeErr := rows.Close(); closeErr != nil {
		observer.Warn(logMsgCloseRowsFailed, closeErr)
	}
}
