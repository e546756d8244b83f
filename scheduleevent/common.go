package scheduleevent

import (
	"errors"
)

var (
	ErrEmptyTableNameSupplied = errors.New("empty table name supplied")
	ErrNilDatabaseConnection  = errors.New("database connection must not be nil")

	// ErrScheduleEventNotFound is returned when an update did not affect any row.
	ErrScheduleEventNotFound = errors.New("schedule event not found")

	ErrBuildingQueryFailed       = errors.New("building the query failed")
	ErrQueryingFailed            = errors.New("querying schedule events failed")
	ErrScanningDBRowFailed       = errors.New("scanning the db row failed")
	ErrInsertingFailed           = errors.New("inserting the schedule event failed")
	ErrUpdatingFailed            = errors.New("updating the schedule event failed")
	ErrDeletingFailed            = errors.New("deleting the schedule event failed")
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
	ErrMigratingSchemaFailed     = errors.New("migrating the schema failed")
)

// IDInt64 is a type alias for int64, representing the store assigned identifier of a ScheduleEvent.
type IDInt64 = int64
