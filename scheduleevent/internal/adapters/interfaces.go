package adapters

import (
	"context"
	"errors"
)

// ErrLastInsertIDNotSupported is returned by results of drivers that only report ids via RETURNING.
var ErrLastInsertIDNotSupported = errors.New("last insert id is not supported by this driver")

// DBAdapter defines the interface for database operations needed by the schedule event engines.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}
