package sqlstore

import (
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/internal/sqlfilter"
)

// BuildSelectQuery renders the SELECT statement for the filter, exported for SQL rendering tests of the engines.
func (s Store) BuildSelectQuery(filter scheduleevent.Filter) (string, error) {
	return s.buildSelectQuery(filter)
}

func (s Store) buildSelectQuery(filter scheduleevent.Filter) (string, error) {
	selectStmt := s.builder.
		From(s.cfg.TableName).
		Select(sqlfilter.ColID, sqlfilter.ColDescription, sqlfilter.ColIsCompleted, sqlfilter.ColDueDate).
		Order(goqu.C(sqlfilter.ColID).Asc())

	if where := sqlfilter.Where(filter, s.cfg.EncodeDueDate); where != nil {
		selectStmt = selectStmt.Where(where)
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(scheduleevent.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s Store) buildInsertQuery(event scheduleevent.ScheduleEvent) (string, error) {
	insertStmt := s.builder.
		Insert(s.cfg.TableName).
		Rows(s.mutableColumns(event))

	if s.cfg.InsertMode == InsertReturningID {
		insertStmt = insertStmt.Returning(sqlfilter.ColID)
	}

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(scheduleevent.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s Store) buildUpdateQuery(event scheduleevent.ScheduleEvent) (string, error) {
	updateStmt := s.builder.
		Update(s.cfg.TableName).
		Set(s.mutableColumns(event)).
		Where(goqu.C(sqlfilter.ColID).Eq(event.ID))

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(scheduleevent.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s Store) buildDeleteQuery(id scheduleevent.IDInt64) (string, error) {
	deleteStmt := s.builder.
		Delete(s.cfg.TableName).
		Where(goqu.C(sqlfilter.ColID).Eq(id))

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(scheduleevent.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s Store) mutableColumns(event scheduleevent.ScheduleEvent) goqu.Record {
	return goqu.Record{
		sqlfilter.ColDescription: event.Description,
		sqlfilter.ColIsCompleted: event.IsCompleted,
		sqlfilter.ColDueDate:     s.cfg.EncodeDueDate(event.DueDate),
	}
}
