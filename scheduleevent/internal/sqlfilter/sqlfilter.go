// Package sqlfilter compiles a scheduleevent.Filter into a goqu expression,
// so that filtering always happens inside the database.
package sqlfilter

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent"
)

const (
	ColID          = "id"
	ColDescription = "description"
	ColIsCompleted = "is_completed"
	ColDueDate     = "due_date"
)

// DueDateEncoder converts a due date into the value the target dialect compares the due_date column with.
type DueDateEncoder func(dueDate time.Time) any

// Where compiles the filter into an expression for a WHERE clause.
// It returns nil if the filter does not restrict the result, then no WHERE clause must be added.
//
// Items are combined with OR, the predicates of one item with AND.
// Lists with a single element are unwrapped to keep the rendered SQL flat.
func Where(filter scheduleevent.Filter, encodeDueDate DueDateEncoder) exp.Expression {
	if filter.MatchesAnyScheduleEvent() {
		return nil
	}

	itemExpressions := make([]exp.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		predicateExpressions := make([]exp.Expression, 0, len(item.Predicates()))

		for _, predicate := range item.Predicates() {
			predicateExpressions = append(predicateExpressions, predicateExpression(predicate, encodeDueDate))
		}

		itemExpressions = append(itemExpressions, unwrapped(goqu.And(predicateExpressions...)))
	}

	return unwrapped(goqu.Or(itemExpressions...))
}

func predicateExpression(predicate scheduleevent.FilterPredicate, encodeDueDate DueDateEncoder) exp.Expression {
	switch predicate.Kind() {
	case scheduleevent.PredicateIDEquals:
		return goqu.C(ColID).Eq(predicate.ID())
	case scheduleevent.PredicateDueOnOrAfter:
		return goqu.C(ColDueDate).Gte(encodeDueDate(predicate.DueDate()))
	case scheduleevent.PredicateDueOnOrBefore:
		return goqu.C(ColDueDate).Lte(encodeDueDate(predicate.DueDate()))
	case scheduleevent.PredicateCompletedEquals:
		return goqu.C(ColIsCompleted).Eq(predicate.Completed())
	default:
		// unknown kinds must never widen the result
		return goqu.L("1 = 0")
	}
}

func unwrapped(list exp.ExpressionList) exp.Expression {
	if len(list.Expressions()) == 1 {
		return list.Expressions()[0]
	}

	return list
}
