package sqlstore_test

import (
	"testing"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent"
	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent/internal/sqlstore"
)

const fixedWidthUTC = "2006-01-02T15:04:05.000000000Z"

func encodeAsText(dueDate time.Time) any {
	return dueDate.UTC().Format(fixedWidthUTC)
}

func encodeAsTime(dueDate time.Time) any {
	return dueDate.UTC().Truncate(time.Microsecond)
}

func Test_BuildSelectQuery_PerDialect(t *testing.T) {
	from := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	until := from.AddDate(0, 0, 5)
	filter := scheduleevent.BuildScheduleEventFilter().
		Matching().
		DueBetween(from, until).
		AndCompleted(false).
		Finalize()

	tests := []struct {
		name     string
		cfg      sqlstore.Config
		filter   scheduleevent.Filter
		expected string
	}{
		{
			name:   "postgres_all",
			cfg:    sqlstore.Config{Dialect: "postgres", TableName: "schedule_events", EncodeDueDate: encodeAsTime},
			filter: scheduleevent.BuildScheduleEventFilter().MatchingAnyScheduleEvent(),
			expected: `SELECT "id", "description", "is_completed", "due_date" FROM "schedule_events" ` +
				`ORDER BY "id" ASC`,
		},
		{
			name:   "postgres_due_between_and_open",
			cfg:    sqlstore.Config{Dialect: "postgres", TableName: "schedule_events", EncodeDueDate: encodeAsTime},
			filter: filter,
			expected: `SELECT "id", "description", "is_completed", "due_date" FROM "schedule_events" ` +
				`WHERE (("due_date" >= '2026-01-02T03:04:05Z') AND ("due_date" <= '2026-01-07T03:04:05Z') AND ("is_completed" IS FALSE)) ` +
				`ORDER BY "id" ASC`,
		},
		{
			name:   "sqlite_due_between_and_open",
			cfg:    sqlstore.Config{Dialect: "sqlite3", TableName: "schedule_events", EncodeDueDate: encodeAsText},
			filter: filter,
			expected: "SELECT `id`, `description`, `is_completed`, `due_date` FROM `schedule_events` " +
				"WHERE ((`due_date` >= '2026-01-02T03:04:05.000000000Z') AND (`due_date` <= '2026-01-07T03:04:05.000000000Z') AND (`is_completed` IS 0)) " +
				"ORDER BY `id` ASC",
		},
		{
			name:   "custom_table_name",
			cfg:    sqlstore.Config{Dialect: "sqlite3", TableName: "my_events", EncodeDueDate: encodeAsText},
			filter: scheduleevent.BuildScheduleEventFilter().Matching().WithID(3).Finalize(),
			expected: "SELECT `id`, `description`, `is_completed`, `due_date` FROM `my_events` " +
				"WHERE (`id` = 3) ORDER BY `id` ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			sqlQuery, err := sqlstore.New(tt.cfg).BuildSelectQuery(tt.filter)

			// assert
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, sqlQuery)
		})
	}
}
