// Package helper contains fixtures and Given... arrange steps shared by the schedule event tests.
package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent"
)

// FakeClock returns the fixed "now" the tests are arranged around.
func FakeClock() time.Time {
	return time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)
}

// GivenUniqueDescription returns a description that no other test uses, so results can be told apart.
func GivenUniqueDescription(t testing.TB) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return "schedule event " + id.String()
}

func FixtureScheduleEvent(description string, isCompleted bool, dueDate time.Time) scheduleevent.ScheduleEvent {
	return scheduleevent.BuildScheduleEvent(description, isCompleted, dueDate)
}

func GivenScheduleEventWasCreated(
	t testing.TB,
	ctx context.Context,
	repo scheduleevent.Repository,
	description string,
	isCompleted bool,
	dueDate time.Time,
) scheduleevent.ScheduleEvent {

	event := FixtureScheduleEvent(description, isCompleted, dueDate)
	err := repo.Create(ctx, &event)
	require.NoError(t, err, "error in arranging test data")
	require.True(t, event.IsStored(), "error in arranging test data")

	return event
}

// GivenScheduleEventsDueInDays creates one open schedule event per entry in daysFromNow, in the given order.
func GivenScheduleEventsDueInDays(
	t testing.TB,
	ctx context.Context,
	repo scheduleevent.Repository,
	now time.Time,
	daysFromNow ...int,
) scheduleevent.ScheduleEvents {

	events := make(scheduleevent.ScheduleEvents, 0, len(daysFromNow))
	for _, days := range daysFromNow {
		events = append(events, GivenScheduleEventWasCreated(
			t,
			ctx,
			repo,
			GivenUniqueDescription(t),
			false,
			now.AddDate(0, 0, days),
		))
	}

	return events
}

// IDsOf returns the IDs of the events in their order.
func IDsOf(events scheduleevent.ScheduleEvents) []scheduleevent.IDInt64 {
	ids := make([]scheduleevent.IDInt64, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.ID)
	}

	return ids
}
