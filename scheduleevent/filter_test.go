package scheduleevent_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent"
)

//nolint:funlen
func Test_FilterBuilder_ValidCombinations(t *testing.T) {
	from := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	until := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		build    func() scheduleevent.Filter
		validate func(t *testing.T, filter scheduleevent.Filter)
	}{
		{
			name: "matching_any_event_creates_empty_filter",
			build: func() scheduleevent.Filter {
				return scheduleevent.BuildScheduleEventFilter().MatchingAnyScheduleEvent()
			},
			validate: func(t *testing.T, f scheduleevent.Filter) {
				assert.Empty(t, f.Items())
				assert.True(t, f.MatchesAnyScheduleEvent())
			},
		},
		{
			name: "id_only_filter",
			build: func() scheduleevent.Filter {
				return scheduleevent.BuildScheduleEventFilter().Matching().WithID(7).Finalize()
			},
			validate: func(t *testing.T, f scheduleevent.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []scheduleevent.FilterPredicate{scheduleevent.IDEquals(7)}, f.Items()[0].Predicates())
				assert.False(t, f.MatchesAnyScheduleEvent())
			},
		},
		{
			name: "due_between_filter",
			build: func() scheduleevent.Filter {
				return scheduleevent.BuildScheduleEventFilter().Matching().DueBetween(from, until).Finalize()
			},
			validate: func(t *testing.T, f scheduleevent.Filter) {
				assert.Len(t, f.Items(), 1)
				predicates := f.Items()[0].Predicates()
				assert.Len(t, predicates, 2)
				assert.Equal(t, scheduleevent.PredicateDueOnOrAfter, predicates[0].Kind())
				assert.Equal(t, from, predicates[0].DueDate())
				assert.Equal(t, scheduleevent.PredicateDueOnOrBefore, predicates[1].Kind())
				assert.Equal(t, until, predicates[1].DueDate())
			},
		},
		{
			name: "due_from_only_filter",
			build: func() scheduleevent.Filter {
				return scheduleevent.BuildScheduleEventFilter().Matching().DueBetween(from, time.Time{}).Finalize()
			},
			validate: func(t *testing.T, f scheduleevent.Filter) {
				assert.Equal(t, []scheduleevent.FilterPredicate{scheduleevent.DueOnOrAfter(from)}, f.Items()[0].Predicates())
			},
		},
		{
			name: "due_until_only_filter",
			build: func() scheduleevent.Filter {
				return scheduleevent.BuildScheduleEventFilter().Matching().DueBetween(time.Time{}, until).Finalize()
			},
			validate: func(t *testing.T, f scheduleevent.Filter) {
				assert.Equal(t, []scheduleevent.FilterPredicate{scheduleevent.DueOnOrBefore(until)}, f.Items()[0].Predicates())
			},
		},
		{
			name: "due_between_and_completed_filter",
			build: func() scheduleevent.Filter {
				return scheduleevent.BuildScheduleEventFilter().
					Matching().
					DueBetween(from, until).
					AndCompleted(true).
					Finalize()
			},
			validate: func(t *testing.T, f scheduleevent.Filter) {
				assert.Equal(t,
					[]scheduleevent.FilterPredicate{
						scheduleevent.DueOnOrAfter(from),
						scheduleevent.DueOnOrBefore(until),
						scheduleevent.CompletedEquals(true),
					},
					f.Items()[0].Predicates(),
				)
			},
		},
		{
			name: "completed_and_due_between_filter_is_sorted_like_the_reverse_order",
			build: func() scheduleevent.Filter {
				return scheduleevent.BuildScheduleEventFilter().
					Matching().
					Completed(false).
					AndDueBetween(from, until).
					Finalize()
			},
			validate: func(t *testing.T, f scheduleevent.Filter) {
				assert.Equal(t,
					[]scheduleevent.FilterPredicate{
						scheduleevent.DueOnOrAfter(from),
						scheduleevent.DueOnOrBefore(until),
						scheduleevent.CompletedEquals(false),
					},
					f.Items()[0].Predicates(),
				)
			},
		},
		{
			name: "multiple_items_filter",
			build: func() scheduleevent.Filter {
				return scheduleevent.BuildScheduleEventFilter().
					Matching().
					WithID(1).
					OrMatching().
					Completed(true).
					OrMatching().
					DueBetween(from, until).
					Finalize()
			},
			validate: func(t *testing.T, f scheduleevent.Filter) {
				assert.Len(t, f.Items(), 3)
				assert.Len(t, f.Items()[0].Predicates(), 1)
				assert.Len(t, f.Items()[1].Predicates(), 1)
				assert.Len(t, f.Items()[2].Predicates(), 2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, tt.build())
		})
	}
}

func Test_FilterBuilder_InputSanitization(t *testing.T) {
	dueDate := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		build    func() scheduleevent.Filter
		expected []scheduleevent.FilterPredicate
	}{
		{
			name: "duplicates_are_removed",
			build: func() scheduleevent.Filter {
				return scheduleevent.BuildScheduleEventFilter().
					Matching().
					AllPredicatesOf(
						scheduleevent.CompletedEquals(true),
						scheduleevent.CompletedEquals(true),
						scheduleevent.IDEquals(3),
					).
					Finalize()
			},
			expected: []scheduleevent.FilterPredicate{scheduleevent.IDEquals(3), scheduleevent.CompletedEquals(true)},
		},
		{
			name: "predicates_are_sorted_by_kind",
			build: func() scheduleevent.Filter {
				return scheduleevent.BuildScheduleEventFilter().
					Matching().
					AllPredicatesOf(
						scheduleevent.CompletedEquals(false),
						scheduleevent.DueOnOrBefore(dueDate),
						scheduleevent.IDEquals(3),
						scheduleevent.DueOnOrAfter(dueDate),
					).
					Finalize()
			},
			expected: []scheduleevent.FilterPredicate{
				scheduleevent.IDEquals(3),
				scheduleevent.DueOnOrAfter(dueDate),
				scheduleevent.DueOnOrBefore(dueDate),
				scheduleevent.CompletedEquals(false),
			},
		},
		{
			name: "zero_due_dates_are_removed",
			build: func() scheduleevent.Filter {
				return scheduleevent.BuildScheduleEventFilter().
					Matching().
					AllPredicatesOf(scheduleevent.DueOnOrAfter(time.Time{}), scheduleevent.DueOnOrBefore(time.Time{})).
					Finalize()
			},
			expected: []scheduleevent.FilterPredicate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := tt.build()

			assert.Len(t, filter.Items(), 1)
			assert.ElementsMatch(t, tt.expected, filter.Items()[0].Predicates())
			if len(tt.expected) > 0 {
				assert.Equal(t, tt.expected, filter.Items()[0].Predicates())
			}
		})
	}
}

func Test_FilterBuilder_EdgeCases(t *testing.T) {
	t.Run("an_open_due_range_matches_any_event", func(t *testing.T) {
		filter := scheduleevent.BuildScheduleEventFilter().
			Matching().
			DueBetween(time.Time{}, time.Time{}).
			Finalize()

		assert.True(t, filter.MatchesAnyScheduleEvent())
	})

	t.Run("an_empty_item_among_others_matches_any_event", func(t *testing.T) {
		filter := scheduleevent.BuildScheduleEventFilter().
			Matching().
			WithID(1).
			OrMatching().
			DueBetween(time.Time{}, time.Time{}).
			Finalize()

		assert.True(t, filter.MatchesAnyScheduleEvent())
	})

	t.Run("builders_do_not_share_state", func(t *testing.T) {
		base := scheduleevent.BuildScheduleEventFilter().Matching().WithID(1).OrMatching()

		first := base.WithID(2).Finalize()
		second := base.Completed(true).Finalize()

		assert.Equal(t, []scheduleevent.FilterPredicate{scheduleevent.IDEquals(2)}, first.Items()[1].Predicates())
		assert.Equal(t, []scheduleevent.FilterPredicate{scheduleevent.CompletedEquals(true)}, second.Items()[1].Predicates())
	})
}

func Test_Filter_Matches(t *testing.T) {
	now := time.Date(2025, 5, 5, 12, 0, 0, 0, time.UTC)
	event := scheduleevent.ScheduleEvent{ID: 5, Description: "Pay the rent", IsCompleted: false, DueDate: now.AddDate(0, 0, 5)}

	tests := []struct {
		name     string
		filter   scheduleevent.Filter
		expected bool
	}{
		{
			name:     "any",
			filter:   scheduleevent.BuildScheduleEventFilter().MatchingAnyScheduleEvent(),
			expected: true,
		},
		{
			name:     "same_id",
			filter:   scheduleevent.BuildScheduleEventFilter().Matching().WithID(5).Finalize(),
			expected: true,
		},
		{
			name:     "other_id",
			filter:   scheduleevent.BuildScheduleEventFilter().Matching().WithID(6).Finalize(),
			expected: false,
		},
		{
			name:     "due_on_the_upper_bound",
			filter:   scheduleevent.BuildScheduleEventFilter().Matching().DueBetween(now, now.AddDate(0, 0, 5)).Finalize(),
			expected: true,
		},
		{
			name:     "due_on_the_lower_bound",
			filter:   scheduleevent.BuildScheduleEventFilter().Matching().DueBetween(now.AddDate(0, 0, 5), time.Time{}).Finalize(),
			expected: true,
		},
		{
			name:     "due_one_nanosecond_too_late",
			filter:   scheduleevent.BuildScheduleEventFilter().Matching().DueBetween(now, now.AddDate(0, 0, 5).Add(-time.Nanosecond)).Finalize(),
			expected: false,
		},
		{
			name:     "due_but_not_completed",
			filter:   scheduleevent.BuildScheduleEventFilter().Matching().DueBetween(now, now.AddDate(0, 0, 5)).AndCompleted(true).Finalize(),
			expected: false,
		},
		{
			name: "second_item_matches",
			filter: scheduleevent.BuildScheduleEventFilter().
				Matching().
				Completed(true).
				OrMatching().
				WithID(5).
				Finalize(),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Matches(event))
		})
	}
}

func Test_FilterPredicateKind_String(t *testing.T) {
	assert.Equal(t, "id_equals", scheduleevent.PredicateIDEquals.String())
	assert.Equal(t, "due_on_or_after", scheduleevent.PredicateDueOnOrAfter.String())
	assert.Equal(t, "due_on_or_before", scheduleevent.PredicateDueOnOrBefore.String())
	assert.Equal(t, "completed_equals", scheduleevent.PredicateCompletedEquals.String())
	assert.Equal(t, "unknown", scheduleevent.FilterPredicateKind(0).String())
}
