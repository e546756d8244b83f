// Package scheduleevent provides the core abstractions and types for storing schedule events.
//
// This package defines the ScheduleEvent entity, the Repository contract implemented by the
// DB type-specific engines, the Filter used to query events, and the common error definitions.
//
// Filters are data, not closures, so that engines can compile them into the native query
// language of the store instead of fetching all rows and filtering in-process.
// A filter supports:
//   - ID equality
//   - due date ranges (inclusive, open-ended when a bound is zero)
//   - the completion flag
//
// Common usage pattern:
//
//	// Find all events that are due within the next seven days and are not completed yet
//	now := time.Now()
//	filter := BuildScheduleEventFilter().
//		Matching().
//		DueBetween(now, now.AddDate(0, 0, 7)).
//		AndCompleted(false).
//		Finalize()
//
//	events, err := store.FindByCondition(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	newEvent := scheduleevent.BuildScheduleEvent("Call the doctor", false, now.Add(time.Hour))
//	err = store.Create(ctx, &newEvent) // newEvent.ID now holds the id assigned by the store
package scheduleevent
