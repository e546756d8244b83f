package scheduleevent

import (
	"context"
	"time"
)

// SampleScheduleEvents returns the sample events used to bootstrap an empty store, due relative to now.
func SampleScheduleEvents(now time.Time) ScheduleEvents {
	return ScheduleEvents{
		BuildScheduleEvent("Do the shopping", false, now.AddDate(0, 0, 1)),
		BuildScheduleEvent("Study for the exam", false, now.AddDate(0, 0, 5)),
		BuildScheduleEvent("Call the doctor", false, now.AddDate(0, 0, 13)),
	}
}

// SeedSampleEventsIfEmpty creates the SampleScheduleEvents if the store does not contain any event yet.
// It returns the number of created events.
func SeedSampleEventsIfEmpty(ctx context.Context, repo Repository, now time.Time) (int, error) {
	existing, err := repo.FindAll(WithStrongConsistency(ctx))
	if err != nil {
		return 0, err
	}

	if len(existing) > 0 {
		return 0, nil
	}

	created := 0
	for _, event := range SampleScheduleEvents(now) {
		if err := repo.Create(ctx, &event); err != nil {
			return created, err
		}

		created++
	}

	return created, nil
}
