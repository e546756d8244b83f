package scheduleevent

import (
	"context"
)

// Repository is the contract the DB type-specific engines implement.
type Repository interface {
	// FindAll returns every stored ScheduleEvent ordered by ID.
	FindAll(ctx context.Context) (ScheduleEvents, error)

	// FindByCondition returns the ScheduleEvents matching the Filter, the Filter is evaluated by the store.
	FindByCondition(ctx context.Context, filter Filter) (ScheduleEvents, error)

	// Create inserts the ScheduleEvent and sets the ID assigned by the store on it.
	Create(ctx context.Context, event *ScheduleEvent) error

	// Update overwrites the mutable fields of the stored ScheduleEvent with the same ID.
	// It returns ErrScheduleEventNotFound if no such ScheduleEvent exists.
	// On success the passed-in ScheduleEvent carries the due date the way it reads back from the store.
	Update(ctx context.Context, event *ScheduleEvent) error

	// Delete removes the ScheduleEvent with the given ID and reports whether it existed.
	Delete(ctx context.Context, id IDInt64) (bool, error)
}
