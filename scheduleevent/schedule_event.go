package scheduleevent

import (
	"time"
)

// MinDueDate and MaxDueDate bound the due dates every store can represent and compare correctly.
var (
	MinDueDate = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxDueDate = time.Date(9999, time.December, 31, 23, 59, 59, 999999999, time.UTC)
)

// ScheduleEvents is an alias type for a slice of ScheduleEvent.
type ScheduleEvents = []ScheduleEvent

// ScheduleEvent is the single persisted entity: a description, a completion flag, and a due date.
//
// ID is assigned by the store on creation and must never change afterward.
type ScheduleEvent struct {
	ID          IDInt64   `json:"id"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"isCompleted"`
	DueDate     time.Time `json:"dueDate"`
}

// BuildScheduleEvent is a factory method for a ScheduleEvent that was not stored yet.
func BuildScheduleEvent(description string, isCompleted bool, dueDate time.Time) ScheduleEvent {
	return ScheduleEvent{
		Description: description,
		IsCompleted: isCompleted,
		DueDate:     dueDate,
	}
}

// OverwriteWith copies all mutable fields from the replacement onto the event, keeping its ID.
//
// Updates are wholesale replacements, not patches, so zero values in the replacement are copied as well.
func (e ScheduleEvent) OverwriteWith(replacement ScheduleEvent) ScheduleEvent {
	e.Description = replacement.Description
	e.IsCompleted = replacement.IsCompleted
	e.DueDate = replacement.DueDate

	return e
}

// DueDateIsStorable reports whether the due date lies within [MinDueDate, MaxDueDate].
func DueDateIsStorable(dueDate time.Time) bool {
	return !dueDate.Before(MinDueDate) && !dueDate.After(MaxDueDate)
}

// IsStored reports whether the store has already assigned an ID.
func (e ScheduleEvent) IsStored() bool {
	return e.ID > 0
}
