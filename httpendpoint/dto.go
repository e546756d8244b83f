package httpendpoint

import (
	"fmt"
	"strings"
	"time"

	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent"
)

// acceptedDueDateLayouts are tried in order; the layouts without offset are interpreted in the handler's location.
var acceptedDueDateLayouts = []struct {
	layout    string
	hasOffset bool
}{
	{layout: time.RFC3339Nano, hasOffset: true},
	{layout: "2006-01-02T15:04:05.999999999", hasOffset: false},
	{layout: time.DateOnly, hasOffset: false},
}

// scheduleEventRequest is the body of POST and PUT.
type scheduleEventRequest struct {
	ID          *scheduleevent.IDInt64 `json:"id"`
	Description string                 `json:"description"`
	IsCompleted bool                   `json:"isCompleted"`
	DueDate     string                 `json:"dueDate"`
}

// scheduleEventResponse is how a ScheduleEvent is written to the wire.
type scheduleEventResponse struct {
	ID          scheduleevent.IDInt64 `json:"id"`
	Description string                `json:"description"`
	IsCompleted bool                  `json:"isCompleted"`
	DueDate     string                `json:"dueDate"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (r scheduleEventRequest) toScheduleEvent(location *time.Location) (scheduleevent.ScheduleEvent, error) {
	dueDate, err := parseDueDate(r.DueDate, location)
	if err != nil {
		return scheduleevent.ScheduleEvent{}, err
	}

	return scheduleevent.BuildScheduleEvent(r.Description, r.IsCompleted, dueDate), nil
}

func parseDueDate(raw string, location *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrMissingDueDate
	}

	for _, candidate := range acceptedDueDateLayouts {
		var parsed time.Time
		var err error

		if candidate.hasOffset {
			parsed, err = time.Parse(candidate.layout, raw)
		} else {
			parsed, err = time.ParseInLocation(candidate.layout, raw, location)
		}

		if err != nil {
			continue
		}

		if !scheduleevent.DueDateIsStorable(parsed) {
			return time.Time{}, fmt.Errorf("%w: %q", ErrDueDateOutOfRange, raw)
		}

		return parsed.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, raw)
}

func toResponse(event scheduleevent.ScheduleEvent) scheduleEventResponse {
	return scheduleEventResponse{
		ID:          event.ID,
		Description: event.Description,
		IsCompleted: event.IsCompleted,
		DueDate:     event.DueDate.UTC().Format(time.RFC3339Nano),
	}
}

func toResponses(events scheduleevent.ScheduleEvents) []scheduleEventResponse {
	responses := make([]scheduleEventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, toResponse(event))
	}

	return responses
}
