package httpendpoint

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent"
)

const (
	collectionPath = "/scheduleevent"

	maxBodyBytes = 1 << 20
)

// Handler serves the schedule event routes on top of a scheduleevent.Repository.
type Handler struct {
	repo           scheduleevent.Repository
	logger         *slog.Logger
	now            func() time.Time
	location       *time.Location
	allowedOrigins []string
}

// NewHandler creates a Handler, a nil logger discards all log output.
func NewHandler(repo scheduleevent.Repository, logger *slog.Logger, options ...Option) (*Handler, error) {
	if repo == nil {
		return nil, ErrNilRepository
	}

	if logger == nil {
		logger = slog.New(discardHandler{})
	}

	h := &Handler{
		repo:           repo,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
		location:       time.Local,
		allowedOrigins: []string{"*"},
	}

	for _, option := range options {
		option(h)
	}

	return h, nil
}

// ListScheduleEvents answers GET /scheduleevent/.
func (h *Handler) ListScheduleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.repo.FindAll(scheduleevent.WithEventualConsistency(r.Context()))
	if err != nil {
		h.respondWithStoreError(w, r, "list", err)
		return
	}

	h.respondWithJSON(w, r, http.StatusOK, toResponses(events))
}

// ListScheduleEventsDueWithinDays answers GET /scheduleevent/{days} with the events due in [now, now+days].
func (h *Handler) ListScheduleEventsDueWithinDays(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(mux.Vars(r)["days"])
	if err != nil || days < 0 {
		h.respondWithError(w, r, http.StatusBadRequest, ErrInvalidDays)
		return
	}

	from := h.now().UTC()
	until := dueWithinDays(from, days)

	filter := scheduleevent.BuildScheduleEventFilter().
		Matching().
		DueBetween(from, until).
		Finalize()

	events, err := h.repo.FindByCondition(scheduleevent.WithEventualConsistency(r.Context()), filter)
	if err != nil {
		h.respondWithStoreError(w, r, "list_due_within_days", err)
		return
	}

	h.respondWithJSON(w, r, http.StatusOK, toResponses(events))
}

// dueWithinDays returns from+days, clamped to scheduleevent.MaxDueDate so that huge windows neither overflow
// nor leave the range the stores can compare.
func dueWithinDays(from time.Time, days int) time.Time {
	if days > (scheduleevent.MaxDueDate.Year()-from.Year()+1)*366 {
		return scheduleevent.MaxDueDate
	}

	until := from.AddDate(0, 0, days)
	if until.After(scheduleevent.MaxDueDate) {
		return scheduleevent.MaxDueDate
	}

	return until
}

// CreateScheduleEvent answers POST /scheduleevent/, any id in the body is ignored.
func (h *Handler) CreateScheduleEvent(w http.ResponseWriter, r *http.Request) {
	request, err := h.decodeRequest(r)
	if err != nil {
		h.respondWithError(w, r, http.StatusBadRequest, err)
		return
	}

	event, err := request.toScheduleEvent(h.location)
	if err != nil {
		h.respondWithError(w, r, http.StatusBadRequest, err)
		return
	}

	if err = h.repo.Create(r.Context(), &event); err != nil {
		h.respondWithStoreError(w, r, "create", err)
		return
	}

	w.Header().Set("Location", collectionPath+"/"+strconv.FormatInt(event.ID, 10))
	h.respondWithJSON(w, r, http.StatusCreated, toResponse(event))
}

// UpdateScheduleEvent answers PUT /scheduleevent/ by overwriting the mutable fields of the event with the body's id.
func (h *Handler) UpdateScheduleEvent(w http.ResponseWriter, r *http.Request) {
	request, err := h.decodeRequest(r)
	if err != nil {
		h.respondWithError(w, r, http.StatusBadRequest, err)
		return
	}

	if request.ID == nil {
		h.respondWithError(w, r, http.StatusBadRequest, ErrMissingID)
		return
	}

	replacement, err := request.toScheduleEvent(h.location)
	if err != nil {
		h.respondWithError(w, r, http.StatusBadRequest, err)
		return
	}

	filter := scheduleevent.BuildScheduleEventFilter().Matching().WithID(*request.ID).Finalize()

	existing, err := h.repo.FindByCondition(scheduleevent.WithStrongConsistency(r.Context()), filter)
	if err != nil {
		h.respondWithStoreError(w, r, "update", err)
		return
	}

	if len(existing) == 0 {
		h.respondWithError(w, r, http.StatusNotFound, ErrNotFound)
		return
	}

	updated := existing[0].OverwriteWith(replacement)

	if err = h.repo.Update(r.Context(), &updated); err != nil {
		if errors.Is(err, scheduleevent.ErrScheduleEventNotFound) {
			h.respondWithError(w, r, http.StatusNotFound, ErrNotFound)
			return
		}

		h.respondWithStoreError(w, r, "update", err)

		return
	}

	h.respondWithJSON(w, r, http.StatusOK, toResponse(updated))
}

// DeleteScheduleEvent answers DELETE /scheduleevent/{id}.
func (h *Handler) DeleteScheduleEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.respondWithError(w, r, http.StatusBadRequest, ErrInvalidID)
		return
	}

	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.respondWithStoreError(w, r, "delete", err)
		return
	}

	if !deleted {
		h.respondWithError(w, r, http.StatusNotFound, ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Health answers GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) decodeRequest(r *http.Request) (scheduleEventRequest, error) {
	var request scheduleEventRequest

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return request, errors.Join(ErrMalformedBody, err)
	}

	if err = json.Unmarshal(body, &request); err != nil {
		return request, ErrMalformedBody
	}

	return request, nil
}

// discardHandler mirrors slog.DiscardHandler (Go 1.24+) for older toolchains.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
