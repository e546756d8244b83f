package httpendpoint

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const contentTypeJSON = "application/json; charset=utf-8"

func (h *Handler) respondWithJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "encoding the response failed", "error", err.Error(), "request_id", requestIDFrom(r.Context()))
		http.Error(w, ErrInternal.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (h *Handler) respondWithError(w http.ResponseWriter, r *http.Request, status int, err error) {
	h.respondWithJSON(w, r, status, errorResponse{Error: err.Error()})
}

// respondWithStoreError hides the cause from the client, the engine has already logged it.
func (h *Handler) respondWithStoreError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	h.logger.ErrorContext(
		r.Context(),
		"schedule event request failed",
		"operation", operation,
		"error", err.Error(),
		"request_id", requestIDFrom(r.Context()),
	)

	h.respondWithError(w, r, http.StatusInternalServerError, ErrInternal)
}
