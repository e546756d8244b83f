package httpendpoint

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Router returns the mux.Router with all routes and the request id, access log and recovery middleware.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	for _, path := range []string{collectionPath, collectionPath + "/"} {
		r.HandleFunc(path, h.ListScheduleEvents).Methods(http.MethodGet)
		r.HandleFunc(path, h.CreateScheduleEvent).Methods(http.MethodPost)
		r.HandleFunc(path, h.UpdateScheduleEvent).Methods(http.MethodPut)
	}

	r.HandleFunc(collectionPath+"/{days}", h.ListScheduleEventsDueWithinDays).Methods(http.MethodGet)
	r.HandleFunc(collectionPath+"/{id}", h.DeleteScheduleEvent).Methods(http.MethodDelete)

	// mux runs the Use middleware for matched routes only, so the fallback handlers are wrapped explicitly.
	r.NotFoundHandler = h.withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h.respondWithError(w, req, http.StatusNotFound, ErrRouteNotFound)
	}))
	r.MethodNotAllowedHandler = h.withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h.respondWithError(w, req, http.StatusMethodNotAllowed, ErrMethodNotSupported)
	}))

	r.Use(h.middleware()...)

	return r
}

// middleware is the chain for every request, outermost first.
func (h *Handler) middleware() []mux.MiddlewareFunc {
	return []mux.MiddlewareFunc{requestIDMiddleware, h.accessLogMiddleware, h.recoveryMiddleware}
}

func (h *Handler) withMiddleware(handler http.Handler) http.Handler {
	chain := h.middleware()
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}

	return handler
}

// HTTPHandler wraps the Router with the CORS policy, this is what the server serves.
func (h *Handler) HTTPHandler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: h.allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Location", requestIDHeader},
	}).Handler(h.Router())
}
