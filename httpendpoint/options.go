package httpendpoint

import (
	"time"
)

// Option defines a functional option for configuring a Handler.
type Option func(*Handler)

// WithClock sets the clock the range query window is computed from.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithLocation sets the location for incoming due dates without an offset, time.Local by default.
func WithLocation(location *time.Location) Option {
	return func(h *Handler) {
		if location != nil {
			h.location = location
		}
	}
}

// WithCORSAllowedOrigins restricts the origins the CORS middleware accepts, any origin by default.
func WithCORSAllowedOrigins(origins []string) Option {
	return func(h *Handler) {
		if len(origins) > 0 {
			h.allowedOrigins = origins
		}
	}
}
