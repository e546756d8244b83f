package httpendpoint

import (
	"errors"
)

var (
	ErrNilRepository = errors.New("repository must not be nil")

	ErrInvalidDays        = errors.New("days must be a non-negative integer")
	ErrInvalidID          = errors.New("id must be an integer")
	ErrMissingID          = errors.New("id is required")
	ErrMalformedBody      = errors.New("malformed request body")
	ErrMissingDueDate     = errors.New("dueDate is required")
	ErrInvalidDueDate     = errors.New("dueDate has an unsupported format")
	ErrDueDateOutOfRange  = errors.New("dueDate must lie within the years 0000 and 9999 in UTC")
	ErrNotFound           = errors.New("schedule event not found")
	ErrInternal           = errors.New("internal server error")
	ErrRouteNotFound      = errors.New("route not found")
	ErrMethodNotSupported = errors.New("method not allowed")
)
