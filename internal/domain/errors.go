package domain

import "errors"

// ErrNotFound is returned when the requested resource does not exist, either
// in the local view registry or on the backend (HTTP 404).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. unknown sort key, missing invoice field).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned when the caller has no usable token or the
// backend rejected it (HTTP 401/403).
var ErrUnauthorized = errors.New("unauthorized")

// ErrBackend is returned when the backend could not be reached or answered
// with an unexpected non-2xx status.
// Handlers should map this to HTTP 502 Bad Gateway.
var ErrBackend = errors.New("backend error")
