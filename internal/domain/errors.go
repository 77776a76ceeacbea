package domain

import "errors"

// ErrValidation is returned when request input fails validation
// (e.g. non-numeric or out-of-range latitude).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrUpstreamUnavailable is returned when the geocoding or forecast service
// answers with a non-2xx status, cannot be reached, or is short-circuited by
// the circuit breaker. Handlers should map this to HTTP 502.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ErrSearchFailed is the single failure condition of a resort search.
// It always wraps the underlying cause (usually ErrUpstreamUnavailable).
var ErrSearchFailed = errors.New("search failed")

// ErrDataShape is returned when an upstream payload does not have the shape
// the forecast logic relies on: series too short, missing fields, null values
// at the selected hour, or unit labels that differ from the requested units.
var ErrDataShape = errors.New("unexpected data shape")

// ErrCacheDisabled is returned by cache lookups when no database is configured.
// Handlers should map this to HTTP 503.
var ErrCacheDisabled = errors.New("resort cache disabled")
