package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. no source selected, unknown selection kind).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrParse is returned when a location document is not well-formed markup.
// The wrapped message carries the decoder's diagnostic.
var ErrParse = errors.New("parse error")

// ErrFetch is returned when the location document cannot be downloaded.
// LocationService recovers from it by loading the bundled sample document.
var ErrFetch = errors.New("fetch error")

// ErrPersistence is returned by the key-value store when a read or write fails.
// The route history logs and swallows it; callers never see it over HTTP.
var ErrPersistence = errors.New("persistence error")

// ErrRouteRequest is returned when the outbound route request fails.
// Handlers should map this to HTTP 502 Bad Gateway.
var ErrRouteRequest = errors.New("route request failed")
