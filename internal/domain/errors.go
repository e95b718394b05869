package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrItemNotFound and ErrItineraryNotFound narrow ErrNotFound to the entity
// that was looked up. Both satisfy errors.Is(err, ErrNotFound).
var (
	ErrItemNotFound      = fmt.Errorf("itinerary item %w", ErrNotFound)
	ErrItineraryNotFound = fmt.Errorf("itinerary %w", ErrNotFound)
	ErrTripNotFound      = fmt.Errorf("trip %w", ErrNotFound)
)

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing title, duration below one minute).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDistanceUnavailable is returned by a location resolver that could not
// produce a route (network failure, no route found, missing coordinates).
// The scheduling engine recovers from it locally; it never fails a mutation.
var ErrDistanceUnavailable = errors.New("distance unavailable")

// ErrPersistence wraps failures of the backing store. A mutation that returns
// it has been rolled back and may be retried as a whole.
var ErrPersistence = errors.New("persistence failure")
