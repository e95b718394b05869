package service

import (
	"errors"
	"fmt"

	"github.com/pkordes/trip-planner/internal/domain"
)

// narrow replaces a generic domain.ErrNotFound with target so callers can tell
// which entity was missing. Errors that already name an entity pass through.
func narrow(err, target error) error {
	if err == nil || !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	for _, specific := range []error{domain.ErrItemNotFound, domain.ErrItineraryNotFound, domain.ErrTripNotFound} {
		if errors.Is(err, specific) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", target, err)
}

// classify prefixes err with op and marks store failures with
// domain.ErrPersistence. Not-found and validation errors keep their meaning.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}
