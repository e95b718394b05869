package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// LocationResolver returns the distance and travel time between two points.
// Implementations live in internal/routing; failures wrap
// domain.ErrDistanceUnavailable.
type LocationResolver interface {
	GetDistance(ctx context.Context, from, to domain.Coordinates, mode domain.TransportMode) (domain.RouteEstimate, error)
}

// annotator fills the transport-from-previous fields of one item.
// It is bound to the store of the current unit of work.
type annotator struct {
	store    repo.Store
	resolver LocationResolver
	logger   *slog.Logger
	dense    bool
}

// annotate resolves the leg prev -> cur and persists the outcome on cur.
// Resolver failures are logged and recorded as DistanceFailed; only store
// errors are returned.
func (a annotator) annotate(ctx context.Context, prev, cur *domain.ItineraryItem) error {
	if cur.IsStartingPoint {
		return nil
	}

	from, err := a.coordinates(ctx, prev.PlaceID)
	if err != nil {
		return err
	}
	to, err := a.coordinates(ctx, cur.PlaceID)
	if err != nil {
		return err
	}
	if from == nil || to == nil {
		cur.DistanceStatus = domain.DistanceSkipped
		cur.DistanceError = ""
		return a.store.Items.UpdateTransport(ctx, *cur)
	}

	mode := cur.PinnedMode()
	var (
		est      domain.RouteEstimate
		resolved bool
	)
	if mode == "" {
		driving, err := a.resolver.GetDistance(ctx, *from, *to, domain.TransportDriving)
		if err != nil {
			return a.fail(ctx, cur, domain.TransportDriving, err)
		}
		mode = ClassifyTransport(driving.DurationSeconds, a.dense)
		if mode == domain.TransportDriving {
			est, resolved = driving, true
		}
	}
	if !resolved {
		est, err = a.resolver.GetDistance(ctx, *from, *to, mode)
		if err != nil {
			return a.fail(ctx, cur, mode, err)
		}
	}

	cur.ApplyRoute(mode, est)
	return a.store.Items.UpdateTransport(ctx, *cur)
}

// fail records a resolver error on cur and leaves its distance fields untouched.
func (a annotator) fail(ctx context.Context, cur *domain.ItineraryItem, mode domain.TransportMode, cause error) error {
	a.logger.Warn("distance annotation failed",
		"item_id", cur.ID,
		"mode", mode,
		"error", cause,
	)
	cur.DistanceStatus = domain.DistanceFailed
	cur.DistanceError = cause.Error()
	return a.store.Items.UpdateTransport(ctx, *cur)
}

// coordinates returns nil for items without a place and for places that have
// no location or no longer exist.
func (a annotator) coordinates(ctx context.Context, placeID *uuid.UUID) (*domain.Coordinates, error) {
	if placeID == nil {
		return nil, nil
	}
	c, err := a.store.Places.GetCoordinates(ctx, *placeID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return c, err
}
