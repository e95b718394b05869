package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// PlaceService records the places itinerary items point at.
type PlaceService struct {
	repo repo.PlaceRepo
}

// NewPlaceService constructs a PlaceService backed by the provided PlaceRepo.
func NewPlaceService(r repo.PlaceRepo) *PlaceService {
	return &PlaceService{repo: r}
}

// Create validates and persists a place. The location is optional; places
// without one are skipped by distance annotation.
func (s *PlaceService) Create(ctx context.Context, place domain.Place) (domain.Place, error) {
	place.Name = strings.TrimSpace(place.Name)
	if place.Name == "" {
		return domain.Place{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if c := place.Location; c != nil {
		if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
			return domain.Place{}, fmt.Errorf("%w: location is out of range", domain.ErrValidation)
		}
	}
	result, err := s.repo.Create(ctx, place)
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single place.
func (s *PlaceService) GetByID(ctx context.Context, id uuid.UUID) (domain.Place, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.GetByID: %w", err)
	}
	return result, nil
}
