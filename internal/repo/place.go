package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// PlaceRepo defines the persistence operations for Places.
// Places are referenced by itinerary items; the scheduling engine only reads
// their coordinates.
type PlaceRepo interface {
	// Create inserts a place and returns the persisted record.
	Create(ctx context.Context, place domain.Place) (domain.Place, error)

	// GetByID retrieves a single place.
	// Returns domain.ErrNotFound if no place with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Place, error)

	// GetCoordinates returns the stored location of a place, or nil when the
	// place exists but has not been geocoded.
	// Returns domain.ErrNotFound if no place with that ID exists.
	GetCoordinates(ctx context.Context, id uuid.UUID) (*domain.Coordinates, error)
}

// pgPlaceRepo is the Postgres implementation of PlaceRepo.
type pgPlaceRepo struct {
	db db
}

// NewPlaceRepo constructs a PlaceRepo backed by the provided db connection.
func NewPlaceRepo(db db) PlaceRepo {
	return &pgPlaceRepo{db: db}
}

func (r *pgPlaceRepo) Create(ctx context.Context, place domain.Place) (domain.Place, error) {
	const q = `
		INSERT INTO places (name, address, lat, lng)
		VALUES (@name, @address, @lat, @lng)
		RETURNING id, name, address, lat, lng, created_at`

	args := pgx.NamedArgs{"name": place.Name, "address": place.Address, "lat": nil, "lng": nil}
	if place.Location != nil {
		args["lat"] = place.Location.Lat
		args["lng"] = place.Location.Lng
	}

	result, err := scanPlace(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPlaceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Place, error) {
	const q = `SELECT id, name, address, lat, lng, created_at FROM places WHERE id = @id`

	result, err := scanPlace(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPlaceRepo) GetCoordinates(ctx context.Context, id uuid.UUID) (*domain.Coordinates, error) {
	const q = `SELECT lat, lng FROM places WHERE id = @id`

	var lat, lng pgtype.Float8
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&lat, &lng)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repo.PlaceRepo.GetCoordinates: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.PlaceRepo.GetCoordinates: %w", err)
	}
	if !lat.Valid || !lng.Valid {
		return nil, nil
	}
	return &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}, nil
}

func scanPlace(s scanner) (domain.Place, error) {
	var (
		p        domain.Place
		id       pgtype.UUID
		lat, lng pgtype.Float8
	)
	if err := s.Scan(&id, &p.Name, &p.Address, &lat, &lng, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Place{}, domain.ErrNotFound
		}
		return domain.Place{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	if lat.Valid && lng.Valid {
		p.Location = &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	return p, nil
}
