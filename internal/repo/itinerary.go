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

// ItineraryRepo defines the persistence operations for Itineraries (trip days).
// Items are not loaded here; see ItemRepo.ListByItinerary.
type ItineraryRepo interface {
	// Upsert returns the itinerary for (tripID, dayIndex), creating it with the
	// given date if it does not exist yet. Concurrent callers get the same row.
	Upsert(ctx context.Context, itin domain.Itinerary) (domain.Itinerary, error)

	// GetByID retrieves an itinerary by primary key.
	// Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error)

	// ListByTrip returns every itinerary of a trip ordered by day index.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error)

	// Lock takes a row lock on the itinerary for the rest of the current
	// transaction. Returns domain.ErrNotFound if it does not exist.
	Lock(ctx context.Context, id uuid.UUID) error
}

// pgItineraryRepo is the Postgres implementation of ItineraryRepo.
type pgItineraryRepo struct {
	db db
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db connection.
func NewItineraryRepo(db db) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

const itineraryColumns = `id, trip_id, day_index, date, created_at, updated_at`

// Upsert uses the DO UPDATE SET self-assignment so RETURNING also fires when
// the row already exists.
func (r *pgItineraryRepo) Upsert(ctx context.Context, itin domain.Itinerary) (domain.Itinerary, error) {
	const q = `
		INSERT INTO itineraries (trip_id, day_index, date)
		VALUES (@trip_id, @day_index, @date)
		ON CONFLICT (trip_id, day_index) DO UPDATE SET day_index = EXCLUDED.day_index
		RETURNING ` + itineraryColumns

	args := pgx.NamedArgs{
		"trip_id":   itin.TripID,
		"day_index": itin.DayIndex,
		"date":      pgtype.Date{Time: itin.Date, Valid: true},
	}

	result, err := scanItinerary(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgItineraryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error) {
	const q = `SELECT ` + itineraryColumns + ` FROM itineraries WHERE id = @id`

	result, err := scanItinerary(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgItineraryRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error) {
	const q = `
		SELECT ` + itineraryColumns + `
		FROM itineraries
		WHERE trip_id = @trip_id
		ORDER BY day_index`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	out := []domain.Itinerary{}
	for rows.Next() {
		itin, err := scanItinerary(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: scan: %w", err)
		}
		out = append(out, itin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: rows: %w", err)
	}
	return out, nil
}

func (r *pgItineraryRepo) Lock(ctx context.Context, id uuid.UUID) error {
	const q = `SELECT id FROM itineraries WHERE id = @id FOR UPDATE`

	var locked pgtype.UUID
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("repo.ItineraryRepo.Lock: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("repo.ItineraryRepo.Lock: %w", err)
	}
	return nil
}

func scanItinerary(s scanner) (domain.Itinerary, error) {
	var (
		itin   domain.Itinerary
		id     pgtype.UUID
		tripID pgtype.UUID
		date   pgtype.Date
	)
	if err := s.Scan(&id, &tripID, &itin.DayIndex, &date, &itin.CreatedAt, &itin.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Itinerary{}, domain.ErrNotFound
		}
		return domain.Itinerary{}, err
	}
	itin.ID = uuid.UUID(id.Bytes)
	itin.TripID = uuid.UUID(tripID.Bytes)
	itin.Date = date.Time
	return itin, nil
}
