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

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with DB-generated
	// id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListPaged returns one page of trips ordered by start_date descending,
	// plus the total number of trips.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, name, destination_city, destination_country, start_date, end_date, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (name, destination_city, destination_country, start_date, end_date)
		VALUES (@name, @destination_city, @destination_country, @start_date, @end_date)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"name":                trip.Name,
		"destination_city":    trip.DestinationCity,
		"destination_country": trip.DestinationCountry,
		"start_date":          trip.StartDate,
		"end_date":            trip.EndDate, // nil becomes NULL
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of trips, most recent first, and the total count.
// COUNT(*) OVER () rides along on every row so a single round trip suffices;
// an empty page falls back to a separate count.
func (r *pgTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const q = `
		SELECT ` + tripColumns + `, COUNT(*) OVER () AS total
		FROM trips
		ORDER BY start_date DESC, created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	var total int64
	for rows.Next() {
		t, err := scanTrip(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: rows: %w", err)
	}

	if len(trips) == 0 {
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trips`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
		}
	}
	return trips, total, nil
}

// scanTrip maps a single database row into a domain.Trip. Extra destinations
// are appended after the trip columns (e.g. a window count).
func scanTrip(s scanner, extra ...any) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
	)

	dest := append([]any{
		&id, &t.Name, &t.DestinationCity, &t.DestinationCountry,
		&startDate, &endDate, &t.CreatedAt, &t.UpdatedAt,
	}, extra...)

	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = startDate.Time
	if endDate.Valid {
		ed := endDate.Time
		t.EndDate = &ed
	}
	return t, nil
}
