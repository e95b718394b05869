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

// ItemRepo defines the persistence operations for itinerary items.
// Writes are split by concern so a cascade only touches schedule columns and an
// annotation only touches transport columns.
type ItemRepo interface {
	// Create inserts an item at item.Position and returns the persisted record.
	// The position must be free; see SavePositions.
	Create(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error)

	// GetByID retrieves a single item.
	// Returns domain.ErrNotFound if no item with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.ItineraryItem, error)

	// ListByItinerary returns every item of an itinerary ordered by position.
	ListByItinerary(ctx context.Context, itineraryID uuid.UUID) ([]domain.ItineraryItem, error)

	// Update overwrites the user-editable fields of an item (title, description,
	// notes, duration, place, start/end time, transport mode and pin).
	// Returns domain.ErrNotFound if the item does not exist.
	Update(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error)

	// UpdateTransport persists the transport-from-previous fields and distance status.
	UpdateTransport(ctx context.Context, item domain.ItineraryItem) error

	// UpdateSchedule persists the start and end times of an item.
	UpdateSchedule(ctx context.Context, id uuid.UUID, start, end *domain.TimeOfDay) error

	// SavePositions rewrites position, starting-point flag and distance status
	// of the given items in one statement. The item at position 0 also has its
	// transport fields cleared. Returns domain.ErrNotFound if any item does not
	// belong to the itinerary.
	SavePositions(ctx context.Context, itineraryID uuid.UUID, items []domain.ItineraryItem) error

	// Delete removes an item by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgItemRepo is the Postgres implementation of ItemRepo.
type pgItemRepo struct {
	db db
}

// NewItemRepo constructs an ItemRepo backed by the provided db connection.
func NewItemRepo(db db) ItemRepo {
	return &pgItemRepo{db: db}
}

const itemColumns = `
	id, itinerary_id, position, place_id, title, description, notes, duration_minutes,
	start_time, end_time, is_starting_point, transport_mode, mode_pinned,
	distance_meters, distance_text, travel_time_seconds, travel_time_text,
	distance_status, distance_error, created_at, updated_at`

func (r *pgItemRepo) Create(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	const q = `
		INSERT INTO itinerary_items (
			itinerary_id, position, place_id, title, description, notes, duration_minutes,
			start_time, end_time, is_starting_point, transport_mode, mode_pinned,
			distance_meters, distance_text, travel_time_seconds, travel_time_text,
			distance_status, distance_error)
		VALUES (
			@itinerary_id, @position, @place_id, @title, @description, @notes, @duration_minutes,
			@start_time, @end_time, @is_starting_point, @transport_mode, @mode_pinned,
			@distance_meters, @distance_text, @travel_time_seconds, @travel_time_text,
			@distance_status, @distance_error)
		RETURNING ` + itemColumns

	args := pgx.NamedArgs{
		"itinerary_id":      item.ItineraryID,
		"position":          item.Position,
		"place_id":          item.PlaceID,
		"title":             item.Title,
		"description":       item.Description,
		"notes":             item.Notes,
		"duration_minutes":  item.DurationMinutes,
		"start_time":        toPgTime(item.StartTime),
		"end_time":          toPgTime(item.EndTime),
		"is_starting_point": item.IsStartingPoint,
	}
	for k, v := range transportArgs(item) {
		args[k] = v
	}

	result, err := scanItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItemRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgItemRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ItineraryItem, error) {
	const q = `SELECT ` + itemColumns + ` FROM itinerary_items WHERE id = @id`

	result, err := scanItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItemRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgItemRepo) ListByItinerary(ctx context.Context, itineraryID uuid.UUID) ([]domain.ItineraryItem, error) {
	const q = `
		SELECT ` + itemColumns + `
		FROM itinerary_items
		WHERE itinerary_id = @itinerary_id
		ORDER BY position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"itinerary_id": itineraryID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByItinerary: %w", err)
	}
	defer rows.Close()

	items := []domain.ItineraryItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItemRepo.ListByItinerary: scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByItinerary: rows: %w", err)
	}
	return items, nil
}

func (r *pgItemRepo) Update(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	const q = `
		UPDATE itinerary_items
		SET title            = @title,
		    description      = @description,
		    notes            = @notes,
		    duration_minutes = @duration_minutes,
		    place_id         = @place_id,
		    start_time       = @start_time,
		    end_time         = @end_time,
		    transport_mode   = @transport_mode,
		    mode_pinned      = @mode_pinned,
		    updated_at       = now()
		WHERE id = @id
		RETURNING ` + itemColumns

	args := pgx.NamedArgs{
		"id":               item.ID,
		"title":            item.Title,
		"description":      item.Description,
		"notes":            item.Notes,
		"duration_minutes": item.DurationMinutes,
		"place_id":         item.PlaceID,
		"start_time":       toPgTime(item.StartTime),
		"end_time":         toPgTime(item.EndTime),
		"transport_mode":   string(item.TransportMode),
		"mode_pinned":      item.ModePinned,
	}

	result, err := scanItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItemRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgItemRepo) UpdateTransport(ctx context.Context, item domain.ItineraryItem) error {
	const q = `
		UPDATE itinerary_items
		SET transport_mode      = @transport_mode,
		    mode_pinned         = @mode_pinned,
		    distance_meters     = @distance_meters,
		    distance_text       = @distance_text,
		    travel_time_seconds = @travel_time_seconds,
		    travel_time_text    = @travel_time_text,
		    distance_status     = @distance_status,
		    distance_error      = @distance_error,
		    updated_at          = now()
		WHERE id = @id`

	args := transportArgs(item)
	args["id"] = item.ID

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.ItemRepo.UpdateTransport: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItemRepo.UpdateTransport: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgItemRepo) UpdateSchedule(ctx context.Context, id uuid.UUID, start, end *domain.TimeOfDay) error {
	const q = `
		UPDATE itinerary_items
		SET start_time = @start_time,
		    end_time   = @end_time,
		    updated_at = now()
		WHERE id = @id`

	args := pgx.NamedArgs{"id": id, "start_time": toPgTime(start), "end_time": toPgTime(end)}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.ItemRepo.UpdateSchedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItemRepo.UpdateSchedule: %w", domain.ErrNotFound)
	}
	return nil
}

// SavePositions relies on the DEFERRABLE unique constraint on
// (itinerary_id, position): uniqueness is checked once the statement completes,
// so positions can be swapped freely.
func (r *pgItemRepo) SavePositions(ctx context.Context, itineraryID uuid.UUID, items []domain.ItineraryItem) error {
	if len(items) == 0 {
		return nil
	}

	const q = `
		UPDATE itinerary_items AS i
		SET position            = v.position,
		    is_starting_point   = v.position = 0,
		    distance_status     = v.status,
		    transport_mode      = CASE WHEN v.position = 0 THEN '' ELSE i.transport_mode END,
		    mode_pinned         = CASE WHEN v.position = 0 THEN false ELSE i.mode_pinned END,
		    distance_meters     = CASE WHEN v.position = 0 THEN NULL ELSE i.distance_meters END,
		    distance_text       = CASE WHEN v.position = 0 THEN '' ELSE i.distance_text END,
		    travel_time_seconds = CASE WHEN v.position = 0 THEN NULL ELSE i.travel_time_seconds END,
		    travel_time_text    = CASE WHEN v.position = 0 THEN '' ELSE i.travel_time_text END,
		    distance_error      = CASE WHEN v.position = 0 THEN '' ELSE i.distance_error END,
		    updated_at          = now()
		FROM unnest(@ids::uuid[], @positions::int4[], @statuses::text[]) AS v(id, position, status)
		WHERE i.id = v.id
		  AND i.itinerary_id = @itinerary_id`

	ids := make([]uuid.UUID, len(items))
	positions := make([]int32, len(items))
	statuses := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
		positions[i] = int32(it.Position)
		statuses[i] = string(it.DistanceStatus)
	}

	args := pgx.NamedArgs{
		"itinerary_id": itineraryID,
		"ids":          ids,
		"positions":    positions,
		"statuses":     statuses,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.ItemRepo.SavePositions: %w", err)
	}
	if tag.RowsAffected() != int64(len(items)) {
		return fmt.Errorf("repo.ItemRepo.SavePositions: updated %d of %d items: %w",
			tag.RowsAffected(), len(items), domain.ErrNotFound)
	}
	return nil
}

func (r *pgItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM itinerary_items WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ItemRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItemRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// transportArgs returns the named arguments shared by Create and UpdateTransport.
func transportArgs(item domain.ItineraryItem) pgx.NamedArgs {
	return pgx.NamedArgs{
		"transport_mode":      string(item.TransportMode),
		"mode_pinned":         item.ModePinned,
		"distance_meters":     item.DistanceMeters,
		"distance_text":       item.DistanceText,
		"travel_time_seconds": item.TravelTimeSeconds,
		"travel_time_text":    item.TravelTimeText,
		"distance_status":     string(item.DistanceStatus),
		"distance_error":      item.DistanceError,
	}
}

// scanItem maps a single database row into a domain.ItineraryItem,
// converting nullable columns to pointers.
func scanItem(s scanner) (domain.ItineraryItem, error) {
	var (
		item           domain.ItineraryItem
		id, itinID     pgtype.UUID
		placeID        pgtype.UUID
		start, end     pgtype.Time
		mode, status   string
		meters, travel pgtype.Int4
	)

	err := s.Scan(
		&id, &itinID, &item.Position, &placeID, &item.Title, &item.Description, &item.Notes,
		&item.DurationMinutes, &start, &end, &item.IsStartingPoint, &mode, &item.ModePinned,
		&meters, &item.DistanceText, &travel, &item.TravelTimeText,
		&status, &item.DistanceError, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ItineraryItem{}, domain.ErrNotFound
		}
		return domain.ItineraryItem{}, err
	}

	item.ID = uuid.UUID(id.Bytes)
	item.ItineraryID = uuid.UUID(itinID.Bytes)
	if placeID.Valid {
		p := uuid.UUID(placeID.Bytes)
		item.PlaceID = &p
	}
	item.StartTime = fromPgTime(start)
	item.EndTime = fromPgTime(end)
	item.TransportMode = domain.TransportMode(mode)
	item.DistanceStatus = domain.DistanceStatus(status)
	if meters.Valid {
		v := int(meters.Int32)
		item.DistanceMeters = &v
	}
	if travel.Valid {
		v := int(travel.Int32)
		item.TravelTimeSeconds = &v
	}
	return item, nil
}

const microsPerMinute = 60 * 1000 * 1000

func toPgTime(t *domain.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: int64(*t) * microsPerMinute, Valid: true}
}

func fromPgTime(t pgtype.Time) *domain.TimeOfDay {
	if !t.Valid {
		return nil
	}
	v := domain.TimeOfDay(t.Microseconds / microsPerMinute)
	return &v
}
