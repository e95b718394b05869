package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

const maxDurationMinutes = 24 * 60

// ItineraryService is the scheduling engine. Every mutation runs inside one
// transaction that holds the itinerary's row lock, so its position changes,
// distance annotations and time cascade commit together or not at all.
type ItineraryService struct {
	store    repo.Store
	tx       repo.Transactor
	resolver LocationResolver
	logger   *slog.Logger
	dayStart domain.TimeOfDay
}

// Option configures an ItineraryService.
type Option func(*ItineraryService)

// WithDayStart overrides the 09:00 anchor of the first item of a day.
func WithDayStart(t domain.TimeOfDay) Option {
	return func(s *ItineraryService) { s.dayStart = t }
}

// NewItineraryService constructs the engine. store serves reads outside a
// lock; tx provides the locked unit of work for mutations.
func NewItineraryService(store repo.Store, tx repo.Transactor, resolver LocationResolver, logger *slog.Logger, opts ...Option) *ItineraryService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ItineraryService{
		store:    store,
		tx:       tx,
		resolver: resolver,
		logger:   logger,
		dayStart: DefaultDayStart,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewItem is the input of InsertItem. A non-empty TransportMode pins the mode
// of the leg into the new item.
type NewItem struct {
	Title           string
	Description     string
	Notes           string
	DurationMinutes int // zero means domain.DefaultDurationMinutes
	PlaceID         *uuid.UUID
	TransportMode   domain.TransportMode
}

// ItemPatch lists the fields UpdateItem may change; nil fields are kept.
// A PlaceID of uuid.Nil detaches the place. A TransportMode of "" returns the
// leg to inferred mode selection.
type ItemPatch struct {
	Title           *string
	Description     *string
	Notes           *string
	DurationMinutes *int
	StartTime       *domain.TimeOfDay
	PlaceID         *uuid.UUID
	TransportMode   *domain.TransportMode
}

// unit is the state of one locked mutation.
type unit struct {
	store repo.Store
	itin  domain.Itinerary
	ann   annotator
}

// withItinerary locks itineraryID, loads it with its items and runs fn.
func (s *ItineraryService) withItinerary(ctx context.Context, itineraryID uuid.UUID, fn func(ctx context.Context, u *unit) error) error {
	err := s.tx.LockItinerary(ctx, itineraryID, func(ctx context.Context, st repo.Store) error {
		itin, err := loadItinerary(ctx, st, itineraryID)
		if err != nil {
			return err
		}
		trip, err := st.Trips.GetByID(ctx, itin.TripID)
		if err != nil {
			return narrow(err, domain.ErrTripNotFound)
		}
		u := &unit{
			store: st,
			itin:  itin,
			ann: annotator{
				store:    st,
				resolver: s.resolver,
				logger:   s.logger,
				dense:    IsDenseDestination(trip.DestinationCity, trip.DestinationCountry),
			},
		}
		// Not-found errors inside the unit come from item writes.
		return narrow(fn(ctx, u), domain.ErrItemNotFound)
	})
	return narrow(err, domain.ErrItineraryNotFound)
}

// withItem resolves the itinerary of itemID and runs fn under its lock with
// the index of the item in u.itin.Items.
func (s *ItineraryService) withItem(ctx context.Context, itemID uuid.UUID, fn func(ctx context.Context, u *unit, i int) error) error {
	item, err := s.store.Items.GetByID(ctx, itemID)
	if err != nil {
		return narrow(err, domain.ErrItemNotFound)
	}
	return s.withItinerary(ctx, item.ItineraryID, func(ctx context.Context, u *unit) error {
		i := u.itin.IndexOf(itemID)
		if i < 0 {
			return domain.ErrItemNotFound
		}
		return fn(ctx, u, i)
	})
}

func loadItinerary(ctx context.Context, st repo.Store, id uuid.UUID) (domain.Itinerary, error) {
	itin, err := st.Itineraries.GetByID(ctx, id)
	if err != nil {
		return domain.Itinerary{}, narrow(err, domain.ErrItineraryNotFound)
	}
	itin.Items, err = st.Items.ListByItinerary(ctx, id)
	if err != nil {
		return domain.Itinerary{}, err
	}
	return itin, nil
}

// annotateFrom re-annotates the leg into every item at position >= from.
func (u *unit) annotateFrom(ctx context.Context, from int) error {
	for i := max(from, 1); i < len(u.itin.Items); i++ {
		if err := u.ann.annotate(ctx, &u.itin.Items[i-1], &u.itin.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// annotateAt re-annotates the leg into position i if it exists.
func (u *unit) annotateAt(ctx context.Context, i int) error {
	if i <= 0 || i >= len(u.itin.Items) {
		return nil
	}
	return u.ann.annotate(ctx, &u.itin.Items[i-1], &u.itin.Items[i])
}

func (s *ItineraryService) cascade(ctx context.Context, u *unit, from int) error {
	return cascade(ctx, u.store.Items, u.itin.Items, from, s.dayStart)
}

// cascadeKeepingStart is cascade with the first item anchored at its current
// start, so a start time the user set on it survives edits to the day.
func (s *ItineraryService) cascadeKeepingStart(ctx context.Context, u *unit, from int) error {
	anchor := s.dayStart
	if len(u.itin.Items) > 0 && u.itin.Items[0].StartTime != nil {
		anchor = *u.itin.Items[0].StartTime
	}
	return cascade(ctx, u.store.Items, u.itin.Items, from, anchor)
}

// ---- queries ----

// GetItinerary returns the itinerary with its items ordered by position.
// Returns domain.ErrItineraryNotFound if it does not exist.
func (s *ItineraryService) GetItinerary(ctx context.Context, itineraryID uuid.UUID) (domain.Itinerary, error) {
	itin, err := loadItinerary(ctx, s.store, itineraryID)
	if err != nil {
		return domain.Itinerary{}, classify("service.ItineraryService.GetItinerary", err)
	}
	return itin, nil
}

// EnsureDay returns the itinerary of the 1-based day of a trip, creating it on
// first use. Returns domain.ErrValidation for a day outside the trip.
func (s *ItineraryService) EnsureDay(ctx context.Context, tripID uuid.UUID, day int) (domain.Itinerary, error) {
	const op = "service.ItineraryService.EnsureDay"

	if day < 1 {
		return domain.Itinerary{}, fmt.Errorf("%s: %w: day must be at least 1", op, domain.ErrValidation)
	}
	trip, err := s.store.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Itinerary{}, classify(op, narrow(err, domain.ErrTripNotFound))
	}
	date := trip.DayDate(day)
	if trip.EndDate != nil && date.After(*trip.EndDate) {
		return domain.Itinerary{}, fmt.Errorf("%s: %w: day %d is after the end of the trip", op, domain.ErrValidation, day)
	}

	itin, err := s.store.Itineraries.Upsert(ctx, domain.Itinerary{TripID: tripID, DayIndex: day, Date: date})
	if err != nil {
		return domain.Itinerary{}, classify(op, err)
	}
	itin.Items, err = s.store.Items.ListByItinerary(ctx, itin.ID)
	if err != nil {
		return domain.Itinerary{}, classify(op, err)
	}
	return itin, nil
}

// ListDays returns the itineraries of a trip ordered by day, without items.
func (s *ItineraryService) ListDays(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error) {
	const op = "service.ItineraryService.ListDays"

	if _, err := s.store.Trips.GetByID(ctx, tripID); err != nil {
		return nil, classify(op, narrow(err, domain.ErrTripNotFound))
	}
	days, err := s.store.Itineraries.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, classify(op, err)
	}
	if days == nil {
		return []domain.Itinerary{}, nil
	}
	return days, nil
}

// ---- mutations ----

// InsertItem creates an item at position (clamped to the end of the day; nil
// appends), annotates the legs into it and into its successor, and cascades
// times from its predecessor.
func (s *ItineraryService) InsertItem(ctx context.Context, itineraryID uuid.UUID, position *int, in NewItem) (domain.ItineraryItem, error) {
	const op = "service.ItineraryService.InsertItem"

	if in.DurationMinutes == 0 {
		in.DurationMinutes = domain.DefaultDurationMinutes
	}
	if err := validateItem(in.Title, in.DurationMinutes); err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	var created domain.ItineraryItem
	err := s.withItinerary(ctx, itineraryID, func(ctx context.Context, u *unit) error {
		at := len(u.itin.Items)
		if position != nil {
			at = *position
		}
		at = u.itin.Insert(domain.ItineraryItem{
			PlaceID:         in.PlaceID,
			Title:           strings.TrimSpace(in.Title),
			Description:     in.Description,
			Notes:           in.Notes,
			DurationMinutes: in.DurationMinutes,
			TransportMode:   in.TransportMode,
			ModePinned:      in.TransportMode != "",
		}, at)

		// Shift the existing items first so the new position is free.
		existing := make([]domain.ItineraryItem, 0, len(u.itin.Items)-1)
		existing = append(existing, u.itin.Items[:at]...)
		existing = append(existing, u.itin.Items[at+1:]...)
		if err := u.store.Items.SavePositions(ctx, u.itin.ID, existing); err != nil {
			return err
		}

		row, err := u.store.Items.Create(ctx, u.itin.Items[at])
		if err != nil {
			return err
		}
		u.itin.Items[at] = row

		if err := u.annotateAt(ctx, at); err != nil {
			return err
		}
		if err := u.annotateAt(ctx, at+1); err != nil {
			return err
		}
		if err := s.cascade(ctx, u, at-1); err != nil {
			return err
		}
		created = u.itin.Items[at]
		return nil
	})
	if err != nil {
		return domain.ItineraryItem{}, classify(op, err)
	}
	return created, nil
}

// DeleteItem removes an item and closes the gap. The item that moves into its
// place is marked DistancePending; times are not cascaded, so callers follow
// up with RecalculateFrom(0) or RecalculateDistances.
func (s *ItineraryService) DeleteItem(ctx context.Context, itemID uuid.UUID) (uuid.UUID, error) {
	const op = "service.ItineraryService.DeleteItem"

	var itineraryID uuid.UUID
	err := s.withItem(ctx, itemID, func(ctx context.Context, u *unit, _ int) error {
		itineraryID = u.itin.ID
		if _, err := u.itin.Remove(itemID); err != nil {
			return err
		}
		if err := u.store.Items.Delete(ctx, itemID); err != nil {
			return narrow(err, domain.ErrItemNotFound)
		}
		return u.store.Items.SavePositions(ctx, u.itin.ID, u.itin.Items)
	})
	if err != nil {
		return uuid.Nil, classify(op, err)
	}
	return itineraryID, nil
}

// ReorderItems applies a new order given as the full list of item IDs,
// re-annotates every leg and cascades the whole day.
// Returns domain.ErrValidation unless itemIDs is a permutation of the day's items.
func (s *ItineraryService) ReorderItems(ctx context.Context, itineraryID uuid.UUID, itemIDs []uuid.UUID) (domain.Itinerary, error) {
	const op = "service.ItineraryService.ReorderItems"

	var result domain.Itinerary
	err := s.withItinerary(ctx, itineraryID, func(ctx context.Context, u *unit) error {
		if err := u.itin.Reorder(itemIDs); err != nil {
			return err
		}
		if err := u.store.Items.SavePositions(ctx, u.itin.ID, u.itin.Items); err != nil {
			return err
		}
		if err := u.annotateFrom(ctx, 1); err != nil {
			return err
		}
		if err := s.cascade(ctx, u, 0); err != nil {
			return err
		}
		result = u.itin
		return nil
	})
	if err != nil {
		return domain.Itinerary{}, classify(op, err)
	}
	return result, nil
}

// UpdateItem applies patch. A changed mode or place re-annotates the affected
// legs and cascades from the predecessor; a changed start time or duration
// cascades from the item itself, and a new start time is never overwritten by
// the predecessor's schedule. Other edits touch nothing downstream.
func (s *ItineraryService) UpdateItem(ctx context.Context, itemID uuid.UUID, patch ItemPatch) (domain.ItineraryItem, error) {
	const op = "service.ItineraryService.UpdateItem"

	var updated domain.ItineraryItem
	err := s.withItem(ctx, itemID, func(ctx context.Context, u *unit, i int) error {
		cur := u.itin.Items[i]
		ch, err := applyPatch(&cur, patch)
		if err != nil {
			return err
		}

		row, err := u.store.Items.Update(ctx, cur)
		if err != nil {
			return narrow(err, domain.ErrItemNotFound)
		}
		u.itin.Items[i] = row

		annotated := false
		if ch.mode || ch.place {
			if err := u.annotateAt(ctx, i); err != nil {
				return err
			}
			annotated = i > 0
		}
		if ch.place && i+1 < len(u.itin.Items) {
			if err := u.annotateAt(ctx, i+1); err != nil {
				return err
			}
			annotated = true
		}

		if annotated && i > 0 {
			fresh, err := u.store.Items.GetByID(ctx, itemID)
			if err != nil {
				return narrow(err, domain.ErrItemNotFound)
			}
			u.itin.Items[i] = fresh
		}

		// An explicit start wins over the one derived from the predecessor.
		switch {
		case ch.start:
			if err := s.cascadeKeepingStart(ctx, u, i); err != nil {
				return err
			}
		case annotated:
			if err := s.cascadeKeepingStart(ctx, u, i-1); err != nil {
				return err
			}
		case ch.duration:
			if err := s.cascadeKeepingStart(ctx, u, i); err != nil {
				return err
			}
		}
		updated = u.itin.Items[i]
		return nil
	})
	if err != nil {
		return domain.ItineraryItem{}, classify(op, err)
	}
	return updated, nil
}

// RecalculateDistances re-annotates every leg of the day and cascades times
// from the first item. Running it twice against a stable resolver stores the
// same values both times.
func (s *ItineraryService) RecalculateDistances(ctx context.Context, itineraryID uuid.UUID) (domain.Itinerary, error) {
	const op = "service.ItineraryService.RecalculateDistances"

	var result domain.Itinerary
	err := s.withItinerary(ctx, itineraryID, func(ctx context.Context, u *unit) error {
		if err := u.annotateFrom(ctx, 1); err != nil {
			return err
		}
		if err := s.cascade(ctx, u, 0); err != nil {
			return err
		}
		result = u.itin
		return nil
	})
	if err != nil {
		return domain.Itinerary{}, classify(op, err)
	}
	return result, nil
}

// RecalculateFrom cascades times from position from without touching distances.
// from == 0 re-anchors the first item at the day start.
func (s *ItineraryService) RecalculateFrom(ctx context.Context, itineraryID uuid.UUID, from int) (domain.Itinerary, error) {
	const op = "service.ItineraryService.RecalculateFrom"

	if from < 0 {
		return domain.Itinerary{}, fmt.Errorf("%s: %w: from must not be negative", op, domain.ErrValidation)
	}

	var result domain.Itinerary
	err := s.withItinerary(ctx, itineraryID, func(ctx context.Context, u *unit) error {
		if err := s.cascade(ctx, u, from); err != nil {
			return err
		}
		result = u.itin
		return nil
	})
	if err != nil {
		return domain.Itinerary{}, classify(op, err)
	}
	return result, nil
}

// Annotate re-resolves the leg into a single item. Times are not cascaded.
func (s *ItineraryService) Annotate(ctx context.Context, itemID uuid.UUID) (domain.ItineraryItem, error) {
	const op = "service.ItineraryService.Annotate"

	var result domain.ItineraryItem
	err := s.withItem(ctx, itemID, func(ctx context.Context, u *unit, i int) error {
		if err := u.annotateAt(ctx, i); err != nil {
			return err
		}
		result = u.itin.Items[i]
		return nil
	})
	if err != nil {
		return domain.ItineraryItem{}, classify(op, err)
	}
	return result, nil
}

// ---- helpers ----

type changes struct {
	mode, place, start, duration bool
}

// applyPatch writes patch into it and reports which scheduling inputs changed.
func applyPatch(it *domain.ItineraryItem, p ItemPatch) (changes, error) {
	var ch changes

	if p.Title != nil {
		it.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Notes != nil {
		it.Notes = *p.Notes
	}
	if p.DurationMinutes != nil && *p.DurationMinutes != it.DurationMinutes {
		it.DurationMinutes = *p.DurationMinutes
		ch.duration = true
	}
	if err := validateItem(it.Title, it.DurationMinutes); err != nil {
		return changes{}, err
	}

	if p.StartTime != nil && !sameTime(p.StartTime, it.StartTime) {
		start := *p.StartTime
		it.StartTime = &start
		ch.start = true
	}
	if (ch.start || ch.duration) && it.StartTime != nil {
		it.Schedule(*it.StartTime)
	}

	if p.PlaceID != nil {
		next := p.PlaceID
		if *next == uuid.Nil {
			next = nil
		}
		if !samePlace(it.PlaceID, next) {
			it.PlaceID = next
			ch.place = true
		}
	}

	if p.TransportMode != nil {
		mode := *p.TransportMode
		if it.IsStartingPoint && mode != "" {
			return changes{}, fmt.Errorf("%w: the starting point has no incoming leg to set a mode on", domain.ErrValidation)
		}
		if mode != it.PinnedMode() {
			it.ModePinned = mode != ""
			if it.ModePinned {
				it.TransportMode = mode
			}
			ch.mode = true
		}
	}
	return ch, nil
}

func samePlace(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// validateItem enforces the rules shared by InsertItem and UpdateItem.
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - Duration is between one minute and one day.
func validateItem(title string, duration int) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if duration < 1 || duration > maxDurationMinutes {
		return fmt.Errorf("%w: duration_minutes must be between 1 and %d", domain.ErrValidation, maxDurationMinutes)
	}
	return nil
}
