package service_test

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// fakeDB is an in-memory stand-in for Postgres shared by the fake repos.
// The fake transactor snapshots it before a unit of work and restores the
// snapshot when the unit fails, mirroring a rolled-back transaction.
type fakeDB struct {
	trips  map[uuid.UUID]domain.Trip
	itins  map[uuid.UUID]domain.Itinerary
	items  map[uuid.UUID]domain.ItineraryItem
	places map[uuid.UUID]domain.Place

	scheduleWrites  int
	transportWrites int

	// failScheduleAfter makes the n+1th UpdateSchedule call fail. Negative disables.
	failScheduleAfter int
	// scheduleErr is the error of a failing UpdateSchedule; nil means a disk error.
	scheduleErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		trips:             map[uuid.UUID]domain.Trip{},
		itins:             map[uuid.UUID]domain.Itinerary{},
		items:             map[uuid.UUID]domain.ItineraryItem{},
		places:            map[uuid.UUID]domain.Place{},
		failScheduleAfter: -1,
	}
}

func (db *fakeDB) store() repo.Store {
	return repo.Store{
		Trips:       fakeTrips{db},
		Itineraries: fakeItineraries{db},
		Items:       fakeItems{db},
		Places:      fakePlaces{db},
	}
}

// ordered returns the stored items of an itinerary by position.
func (db *fakeDB) ordered(itineraryID uuid.UUID) []domain.ItineraryItem {
	out := []domain.ItineraryItem{}
	for _, it := range db.items {
		if it.ItineraryID == itineraryID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// ---- transactor ----

type fakeTransactor struct {
	db   *fakeDB
	lock sync.Mutex
}

var _ repo.Transactor = (*fakeTransactor)(nil)

func (f *fakeTransactor) LockItinerary(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, s repo.Store) error) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, ok := f.db.itins[id]; !ok {
		return fmt.Errorf("fake.Lock: %w", domain.ErrNotFound)
	}
	snapshot := maps.Clone(f.db.items)
	if err := fn(ctx, f.db.store()); err != nil {
		f.db.items = snapshot
		return err
	}
	return nil
}

// ---- trips ----

type fakeTrips struct{ db *fakeDB }

func (r fakeTrips) Create(_ context.Context, t domain.Trip) (domain.Trip, error) {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	r.db.trips[t.ID] = t
	return t, nil
}

func (r fakeTrips) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	t, ok := r.db.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return t, nil
}

func (r fakeTrips) ListPaged(_ context.Context, _ domain.PaginationParams) ([]domain.Trip, int64, error) {
	out := make([]domain.Trip, 0, len(r.db.trips))
	for _, t := range r.db.trips {
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

// ---- itineraries ----

type fakeItineraries struct{ db *fakeDB }

func (r fakeItineraries) Upsert(_ context.Context, itin domain.Itinerary) (domain.Itinerary, error) {
	for _, existing := range r.db.itins {
		if existing.TripID == itin.TripID && existing.DayIndex == itin.DayIndex {
			return existing, nil
		}
	}
	itin.ID = uuid.New()
	itin.Items = nil
	r.db.itins[itin.ID] = itin
	return itin, nil
}

func (r fakeItineraries) GetByID(_ context.Context, id uuid.UUID) (domain.Itinerary, error) {
	itin, ok := r.db.itins[id]
	if !ok {
		return domain.Itinerary{}, domain.ErrNotFound
	}
	return itin, nil
}

func (r fakeItineraries) ListByTrip(_ context.Context, tripID uuid.UUID) ([]domain.Itinerary, error) {
	var out []domain.Itinerary
	for _, itin := range r.db.itins {
		if itin.TripID == tripID {
			out = append(out, itin)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayIndex < out[j].DayIndex })
	return out, nil
}

func (r fakeItineraries) Lock(_ context.Context, id uuid.UUID) error {
	if _, ok := r.db.itins[id]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

// ---- items ----

type fakeItems struct{ db *fakeDB }

func (r fakeItems) Create(_ context.Context, it domain.ItineraryItem) (domain.ItineraryItem, error) {
	for _, other := range r.db.items {
		if other.ItineraryID == it.ItineraryID && other.Position == it.Position {
			return domain.ItineraryItem{}, fmt.Errorf("fake.Create: duplicate position %d", it.Position)
		}
	}
	it.ID = uuid.New()
	r.db.items[it.ID] = it
	return it, nil
}

func (r fakeItems) GetByID(_ context.Context, id uuid.UUID) (domain.ItineraryItem, error) {
	it, ok := r.db.items[id]
	if !ok {
		return domain.ItineraryItem{}, domain.ErrNotFound
	}
	return it, nil
}

func (r fakeItems) ListByItinerary(_ context.Context, itineraryID uuid.UUID) ([]domain.ItineraryItem, error) {
	return r.db.ordered(itineraryID), nil
}

func (r fakeItems) Update(_ context.Context, it domain.ItineraryItem) (domain.ItineraryItem, error) {
	cur, ok := r.db.items[it.ID]
	if !ok {
		return domain.ItineraryItem{}, domain.ErrNotFound
	}
	cur.Title, cur.Description, cur.Notes = it.Title, it.Description, it.Notes
	cur.DurationMinutes = it.DurationMinutes
	cur.PlaceID = it.PlaceID
	cur.StartTime, cur.EndTime = it.StartTime, it.EndTime
	cur.TransportMode, cur.ModePinned = it.TransportMode, it.ModePinned
	r.db.items[it.ID] = cur
	return cur, nil
}

func (r fakeItems) UpdateTransport(_ context.Context, it domain.ItineraryItem) error {
	cur, ok := r.db.items[it.ID]
	if !ok {
		return domain.ErrNotFound
	}
	r.db.transportWrites++
	cur.TransportMode, cur.ModePinned = it.TransportMode, it.ModePinned
	cur.DistanceMeters, cur.DistanceText = it.DistanceMeters, it.DistanceText
	cur.TravelTimeSeconds, cur.TravelTimeText = it.TravelTimeSeconds, it.TravelTimeText
	cur.DistanceStatus, cur.DistanceError = it.DistanceStatus, it.DistanceError
	r.db.items[it.ID] = cur
	return nil
}

func (r fakeItems) UpdateSchedule(_ context.Context, id uuid.UUID, start, end *domain.TimeOfDay) error {
	if r.db.failScheduleAfter >= 0 && r.db.scheduleWrites >= r.db.failScheduleAfter {
		if r.db.scheduleErr != nil {
			return fmt.Errorf("fake.UpdateSchedule: %w", r.db.scheduleErr)
		}
		return fmt.Errorf("fake.UpdateSchedule: disk full")
	}
	cur, ok := r.db.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.db.scheduleWrites++
	cur.StartTime, cur.EndTime = start, end
	r.db.items[id] = cur
	return nil
}

func (r fakeItems) SavePositions(_ context.Context, itineraryID uuid.UUID, list []domain.ItineraryItem) error {
	for _, it := range list {
		cur, ok := r.db.items[it.ID]
		if !ok || cur.ItineraryID != itineraryID {
			return fmt.Errorf("fake.SavePositions: %w", domain.ErrNotFound)
		}
		cur.Position = it.Position
		cur.IsStartingPoint = it.Position == 0
		cur.DistanceStatus = it.DistanceStatus
		if it.Position == 0 {
			cur.ClearTransport()
		}
		r.db.items[it.ID] = cur
	}
	seen := map[int]bool{}
	for _, it := range r.db.ordered(itineraryID) {
		if seen[it.Position] {
			return fmt.Errorf("fake.SavePositions: duplicate position %d", it.Position)
		}
		seen[it.Position] = true
	}
	return nil
}

func (r fakeItems) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.db.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.items, id)
	return nil
}

// ---- places ----

type fakePlaces struct{ db *fakeDB }

func (r fakePlaces) Create(_ context.Context, p domain.Place) (domain.Place, error) {
	p.ID = uuid.New()
	r.db.places[p.ID] = p
	return p, nil
}

func (r fakePlaces) GetByID(_ context.Context, id uuid.UUID) (domain.Place, error) {
	p, ok := r.db.places[id]
	if !ok {
		return domain.Place{}, domain.ErrNotFound
	}
	return p, nil
}

func (r fakePlaces) GetCoordinates(_ context.Context, id uuid.UUID) (*domain.Coordinates, error) {
	p, ok := r.db.places[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Location, nil
}
