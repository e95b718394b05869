package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultDurationMinutes is applied to items created without a duration.
const DefaultDurationMinutes = 60

// Itinerary is one day of a trip: an ordered sequence of items.
// Items is always ordered by Position and Position always equals the slice
// index once the itinerary has been loaded or mutated through its methods.
type Itinerary struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	DayIndex  int // 1-based, unique per trip
	Date      time.Time
	Items     []ItineraryItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItineraryItem is one scheduled activity. The transport fields describe the
// leg from the previous item and are empty for the starting point.
type ItineraryItem struct {
	ID          uuid.UUID
	ItineraryID uuid.UUID
	Position    int
	PlaceID     *uuid.UUID

	Title           string
	Description     string
	Notes           string
	DurationMinutes int
	StartTime       *TimeOfDay
	EndTime         *TimeOfDay
	IsStartingPoint bool

	TransportMode     TransportMode
	ModePinned        bool // TransportMode was chosen by the user, not inferred
	DistanceMeters    *int
	DistanceText      string
	TravelTimeSeconds *int
	TravelTimeText    string
	DistanceStatus    DistanceStatus
	DistanceError     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PinnedMode returns the user-chosen transport mode, or "" when the mode is inferred.
func (it ItineraryItem) PinnedMode() TransportMode {
	if it.ModePinned {
		return it.TransportMode
	}
	return ""
}

// TravelMinutes is the incoming travel time rounded up to whole minutes.
// An item without travel data contributes zero.
func (it ItineraryItem) TravelMinutes() int {
	if it.TravelTimeSeconds == nil || *it.TravelTimeSeconds <= 0 {
		return 0
	}
	return (*it.TravelTimeSeconds + 59) / 60
}

// Schedule sets the start time and derives the end time from the duration.
func (it *ItineraryItem) Schedule(start TimeOfDay) {
	end := start.Add(it.DurationMinutes)
	it.StartTime = &start
	it.EndTime = &end
}

// ApplyRoute stores a resolved leg from the previous item.
func (it *ItineraryItem) ApplyRoute(mode TransportMode, est RouteEstimate) {
	meters, seconds := est.DistanceMeters, est.DurationSeconds
	it.TransportMode = mode
	it.DistanceMeters = &meters
	it.DistanceText = est.DistanceText
	it.TravelTimeSeconds = &seconds
	it.TravelTimeText = est.DurationText
	it.DistanceStatus = DistanceResolved
	it.DistanceError = ""
}

// ClearTransport removes every transport-from-previous field, including a pinned mode.
func (it *ItineraryItem) ClearTransport() {
	it.TransportMode = ""
	it.ModePinned = false
	it.DistanceMeters = nil
	it.DistanceText = ""
	it.TravelTimeSeconds = nil
	it.TravelTimeText = ""
	it.DistanceStatus = ""
	it.DistanceError = ""
}

// IndexOf returns the position of the item with the given ID, or -1.
func (itin *Itinerary) IndexOf(id uuid.UUID) int {
	for i := range itin.Items {
		if itin.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Insert places item at position at, clamped to [0, len(Items)], shifts the
// items after it and returns the position used.
func (itin *Itinerary) Insert(item ItineraryItem, at int) int {
	if at < 0 || at > len(itin.Items) {
		at = len(itin.Items)
	}
	item.ItineraryID = itin.ID
	itin.Items = append(itin.Items, ItineraryItem{})
	copy(itin.Items[at+1:], itin.Items[at:])
	itin.Items[at] = item
	itin.renumber()

	if at > 0 {
		itin.Items[at].DistanceStatus = DistancePending
	}
	if at+1 < len(itin.Items) {
		itin.Items[at+1].DistanceStatus = DistancePending
	}
	return at
}

// Remove deletes the item with the given ID and closes the gap. The item that
// takes its place, if any and if it is not the new starting point, is marked pending.
func (itin *Itinerary) Remove(id uuid.UUID) (ItineraryItem, error) {
	i := itin.IndexOf(id)
	if i < 0 {
		return ItineraryItem{}, ErrItemNotFound
	}
	removed := itin.Items[i]
	itin.Items = append(itin.Items[:i], itin.Items[i+1:]...)
	itin.renumber()

	if i > 0 && i < len(itin.Items) {
		itin.Items[i].DistanceStatus = DistancePending
	}
	return removed, nil
}

// Reorder rearranges the items to match ids, which must name every item
// of the itinerary exactly once.
func (itin *Itinerary) Reorder(ids []uuid.UUID) error {
	if len(ids) != len(itin.Items) {
		return fmt.Errorf("%w: order lists %d items, itinerary has %d", ErrValidation, len(ids), len(itin.Items))
	}
	byID := make(map[uuid.UUID]ItineraryItem, len(itin.Items))
	for _, it := range itin.Items {
		byID[it.ID] = it
	}
	ordered := make([]ItineraryItem, 0, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: item %s is not part of this itinerary or is listed twice", ErrValidation, id)
		}
		delete(byID, id)
		ordered = append(ordered, it)
	}
	itin.Items = ordered
	itin.renumber()
	return nil
}

// renumber makes Position match the slice index and enforces the starting
// point invariant: only position 0 is flagged and it has no incoming leg.
func (itin *Itinerary) renumber() {
	for i := range itin.Items {
		it := &itin.Items[i]
		it.Position = i
		it.IsStartingPoint = i == 0
		if i == 0 {
			it.ClearTransport()
		}
	}
}
