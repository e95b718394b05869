package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

type itineraryResponse struct {
	ID        uuid.UUID          `json:"id"`
	TripID    uuid.UUID          `json:"trip_id"`
	DayIndex  int                `json:"day_index"`
	Date      openapi_types.Date `json:"date"`
	Items     []itemResponse     `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type dayListResponse struct {
	Data []itineraryResponse `json:"data"`
}

type insertItemRequest struct {
	Position        *int       `json:"position,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Notes           string     `json:"notes"`
	DurationMinutes int        `json:"duration_minutes"`
	PlaceID         *uuid.UUID `json:"place_id,omitempty"`
	TransportMode   string     `json:"transport_mode"`
}

type reorderRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids"`
}

// GetItinerary handles GET /itineraries/{itineraryId}.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "itineraryId")
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	itin, err := s.itineraries.GetItinerary(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "itinerary not found")
		return
	}

	writeJSON(w, http.StatusOK, itineraryToResponse(itin))
}

// ListDays handles GET /trips/{tripId}/days.
func (s *Server) ListDays(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	days, err := s.itineraries.ListDays(r.Context(), tripID)
	if err != nil {
		writeError(w, r, err, "trip not found")
		return
	}

	data := make([]itineraryResponse, len(days))
	for i, d := range days {
		data[i] = itineraryToResponse(d)
	}
	writeJSON(w, http.StatusOK, dayListResponse{Data: data})
}

// EnsureDay handles PUT /trips/{tripId}/days/{day}.
// The day's itinerary is created on first use and returned unchanged afterwards.
func (s *Server) EnsureDay(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	day, err := pathInt(r, "day")
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	itin, err := s.itineraries.EnsureDay(r.Context(), tripID, day)
	if err != nil {
		writeError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, itineraryToResponse(itin))
}

// InsertItem handles POST /itineraries/{itineraryId}/items.
// Omitting position appends the item to the end of the day.
func (s *Server) InsertItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "itineraryId")
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	var body insertItemRequest
	if err := readJSON(r, &body); err != nil {
		writeError(w, r, err, "")
		return
	}
	mode, err := domain.ParseTransportMode(body.TransportMode)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	item, err := s.itineraries.InsertItem(r.Context(), id, body.Position, service.NewItem{
		Title:           body.Title,
		Description:     body.Description,
		Notes:           body.Notes,
		DurationMinutes: body.DurationMinutes,
		PlaceID:         body.PlaceID,
		TransportMode:   mode,
	})
	if err != nil {
		writeError(w, r, err, "itinerary not found")
		return
	}

	writeJSON(w, http.StatusCreated, itemToResponse(item))
}

// ReorderItems handles PUT /itineraries/{itineraryId}/order.
// The body lists every item of the day exactly once, in the new order.
func (s *Server) ReorderItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "itineraryId")
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	var body reorderRequest
	if err := readJSON(r, &body); err != nil {
		writeError(w, r, err, "")
		return
	}

	itin, err := s.itineraries.ReorderItems(r.Context(), id, body.ItemIDs)
	if err != nil {
		writeError(w, r, err, "itinerary not found")
		return
	}

	writeJSON(w, http.StatusOK, itineraryToResponse(itin))
}

// RecalculateDistances handles POST /itineraries/{itineraryId}/recalculate-distances.
func (s *Server) RecalculateDistances(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "itineraryId")
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	itin, err := s.itineraries.RecalculateDistances(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "itinerary not found")
		return
	}

	writeJSON(w, http.StatusOK, itineraryToResponse(itin))
}

// RecalculateFrom handles POST /itineraries/{itineraryId}/recalculate?from=N.
// from defaults to 0, which re-anchors the whole day.
func (s *Server) RecalculateFrom(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "itineraryId")
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	from, err := queryInt(r, "from")
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	start := 0
	if from != nil {
		start = *from
	}

	itin, err := s.itineraries.RecalculateFrom(r.Context(), id, start)
	if err != nil {
		writeError(w, r, err, "itinerary not found")
		return
	}

	writeJSON(w, http.StatusOK, itineraryToResponse(itin))
}

// --- mapping helpers --------------------------------------------------------

func itineraryToResponse(itin domain.Itinerary) itineraryResponse {
	items := make([]itemResponse, len(itin.Items))
	for i, it := range itin.Items {
		items[i] = itemToResponse(it)
	}
	return itineraryResponse{
		ID:        itin.ID,
		TripID:    itin.TripID,
		DayIndex:  itin.DayIndex,
		Date:      openapi_types.Date{Time: itin.Date},
		Items:     items,
		CreatedAt: itin.CreatedAt,
		UpdatedAt: itin.UpdatedAt,
	}
}
