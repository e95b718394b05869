package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

type itemResponse struct {
	ID                uuid.UUID         `json:"id"`
	ItineraryID       uuid.UUID         `json:"itinerary_id"`
	Position          int               `json:"position"`
	PlaceID           *uuid.UUID        `json:"place_id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Notes             string            `json:"notes"`
	DurationMinutes   int               `json:"duration_minutes"`
	StartTime         *domain.TimeOfDay `json:"start_time"`
	EndTime           *domain.TimeOfDay `json:"end_time"`
	IsStartingPoint   bool              `json:"is_starting_point"`
	TransportMode     string            `json:"transport_mode,omitempty"`
	ModePinned        bool              `json:"mode_pinned"`
	DistanceMeters    *int              `json:"distance_meters,omitempty"`
	DistanceText      string            `json:"distance_text,omitempty"`
	TravelTimeSeconds *int              `json:"travel_time_seconds,omitempty"`
	TravelTimeText    string            `json:"travel_time_text,omitempty"`
	DistanceStatus    string            `json:"distance_status,omitempty"`
	DistanceError     string            `json:"distance_error,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// updateItemRequest is a partial update; absent fields are kept.
// An empty place_id detaches the place and an empty transport_mode
// returns the leg to inferred mode selection.
type updateItemRequest struct {
	Title           *string           `json:"title"`
	Description     *string           `json:"description"`
	Notes           *string           `json:"notes"`
	DurationMinutes *int              `json:"duration_minutes"`
	StartTime       *domain.TimeOfDay `json:"start_time"`
	PlaceID         *string           `json:"place_id"`
	TransportMode   *string           `json:"transport_mode"`
}

// UpdateItem handles PATCH /items/{itemId}.
func (s *Server) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "itemId")
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	var body updateItemRequest
	if err := readJSON(r, &body); err != nil {
		writeError(w, r, err, "")
		return
	}
	patch, err := requestToPatch(body)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	item, err := s.itineraries.UpdateItem(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err, "itinerary item not found")
		return
	}

	writeJSON(w, http.StatusOK, itemToResponse(item))
}

// DeleteItem handles DELETE /items/{itemId}.
// The day is re-timed from its first item and returned so clients see the
// closed gap without a second request.
func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "itemId")
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	itineraryID, err := s.itineraries.DeleteItem(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "itinerary item not found")
		return
	}
	itin, err := s.itineraries.RecalculateFrom(r.Context(), itineraryID, 0)
	if err != nil {
		writeError(w, r, err, "itinerary not found")
		return
	}

	writeJSON(w, http.StatusOK, itineraryToResponse(itin))
}

// --- mapping helpers --------------------------------------------------------

func requestToPatch(body updateItemRequest) (service.ItemPatch, error) {
	patch := service.ItemPatch{
		Title:           body.Title,
		Description:     body.Description,
		Notes:           body.Notes,
		DurationMinutes: body.DurationMinutes,
		StartTime:       body.StartTime,
	}
	if body.PlaceID != nil {
		placeID := uuid.Nil
		if *body.PlaceID != "" {
			parsed, err := uuid.Parse(*body.PlaceID)
			if err != nil {
				return service.ItemPatch{}, badRequest("invalid place_id: %v", err)
			}
			placeID = parsed
		}
		patch.PlaceID = &placeID
	}
	if body.TransportMode != nil {
		mode, err := domain.ParseTransportMode(*body.TransportMode)
		if err != nil {
			return service.ItemPatch{}, err
		}
		patch.TransportMode = &mode
	}
	return patch, nil
}

func itemToResponse(it domain.ItineraryItem) itemResponse {
	return itemResponse{
		ID:                it.ID,
		ItineraryID:       it.ItineraryID,
		Position:          it.Position,
		PlaceID:           it.PlaceID,
		Title:             it.Title,
		Description:       it.Description,
		Notes:             it.Notes,
		DurationMinutes:   it.DurationMinutes,
		StartTime:         it.StartTime,
		EndTime:           it.EndTime,
		IsStartingPoint:   it.IsStartingPoint,
		TransportMode:     string(it.TransportMode),
		ModePinned:        it.ModePinned,
		DistanceMeters:    it.DistanceMeters,
		DistanceText:      it.DistanceText,
		TravelTimeSeconds: it.TravelTimeSeconds,
		TravelTimeText:    it.TravelTimeText,
		DistanceStatus:    string(it.DistanceStatus),
		DistanceError:     it.DistanceError,
		CreatedAt:         it.CreatedAt,
		UpdatedAt:         it.UpdatedAt,
	}
}
