package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
)

type createTripRequest struct {
	Name               string              `json:"name"`
	DestinationCity    string              `json:"destination_city"`
	DestinationCountry string              `json:"destination_country"`
	StartDate          openapi_types.Date  `json:"start_date"`
	EndDate            *openapi_types.Date `json:"end_date,omitempty"`
}

type tripResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Name               string              `json:"name"`
	DestinationCity    string              `json:"destination_city,omitempty"`
	DestinationCountry string              `json:"destination_country,omitempty"`
	StartDate          openapi_types.Date  `json:"start_date"`
	EndDate            *openapi_types.Date `json:"end_date,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type tripListResponse struct {
	Data       []tripResponse `json:"data"`
	Pagination pagination     `json:"pagination"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body createTripRequest
	if err := readJSON(r, &body); err != nil {
		writeError(w, r, err, "")
		return
	}

	created, err := s.trips.Create(r.Context(), requestToTrip(body))
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	params := domain.NewPaginationParams(page, limit)
	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, tripListResponse{
		Data: data,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tripId")
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts a createTripRequest body into a domain.Trip.
func requestToTrip(body createTripRequest) domain.Trip {
	t := domain.Trip{
		Name:               body.Name,
		DestinationCity:    body.DestinationCity,
		DestinationCountry: body.DestinationCountry,
		StartDate:          body.StartDate.Time,
	}
	if body.EndDate != nil {
		ed := body.EndDate.Time
		t.EndDate = &ed
	}
	return t
}

// tripToResponse converts a domain.Trip into its JSON representation.
func tripToResponse(t domain.Trip) tripResponse {
	resp := tripResponse{
		ID:                 t.ID,
		Name:               t.Name,
		DestinationCity:    t.DestinationCity,
		DestinationCountry: t.DestinationCountry,
		StartDate:          openapi_types.Date{Time: t.StartDate},
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
	if t.EndDate != nil {
		ed := openapi_types.Date{Time: *t.EndDate}
		resp.EndDate = &ed
	}
	return resp
}
