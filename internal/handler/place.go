package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

type createPlaceRequest struct {
	Name     string              `json:"name"`
	Address  string              `json:"address"`
	Location *domain.Coordinates `json:"location,omitempty"`
}

type placeResponse struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	Address   string              `json:"address,omitempty"`
	Location  *domain.Coordinates `json:"location,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// CreatePlace handles POST /places.
func (s *Server) CreatePlace(w http.ResponseWriter, r *http.Request) {
	var body createPlaceRequest
	if err := readJSON(r, &body); err != nil {
		writeError(w, r, err, "")
		return
	}

	created, err := s.places.Create(r.Context(), domain.Place{
		Name:     body.Name,
		Address:  body.Address,
		Location: body.Location,
	})
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusCreated, placeToResponse(created))
}

// GetPlace handles GET /places/{placeId}.
func (s *Server) GetPlace(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "placeId")
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	place, err := s.places.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "place not found")
		return
	}

	writeJSON(w, http.StatusOK, placeToResponse(place))
}

func placeToResponse(p domain.Place) placeResponse {
	return placeResponse{
		ID:        p.ID,
		Name:      p.Name,
		Address:   p.Address,
		Location:  p.Location,
		CreatedAt: p.CreatedAt,
	}
}
