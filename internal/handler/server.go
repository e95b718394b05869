// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, trip.go, itinerary.go, item.go, place.go) but share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
}

// PlaceServicer defines the place operations used by the handlers.
type PlaceServicer interface {
	Create(ctx context.Context, place domain.Place) (domain.Place, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Place, error)
}

// ItineraryServicer is the scheduling engine as seen by the handlers.
type ItineraryServicer interface {
	GetItinerary(ctx context.Context, itineraryID uuid.UUID) (domain.Itinerary, error)
	EnsureDay(ctx context.Context, tripID uuid.UUID, day int) (domain.Itinerary, error)
	ListDays(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error)
	InsertItem(ctx context.Context, itineraryID uuid.UUID, position *int, in service.NewItem) (domain.ItineraryItem, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) (uuid.UUID, error)
	ReorderItems(ctx context.Context, itineraryID uuid.UUID, itemIDs []uuid.UUID) (domain.Itinerary, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, patch service.ItemPatch) (domain.ItineraryItem, error)
	RecalculateDistances(ctx context.Context, itineraryID uuid.UUID) (domain.Itinerary, error)
	RecalculateFrom(ctx context.Context, itineraryID uuid.UUID, from int) (domain.Itinerary, error)
}

// Server serves every API endpoint.
// Wire it in main.go with Server.Routes on a chi router.
type Server struct {
	trips       TripServicer
	places      PlaceServicer
	itineraries ItineraryServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, places PlaceServicer, itineraries ItineraryServicer) *Server {
	return &Server{trips: trips, places: places, itineraries: itineraries}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil)
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)
		r.Get("/{tripId}", s.GetTrip)
		r.Get("/{tripId}/days", s.ListDays)
		r.Put("/{tripId}/days/{day}", s.EnsureDay)
	})

	r.Post("/places", s.CreatePlace)
	r.Get("/places/{placeId}", s.GetPlace)

	r.Route("/itineraries/{itineraryId}", func(r chi.Router) {
		r.Get("/", s.GetItinerary)
		r.Post("/items", s.InsertItem)
		r.Put("/order", s.ReorderItems)
		r.Post("/recalculate-distances", s.RecalculateDistances)
		r.Post("/recalculate", s.RecalculateFrom)
	})

	r.Patch("/items/{itemId}", s.UpdateItem)
	r.Delete("/items/{itemId}", s.DeleteItem)
}

// Handler returns a standalone router serving the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}
