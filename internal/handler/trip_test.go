package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}

// compile-time check: mockTripServicer must satisfy handler.TripServicer.
var _ handler.TripServicer = (*mockTripServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into a chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(trips handler.TripServicer, places handler.PlaceServicer, itins handler.ItineraryServicer) http.Handler {
	return handler.NewServer(trips, places, itins).Handler()
}

func tripFixture() domain.Trip {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	return domain.Trip{
		ID:                 uuid.New(),
		Name:               "Kanto Week",
		DestinationCity:    "Tokyo",
		DestinationCountry: "Japan",
		StartDate:          start,
		EndDate:            &end,
		CreatedAt:          time.Now().UTC(),
		UpdatedAt:          time.Now().UTC(),
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func dateStr(t time.Time) string {
	return t.Format("2006-01-02")
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var resp errorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func serve(h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	fixture := tripFixture()
	var got domain.Trip
	svc := &mockTripServicer{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			got = trip
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"name":                "Kanto Week",
		"destination_city":    "Tokyo",
		"destination_country": "Japan",
		"start_date":          dateStr(fixture.StartDate),
		"end_date":            dateStr(*fixture.EndDate),
	})

	rec := serve(newHTTPHandler(svc, nil, nil), http.MethodPost, "/trips", body)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID        uuid.UUID `json:"id"`
		Name      string    `json:"name"`
		StartDate string    `json:"start_date"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, fixture.Name, resp.Name)
	assert.Equal(t, "2025-06-01", resp.StartDate)

	assert.Equal(t, "Tokyo", got.DestinationCity)
	assert.Equal(t, fixture.StartDate, got.StartDate)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, *fixture.EndDate, *got.EndDate)
}

func TestCreateTrip_422_ValidationError(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", fmt.Errorf("%w: name is required", domain.ErrValidation))
		},
	}

	body := jsonBody(t, map[string]any{"name": "", "start_date": "2025-06-01"})
	rec := serve(newHTTPHandler(svc, nil, nil), http.MethodPost, "/trips", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "name is required", resp.Error.Message)
}

func TestCreateTrip_400_MalformedJSON(t *testing.T) {
	rec := serve(newHTTPHandler(&mockTripServicer{}, nil, nil), http.MethodPost, "/trips", bytes.NewBufferString(`{"name":`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decodeError(t, rec).Error.Code)
}

func TestCreateTrip_400_UnknownField(t *testing.T) {
	body := jsonBody(t, map[string]any{"name": "x", "start_date": "2025-06-01", "notes": "n"})
	rec := serve(newHTTPHandler(&mockTripServicer{}, nil, nil), http.MethodPost, "/trips", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTrip_500_HidesCause(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, errors.New("connection refused")
		},
	}

	body := jsonBody(t, map[string]any{"name": "x", "start_date": "2025-06-01"})
	rec := serve(newHTTPHandler(svc, nil, nil), http.MethodPost, "/trips", body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "internal_error", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "connection refused")
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_200_Pagination(t *testing.T) {
	var got domain.PaginationParams
	svc := &mockTripServicer{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
			got = p
			return []domain.Trip{tripFixture()}, 21, nil
		},
	}

	rec := serve(newHTTPHandler(svc, nil, nil), http.MethodGet, "/trips?page=2&limit=500", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 100, got.Limit, "limit is capped")

	var resp struct {
		Data       []map[string]any `json:"data"`
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 21, resp.Pagination.Total)
	assert.Equal(t, 100, resp.Pagination.Limit)
}

func TestListTrips_400_BadPage(t *testing.T) {
	rec := serve(newHTTPHandler(&mockTripServicer{}, nil, nil), http.MethodGet, "/trips?page=two", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- GET /trips/{tripId} ---------------------------------------------------

func TestGetTrip_200(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			assert.Equal(t, fixture.ID, id)
			return fixture, nil
		},
	}

	rec := serve(newHTTPHandler(svc, nil, nil), http.MethodGet, "/trips/"+fixture.ID.String(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", domain.ErrTripNotFound)
		},
	}

	rec := serve(newHTTPHandler(svc, nil, nil), http.MethodGet, "/trips/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "not_found", resp.Error.Code)
	assert.Equal(t, "trip not found", resp.Error.Message)
}

func TestGetTrip_400_InvalidID(t *testing.T) {
	rec := serve(newHTTPHandler(&mockTripServicer{}, nil, nil), http.MethodGet, "/trips/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
