package routing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/routing"
)

var (
	shibuya  = domain.Coordinates{Lat: 35.6595, Lng: 139.7005}
	harajuku = domain.Coordinates{Lat: 35.6702, Lng: 139.7027}
)

// newGoogle starts a fake Distance Matrix endpoint that answers every request with body.
func newGoogle(t *testing.T, body string, inspect func(r *http.Request)) *routing.GoogleResolver {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			inspect(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	g, err := routing.NewGoogleResolver("AIzaTestKey", routing.WithBaseURL(srv.URL), routing.WithTimeout(2*time.Second))
	require.NoError(t, err)
	return g
}

const okMatrix = `{
  "status": "OK",
  "origin_addresses": ["Shibuya"],
  "destination_addresses": ["Harajuku"],
  "rows": [{"elements": [{
    "status": "OK",
    "distance": {"value": 1300, "text": "1.3 km"},
    "duration": {"value": 1020, "text": "17 mins"}
  }]}]
}`

func TestGoogleResolver_GetDistance(t *testing.T) {
	var gotPath, gotMode, gotOrigins string
	g := newGoogle(t, okMatrix, func(r *http.Request) {
		gotPath = r.URL.Path
		gotMode = r.URL.Query().Get("mode")
		gotOrigins = r.URL.Query().Get("origins")
	})

	est, err := g.GetDistance(context.Background(), shibuya, harajuku, domain.TransportWalking)

	require.NoError(t, err)
	assert.Equal(t, "/maps/api/distancematrix/json", gotPath)
	assert.Equal(t, "walking", gotMode)
	assert.Equal(t, "35.659500,139.700500", gotOrigins)
	assert.Equal(t, 1300, est.DistanceMeters)
	assert.Equal(t, "1.3 km", est.DistanceText)
	assert.Equal(t, 1020, est.DurationSeconds)
	assert.Equal(t, "17 mins", est.DurationText)
}

func TestGoogleResolver_GetDistance_ElementNotOK(t *testing.T) {
	g := newGoogle(t, `{
	  "status": "OK",
	  "origin_addresses": ["a"], "destination_addresses": ["b"],
	  "rows": [{"elements": [{"status": "ZERO_RESULTS"}]}]
	}`, nil)

	_, err := g.GetDistance(context.Background(), shibuya, harajuku, domain.TransportTransit)

	assert.ErrorIs(t, err, domain.ErrDistanceUnavailable)
}

func TestGoogleResolver_GetDistance_RequestDenied(t *testing.T) {
	g := newGoogle(t, `{"status": "REQUEST_DENIED", "error_message": "bad key", "rows": []}`, nil)

	_, err := g.GetDistance(context.Background(), shibuya, harajuku, domain.TransportDriving)

	assert.ErrorIs(t, err, domain.ErrDistanceUnavailable)
}

func TestGoogleResolver_GetDistance_UnknownMode(t *testing.T) {
	called := false
	g := newGoogle(t, okMatrix, func(*http.Request) { called = true })

	_, err := g.GetDistance(context.Background(), shibuya, harajuku, domain.TransportMode("teleport"))

	assert.ErrorIs(t, err, domain.ErrDistanceUnavailable)
	assert.False(t, called, "no request should be made for an unknown mode")
}
