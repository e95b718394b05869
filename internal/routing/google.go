package routing

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"github.com/pkordes/trip-planner/internal/domain"
)

// GoogleResolver resolves routes with the Google Distance Matrix API.
type GoogleResolver struct {
	client  *maps.Client
	timeout time.Duration
}

// GoogleOption configures a GoogleResolver.
type GoogleOption func(*googleOptions)

type googleOptions struct {
	baseURL string
	timeout time.Duration
}

// WithBaseURL points the client at a different host, e.g. an httptest server.
func WithBaseURL(url string) GoogleOption {
	return func(o *googleOptions) { o.baseURL = url }
}

// WithTimeout bounds each Distance Matrix call. Zero means no extra bound.
func WithTimeout(d time.Duration) GoogleOption {
	return func(o *googleOptions) { o.timeout = d }
}

// NewGoogleResolver builds a resolver using apiKey.
func NewGoogleResolver(apiKey string, opts ...GoogleOption) (*GoogleResolver, error) {
	var o googleOptions
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(o.baseURL))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("routing.NewGoogleResolver: %w", err)
	}
	return &GoogleResolver{client: client, timeout: o.timeout}, nil
}

var travelModes = map[domain.TransportMode]maps.Mode{
	domain.TransportDriving:   maps.TravelModeDriving,
	domain.TransportWalking:   maps.TravelModeWalking,
	domain.TransportTransit:   maps.TravelModeTransit,
	domain.TransportBicycling: maps.TravelModeBicycling,
}

// GetDistance issues a single-element Distance Matrix request.
func (g *GoogleResolver) GetDistance(ctx context.Context, from, to domain.Coordinates, mode domain.TransportMode) (domain.RouteEstimate, error) {
	travelMode, ok := travelModes[mode]
	if !ok {
		return domain.RouteEstimate{}, fmt.Errorf("routing.GoogleResolver.GetDistance: mode %q: %w", mode, domain.ErrDistanceUnavailable)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{from.String()},
		Destinations: []string{to.String()},
		Mode:         travelMode,
	})
	if err != nil {
		return domain.RouteEstimate{}, fmt.Errorf("routing.GoogleResolver.GetDistance: %w: %w", domain.ErrDistanceUnavailable, err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return domain.RouteEstimate{}, fmt.Errorf("routing.GoogleResolver.GetDistance: empty response: %w", domain.ErrDistanceUnavailable)
	}

	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		return domain.RouteEstimate{}, fmt.Errorf("routing.GoogleResolver.GetDistance: element status %s: %w", el.Status, domain.ErrDistanceUnavailable)
	}

	seconds := int(el.Duration / time.Second)
	text := el.Distance.HumanReadable
	if text == "" {
		text = FormatDistance(el.Distance.Meters)
	}
	return domain.RouteEstimate{
		DistanceMeters:  el.Distance.Meters,
		DistanceText:    text,
		DurationSeconds: seconds,
		DurationText:    FormatDuration(seconds),
	}, nil
}
