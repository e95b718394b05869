package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String formats the point as "lat,lng", the form routing providers accept.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// Place is a geocoded point of interest referenced by itinerary items.
// Location is nil when the place has not been geocoded.
type Place struct {
	ID        uuid.UUID
	Name      string
	Address   string
	Location  *Coordinates
	CreatedAt time.Time
}
