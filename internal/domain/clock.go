package domain

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time as minutes since midnight, in [0, 1440).
// Itinerary times do not track day rollover: arithmetic wraps at 24h.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from hour and minute, wrapping at 24h.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(0).Add(hour*60 + minute)
}

// ParseTimeOfDay parses "HH:MM" (24-hour clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid time of day %q, want HH:MM", ErrValidation, s)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

// Add returns t advanced by the given number of minutes, modulo 24h.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	m := (int(t) + minutes) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return TimeOfDay(m)
}

// Hour returns the hour component (0-23).
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component (0-59).
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// String formats t as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalText implements encoding.TextMarshaler so JSON carries "HH:MM".
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
