// Package timeutil converts feed timestamps into the canonical pair of
// instants (UTC and local) that play records are built from.
package timeutil

import (
	"fmt"
	"time"
)

// The feed emits played_at either with fractional seconds or, when a play
// lands exactly on a second boundary, without them. Both carry a trailing
// "Z" and are UTC.
var playedAtLayouts = []string{
	"2006-01-02T15:04:05.999Z",
	"2006-01-02T15:04:05Z",
}

// Normalized is a single feed timestamp expressed as a UTC instant, the
// same instant in the target zone, and the calendar fields derived from
// the local instant.
type Normalized struct {
	UTC   time.Time
	Local time.Time

	Day        int
	Month      int
	Year       int
	Hour       int
	Minute     int
	Second     int
	DayOfWeek  int // Monday: 0, Sunday: 6
	WeekOfYear int // ISO week
}

// Normalizer converts raw feed timestamps into a fixed target zone. The
// zone must be a named location, not a fixed offset, so daylight-saving
// transitions resolve against the zone database.
type Normalizer struct {
	zone *time.Location
}

func NewNormalizer(zone *time.Location) *Normalizer {
	return &Normalizer{zone: zone}
}

// Normalize parses raw, trying the fractional-seconds layout first and
// falling back to the whole-second layout. Calendar fields are always
// computed from the local instant, never from UTC, so hour and weekday
// boundaries reflect wall-clock time in the target zone.
func (n *Normalizer) Normalize(raw string) (Normalized, error) {
	utc, err := parsePlayedAt(raw)
	if err != nil {
		return Normalized{}, err
	}

	local := utc.In(n.zone)
	_, week := local.ISOWeek()

	return Normalized{
		UTC:        utc,
		Local:      local,
		Day:        local.Day(),
		Month:      int(local.Month()),
		Year:       local.Year(),
		Hour:       local.Hour(),
		Minute:     local.Minute(),
		Second:     local.Second(),
		DayOfWeek:  mondayIndexed(local.Weekday()),
		WeekOfYear: week,
	}, nil
}

func parsePlayedAt(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range playedAtLayouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parsing played_at %q: %w", raw, lastErr)
}

// mondayIndexed maps time.Weekday (Sunday = 0) to Monday = 0 .. Sunday = 6.
func mondayIndexed(d time.Weekday) int {
	return (int(d) + 6) % 7
}
