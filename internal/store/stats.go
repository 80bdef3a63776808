package store

import (
	"database/sql"
	"fmt"
)

// Entity groupings are capped; calendar groupings are small by nature.
const topResultCap = 100

// EntityCount is one row of a ranked play-count list.
type EntityCount struct {
	ID         string
	Name       string
	SpotifyURL string
	Count      int64
}

// UnitCount is a play count for one calendar unit (hour of day, day of
// week, or month).
type UnitCount struct {
	Unit  int
	Count int64
}

// FeatureAverages is the per-unit mean of the audio-feature columns.
// Pointers are nil when no track in the group has features.
type FeatureAverages struct {
	Tempo    *float64
	Energy   *float64
	Valence  *float64
	Key      *float64
	Loudness *float64
}

// FeatureRow pairs a calendar unit with its feature averages.
type FeatureRow struct {
	Unit     int
	Averages FeatureAverages
}

// Calendar units map onto Play columns. day deliberately means day-of-week,
// matching the reporting surface.
var calendarUnitColumns = map[string]string{
	"hour":  "hour",
	"day":   "day_of_week",
	"month": "month",
}

func calendarColumn(unit string) (string, error) {
	column, ok := calendarUnitColumns[unit]
	if !ok {
		return "", fmt.Errorf("unknown calendar unit %q", unit)
	}
	return column, nil
}

// CountPerTrack ranks tracks by play count, descending, within
// [from, to) epoch-millisecond bounds.
func (s *Store) CountPerTrack(user string, from, to int64) ([]EntityCount, error) {
	query := `
	SELECT t.id, t.name, t.spotify_url, COUNT(*)
	FROM Play p
	INNER JOIN Track t ON t.id = p.track
	WHERE p.user = ? AND p.played_at_ms >= ? AND p.played_at_ms < ?
	GROUP BY t.id
	ORDER BY COUNT(*) DESC
	LIMIT ?
	`
	return s.queryEntityCounts(query, user, from, to)
}

// CountPerAlbum ranks albums by play count, descending.
func (s *Store) CountPerAlbum(user string, from, to int64) ([]EntityCount, error) {
	query := `
	SELECT a.id, a.name, a.spotify_url, COUNT(*)
	FROM Play p
	INNER JOIN Track t ON t.id = p.track
	INNER JOIN Album a ON a.id = t.album
	WHERE p.user = ? AND p.played_at_ms >= ? AND p.played_at_ms < ?
	GROUP BY a.id
	ORDER BY COUNT(*) DESC
	LIMIT ?
	`
	return s.queryEntityCounts(query, user, from, to)
}

// CountPerArtist ranks artists by play count, descending. A play counts
// once for every performing artist on its track.
func (s *Store) CountPerArtist(user string, from, to int64) ([]EntityCount, error) {
	query := `
	SELECT a.id, a.name, a.spotify_url, COUNT(*)
	FROM Play p
	INNER JOIN TrackArtist ta ON ta.track = p.track
	INNER JOIN Artist a ON a.id = ta.artist
	WHERE p.user = ? AND p.played_at_ms >= ? AND p.played_at_ms < ?
	GROUP BY a.id
	ORDER BY COUNT(*) DESC
	LIMIT ?
	`
	return s.queryEntityCounts(query, user, from, to)
}

func (s *Store) queryEntityCounts(query, user string, from, to int64) ([]EntityCount, error) {
	rows, err := s.db.Query(query, user, from, to, topResultCap)
	if err != nil {
		return nil, fmt.Errorf("querying play counts: %w", err)
	}
	defer rows.Close()

	var counts []EntityCount
	for rows.Next() {
		var c EntityCount
		if err := rows.Scan(&c.ID, &c.Name, &c.SpotifyURL, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountPerCalendarUnit counts plays grouped by hour, day (of week), or
// month, ascending by unit value.
func (s *Store) CountPerCalendarUnit(user, unit string, from, to int64) ([]UnitCount, error) {
	column, err := calendarColumn(unit)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
	SELECT %[1]s, COUNT(*)
	FROM Play
	WHERE user = ? AND played_at_ms >= ? AND played_at_ms < ?
	GROUP BY %[1]s
	ORDER BY %[1]s ASC
	`, column)

	rows, err := s.db.Query(query, user, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying counts per %s: %w", unit, err)
	}
	defer rows.Close()

	var counts []UnitCount
	for rows.Next() {
		var c UnitCount
		if err := rows.Scan(&c.Unit, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// AudioFeaturesPerCalendarUnit averages the feature columns of played
// tracks grouped by hour, day (of week), or month, ascending by unit value.
// SQL AVG skips NULLs, so tracks without features never distort a mean.
func (s *Store) AudioFeaturesPerCalendarUnit(user, unit string, from, to int64) ([]FeatureRow, error) {
	column, err := calendarColumn(unit)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
	SELECT p.%[1]s, AVG(t.tempo), AVG(t.energy), AVG(t.valence), AVG(t.key), AVG(t.loudness)
	FROM Play p
	INNER JOIN Track t ON t.id = p.track
	WHERE p.user = ? AND p.played_at_ms >= ? AND p.played_at_ms < ?
	GROUP BY p.%[1]s
	ORDER BY p.%[1]s ASC
	`, column)

	rows, err := s.db.Query(query, user, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying audio features per %s: %w", unit, err)
	}
	defer rows.Close()

	var result []FeatureRow
	for rows.Next() {
		var r FeatureRow
		var tempo, energy, valence, key, loudness sql.NullFloat64
		if err := rows.Scan(&r.Unit, &tempo, &energy, &valence, &key, &loudness); err != nil {
			return nil, err
		}
		r.Averages = FeatureAverages{
			Tempo:    nullableFloat(tempo),
			Energy:   nullableFloat(energy),
			Valence:  nullableFloat(valence),
			Key:      nullableFloat(key),
			Loudness: nullableFloat(loudness),
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
