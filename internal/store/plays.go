package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SavePlay inserts one play. A play that already exists (same user, same
// UTC-millisecond timestamp) yields ErrDuplicate.
func (s *Store) SavePlay(play *Play) error {
	_, err := s.db.Exec(
		`INSERT INTO Play (user, played_at_ms, played_at_utc, played_at_local,
		   day, month, year, hour, minute, second, day_of_week, week_of_year, track)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		play.User, play.PlayedAtMs, play.PlayedAtUTC, play.PlayedAtLocal,
		play.Day, play.Month, play.Year, play.Hour, play.Minute, play.Second,
		play.DayOfWeek, play.WeekOfYear, play.TrackID)
	if err != nil {
		return fmt.Errorf("inserting play %d for %q: %w", play.PlayedAtMs, play.User, translateErr(err))
	}
	return nil
}

// MostRecentPlayTimestamp returns the pagination cursor: the newest
// persisted play instant for the user as epoch milliseconds. ok is false
// when the user has no plays yet.
func (s *Store) MostRecentPlayTimestamp(user string) (ms int64, ok bool, err error) {
	row := s.db.QueryRow("SELECT MAX(played_at_ms) FROM Play WHERE user = ?", user)

	var latest sql.NullInt64
	if err := row.Scan(&latest); err != nil {
		return 0, false, fmt.Errorf("getting most recent play for %q: %w", user, err)
	}
	if !latest.Valid {
		return 0, false, nil
	}
	return latest.Int64, true, nil
}

// PlayWithTrack is a play joined with the basics of its track for display.
type PlayWithTrack struct {
	Play
	TrackName       string
	TrackSpotifyURL string
}

// LatestPlays returns the user's newest plays, most recent first.
func (s *Store) LatestPlays(user string, limit int) ([]PlayWithTrack, error) {
	query := `
	SELECT p.user, p.played_at_ms, p.played_at_utc, p.played_at_local,
	       p.day, p.month, p.year, p.hour, p.minute, p.second,
	       p.day_of_week, p.week_of_year, p.track, t.name, t.spotify_url
	FROM Play p
	INNER JOIN Track t ON t.id = p.track
	WHERE p.user = ?
	ORDER BY p.played_at_ms DESC
	LIMIT ?
	`
	rows, err := s.db.Query(query, user, limit)
	if err != nil {
		return nil, fmt.Errorf("querying latest plays: %w", err)
	}
	defer rows.Close()

	var plays []PlayWithTrack
	for rows.Next() {
		var p PlayWithTrack
		err := rows.Scan(&p.User, &p.PlayedAtMs, &p.PlayedAtUTC, &p.PlayedAtLocal,
			&p.Day, &p.Month, &p.Year, &p.Hour, &p.Minute, &p.Second,
			&p.DayOfWeek, &p.WeekOfYear, &p.TrackID, &p.TrackName, &p.TrackSpotifyURL)
		if err != nil {
			return nil, err
		}
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

// PlaysInMonth returns the user's plays for one local calendar month,
// oldest first. Used by the CSV exporter, whose files are append-only and
// chronological.
func (s *Store) PlaysInMonth(user string, year, month int) ([]Play, error) {
	query := `
	SELECT user, played_at_ms, played_at_utc, played_at_local,
	       day, month, year, hour, minute, second, day_of_week, week_of_year, track
	FROM Play
	WHERE user = ? AND year = ? AND month = ?
	ORDER BY played_at_ms ASC
	`
	rows, err := s.db.Query(query, user, year, month)
	if err != nil {
		return nil, fmt.Errorf("querying plays in range: %w", err)
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var p Play
		err := rows.Scan(&p.User, &p.PlayedAtMs, &p.PlayedAtUTC, &p.PlayedAtLocal,
			&p.Day, &p.Month, &p.Year, &p.Hour, &p.Minute, &p.Second,
			&p.DayOfWeek, &p.WeekOfYear, &p.TrackID)
		if err != nil {
			return nil, err
		}
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

// PlayedMonths returns the distinct local calendar months that have plays,
// ascending. Used to decide which monthly CSV files to write.
func (s *Store) PlayedMonths(user string) ([]time.Time, error) {
	query := `
	SELECT DISTINCT year, month FROM Play WHERE user = ? ORDER BY year, month
	`
	rows, err := s.db.Query(query, user)
	if err != nil {
		return nil, fmt.Errorf("querying played months: %w", err)
	}
	defer rows.Close()

	var months []time.Time
	for rows.Next() {
		var year, month int
		if err := rows.Scan(&year, &month); err != nil {
			return nil, err
		}
		months = append(months, time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
	}
	return months, rows.Err()
}
