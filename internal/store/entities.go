package store

import (
	"database/sql"
	"fmt"
)

// GetArtist returns nil without error when the artist is not stored.
func (s *Store) GetArtist(id string) (*Artist, error) {
	row := s.db.QueryRow("SELECT id, name, image_url, spotify_url, genres FROM Artist WHERE id = ?", id)

	var a Artist
	var genres string
	err := row.Scan(&a.ID, &a.Name, &a.ImageURL, &a.SpotifyURL, &genres)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting artist %q: %w", id, err)
	}
	a.Genres = splitGenres(genres)
	return &a, nil
}

func (s *Store) SaveArtist(artist *Artist) error {
	_, err := s.db.Exec(
		"INSERT INTO Artist (id, name, image_url, spotify_url, genres) VALUES (?, ?, ?, ?, ?)",
		artist.ID, artist.Name, artist.ImageURL, artist.SpotifyURL, joinGenres(artist.Genres))
	if err != nil {
		return fmt.Errorf("inserting artist %q: %w", artist.ID, translateErr(err))
	}
	return nil
}

// GetAlbum returns nil without error when the album is not stored. Artist
// ids come back in the order they were saved.
func (s *Store) GetAlbum(id string) (*Album, error) {
	row := s.db.QueryRow("SELECT id, name, image_url, spotify_url, label, genres FROM Album WHERE id = ?", id)

	var a Album
	var genres string
	err := row.Scan(&a.ID, &a.Name, &a.ImageURL, &a.SpotifyURL, &a.Label, &genres)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting album %q: %w", id, err)
	}
	a.Genres = splitGenres(genres)

	a.ArtistIDs, err = s.linkedArtists("SELECT artist FROM AlbumArtist WHERE album = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("getting album %q artists: %w", id, err)
	}
	return &a, nil
}

func (s *Store) SaveAlbum(album *Album) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO Album (id, name, image_url, spotify_url, label, genres) VALUES (?, ?, ?, ?, ?, ?)",
		album.ID, album.Name, album.ImageURL, album.SpotifyURL, album.Label, joinGenres(album.Genres))
	if err != nil {
		return fmt.Errorf("inserting album %q: %w", album.ID, translateErr(err))
	}

	for i, artistID := range album.ArtistIDs {
		_, err = tx.Exec("INSERT INTO AlbumArtist (album, artist, position) VALUES (?, ?, ?)",
			album.ID, artistID, i)
		if err != nil {
			return fmt.Errorf("linking artist %q to album %q: %w", artistID, album.ID, translateErr(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing album %q: %w", album.ID, err)
	}
	return nil
}

// GetTrack returns nil without error when the track is not stored.
func (s *Store) GetTrack(id string) (*Track, error) {
	row := s.db.QueryRow(
		"SELECT id, name, duration_ms, spotify_url, album, tempo, energy, valence, key, loudness FROM Track WHERE id = ?", id)

	var t Track
	var tempo, energy, valence, loudness sql.NullFloat64
	var key sql.NullInt64
	err := row.Scan(&t.ID, &t.Name, &t.DurationMs, &t.SpotifyURL, &t.AlbumID,
		&tempo, &energy, &valence, &key, &loudness)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting track %q: %w", id, err)
	}

	// The five feature columns are written together, so tempo stands in for
	// all of them.
	if tempo.Valid {
		t.Features = &AudioFeatures{
			Tempo:    tempo.Float64,
			Energy:   energy.Float64,
			Valence:  valence.Float64,
			Key:      int(key.Int64),
			Loudness: loudness.Float64,
		}
	}

	t.ArtistIDs, err = s.linkedArtists("SELECT artist FROM TrackArtist WHERE track = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("getting track %q artists: %w", id, err)
	}
	return &t, nil
}

func (s *Store) SaveTrack(track *Track) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var tempo, energy, valence, loudness sql.NullFloat64
	var key sql.NullInt64
	if track.Features != nil {
		tempo = sql.NullFloat64{Float64: track.Features.Tempo, Valid: true}
		energy = sql.NullFloat64{Float64: track.Features.Energy, Valid: true}
		valence = sql.NullFloat64{Float64: track.Features.Valence, Valid: true}
		key = sql.NullInt64{Int64: int64(track.Features.Key), Valid: true}
		loudness = sql.NullFloat64{Float64: track.Features.Loudness, Valid: true}
	}

	_, err = tx.Exec(
		`INSERT INTO Track (id, name, duration_ms, spotify_url, album, tempo, energy, valence, key, loudness)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		track.ID, track.Name, track.DurationMs, track.SpotifyURL, track.AlbumID,
		tempo, energy, valence, key, loudness)
	if err != nil {
		return fmt.Errorf("inserting track %q: %w", track.ID, translateErr(err))
	}

	for i, artistID := range track.ArtistIDs {
		_, err = tx.Exec("INSERT INTO TrackArtist (track, artist, position) VALUES (?, ?, ?)",
			track.ID, artistID, i)
		if err != nil {
			return fmt.Errorf("linking artist %q to track %q: %w", artistID, track.ID, translateErr(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing track %q: %w", track.ID, err)
	}
	return nil
}

func (s *Store) linkedArtists(query, id string) ([]string, error) {
	rows, err := s.db.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var artistID string
		if err := rows.Scan(&artistID); err != nil {
			return nil, err
		}
		ids = append(ids, artistID)
	}
	return ids, rows.Err()
}
