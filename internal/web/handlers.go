package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hoergewohnheiten/hoergewohnheiten/internal/store"
)

const latestPlaysLimit = 20

var entityUnits = map[string]bool{"track": true, "album": true, "artist": true}
var calendarUnits = map[string]bool{"hour": true, "day": true, "month": true}

type playJSON struct {
	PlayedAtUTC   string `json:"played_at_utc"`
	PlayedAtLocal string `json:"played_at_local"`
	TrackID       string `json:"track_id"`
	TrackName     string `json:"track_name"`
	SpotifyURL    string `json:"spotify_url"`
}

func (s *Server) handleLatestPlays(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")

	plays, err := s.store.LatestPlays(user, latestPlaysLimit)
	if err != nil {
		s.log.Error().Err(err).Str("user", user).Msg("loading latest plays")
		s.writeError(w, http.StatusInternalServerError, "loading plays failed")
		return
	}

	data := make([]playJSON, 0, len(plays))
	for _, p := range plays {
		data = append(data, playJSON{
			PlayedAtUTC:   p.PlayedAtUTC.Format(time.RFC3339),
			PlayedAtLocal: p.PlayedAtLocal.Format(time.RFC3339),
			TrackID:       p.TrackID,
			TrackName:     p.TrackName,
			SpotifyURL:    p.TrackSpotifyURL,
		})
	}

	s.writeJSON(w, http.StatusOK, envelope{
		Meta: meta{UserName: user, Resource: "plays"},
		Data: data,
	})
}

type entityCountJSON struct {
	Count      int64  `json:"count"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	SpotifyURL string `json:"spotify_url"`
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	unit := chi.URLParam(r, "unit")

	rng, err := s.parseDateRange(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "dates must use the YYYY-MM-DD format")
		return
	}

	var data any
	switch {
	case entityUnits[unit]:
		data, err = s.entityCounts(user, unit, rng)
	case calendarUnits[unit]:
		data, err = s.calendarCounts(user, unit, rng)
	default:
		s.writeError(w, http.StatusNotFound, "unknown unit "+unit)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("user", user).Str("unit", unit).Msg("counting plays")
		s.writeError(w, http.StatusInternalServerError, "counting plays failed")
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		Meta: meta{
			UserName: user,
			Resource: "counts",
			Unit:     unit,
			FromDate: rng.fromDate,
			ToDate:   rng.toDate,
		},
		Data: data,
	})
}

func (s *Server) entityCounts(user, unit string, rng dateRange) ([]entityCountJSON, error) {
	var counts []store.EntityCount
	var err error
	switch unit {
	case "track":
		counts, err = s.store.CountPerTrack(user, rng.fromMs, rng.toMs)
	case "album":
		counts, err = s.store.CountPerAlbum(user, rng.fromMs, rng.toMs)
	case "artist":
		counts, err = s.store.CountPerArtist(user, rng.fromMs, rng.toMs)
	}
	if err != nil {
		return nil, err
	}

	data := make([]entityCountJSON, 0, len(counts))
	for _, c := range counts {
		data = append(data, entityCountJSON{
			Count:      c.Count,
			ID:         c.ID,
			Name:       c.Name,
			SpotifyURL: c.SpotifyURL,
		})
	}
	return data, nil
}

func (s *Server) calendarCounts(user, unit string, rng dateRange) (map[int]int64, error) {
	counts, err := s.store.CountPerCalendarUnit(user, unit, rng.fromMs, rng.toMs)
	if err != nil {
		return nil, err
	}

	data := make(map[int]int64, len(counts))
	for _, c := range counts {
		data[c.Unit] = c.Count
	}
	return data, nil
}

type featureJSON struct {
	Tempo    *float64 `json:"tempo"`
	Energy   *float64 `json:"energy"`
	Valence  *float64 `json:"valence"`
	Key      *float64 `json:"key"`
	Loudness *float64 `json:"loudness"`
}

func (s *Server) handleAudioFeatures(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	unit := chi.URLParam(r, "unit")

	if !calendarUnits[unit] {
		s.writeError(w, http.StatusNotFound, "unknown unit "+unit)
		return
	}
	rng, err := s.parseDateRange(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "dates must use the YYYY-MM-DD format")
		return
	}

	rows, err := s.store.AudioFeaturesPerCalendarUnit(user, unit, rng.fromMs, rng.toMs)
	if err != nil {
		s.log.Error().Err(err).Str("user", user).Str("unit", unit).Msg("averaging audio features")
		s.writeError(w, http.StatusInternalServerError, "averaging audio features failed")
		return
	}

	data := make(map[int]featureJSON, len(rows))
	for _, row := range rows {
		data[row.Unit] = featureJSON{
			Tempo:    row.Averages.Tempo,
			Energy:   row.Averages.Energy,
			Valence:  row.Averages.Valence,
			Key:      row.Averages.Key,
			Loudness: row.Averages.Loudness,
		}
	}

	s.writeJSON(w, http.StatusOK, envelope{
		Meta: meta{
			UserName: user,
			Resource: "audio-features",
			Unit:     unit,
			FromDate: rng.fromDate,
			ToDate:   rng.toDate,
		},
		Data: data,
	})
}
