// Package web serves the listening statistics as a small JSON API.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/hoergewohnheiten/hoergewohnheiten/internal/store"
)

// Reports default to everything since the listening history began.
var defaultFromDate = "2017-08-01"

const dateLayout = "2006-01-02"

type Server struct {
	store *store.Store
	zone  *time.Location
	log   zerolog.Logger
}

func NewServer(st *store.Store, zone *time.Location, log zerolog.Logger) *Server {
	return &Server{store: st, zone: zone, log: log}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(allowAllOrigins)

	r.Route("/users/{user}", func(r chi.Router) {
		r.Get("/plays", s.handleLatestPlays)
		r.Get("/counts/{unit}", s.handleCounts)
		r.Get("/audio-features/{unit}", s.handleAudioFeatures)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func allowAllOrigins(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// meta echoes the request parameters back alongside every data payload.
type meta struct {
	UserName string `json:"user_name"`
	Resource string `json:"resource"`
	Unit     string `json:"unit,omitempty"`
	FromDate string `json:"from_date,omitempty"`
	ToDate   string `json:"to_date,omitempty"`
}

type envelope struct {
	Meta meta `json:"meta"`
	Data any  `json:"data"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("encoding response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// dateRange reads the from/to query parameters, interpreted as local
// calendar dates in the configured zone. The upper bound is exclusive and
// one day past "to" so the named day is fully included.
type dateRange struct {
	fromDate string
	toDate   string
	fromMs   int64
	toMs     int64
}

func (s *Server) parseDateRange(r *http.Request) (dateRange, error) {
	fromDate := r.URL.Query().Get("from")
	if fromDate == "" {
		fromDate = defaultFromDate
	}
	toDate := r.URL.Query().Get("to")
	if toDate == "" {
		toDate = time.Now().In(s.zone).Format(dateLayout)
	}

	from, err := time.ParseInLocation(dateLayout, fromDate, s.zone)
	if err != nil {
		return dateRange{}, err
	}
	to, err := time.ParseInLocation(dateLayout, toDate, s.zone)
	if err != nil {
		return dateRange{}, err
	}

	return dateRange{
		fromDate: fromDate,
		toDate:   toDate,
		fromMs:   from.UnixMilli(),
		toMs:     to.AddDate(0, 0, 1).UnixMilli(),
	}, nil
}
