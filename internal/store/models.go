package store

import "time"

// Artist is stored artist metadata. Immutable once created.
type Artist struct {
	ID         string
	Name       string
	ImageURL   string
	SpotifyURL string
	Genres     []string
}

// Album is stored album metadata with its contributing artists in feed
// order. Immutable once created.
type Album struct {
	ID         string
	Name       string
	ImageURL   string
	SpotifyURL string
	Label      string
	Genres     []string
	ArtistIDs  []string
}

// AudioFeatures is the audio analysis summary of a track. A nil
// *AudioFeatures on Track means the source has none for this track.
type AudioFeatures struct {
	Tempo    float64
	Energy   float64
	Valence  float64
	Key      int
	Loudness float64
}

// Track is stored track metadata. AlbumID and ArtistIDs are set at
// creation and never change.
type Track struct {
	ID         string
	Name       string
	DurationMs int
	SpotifyURL string
	AlbumID    string
	ArtistIDs  []string
	Features   *AudioFeatures
}

// Play is one listening event. PlayedAtMs is the UTC instant as epoch
// milliseconds and forms the primary key together with User.
type Play struct {
	User          string
	PlayedAtMs    int64
	PlayedAtUTC   time.Time
	PlayedAtLocal time.Time
	Day           int
	Month         int
	Year          int
	Hour          int
	Minute        int
	Second        int
	DayOfWeek     int // Monday: 0, Sunday: 6
	WeekOfYear    int
	TrackID       string
}
