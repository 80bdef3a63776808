package spotify

import "fmt"

// ExternalURLs carries the public profile links of an entity. Only the
// Spotify link is used.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// Image is one rendition of an entity's cover or portrait.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ArtistRef is the abbreviated artist object embedded in album and track
// payloads. Full metadata requires a follow-up GetArtist call.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AlbumRef is the abbreviated album object embedded in track payloads.
type AlbumRef struct {
	ID string `json:"id"`
}

// Artist is the full artist payload.
type Artist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Genres       []string     `json:"genres"`
	Images       []Image      `json:"images"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Album is the full album payload.
type Album struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Label        string       `json:"label"`
	Genres       []string     `json:"genres"`
	Images       []Image      `json:"images"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Artists      []ArtistRef  `json:"artists"`
}

// Track is the full track payload.
type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	DurationMs   int          `json:"duration_ms"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Album        AlbumRef     `json:"album"`
	Artists      []ArtistRef  `json:"artists"`
}

// AudioFeatures is the audio analysis summary of a track. Not every track
// has one; absence is reported as a nil *AudioFeatures, not an error.
type AudioFeatures struct {
	Tempo    float64 `json:"tempo"`
	Energy   float64 `json:"energy"`
	Valence  float64 `json:"valence"`
	Key      int     `json:"key"`
	Loudness float64 `json:"loudness"`
}

// RecentlyPlayedItem is one feed event: an instant and the track played.
type RecentlyPlayedItem struct {
	PlayedAt string `json:"played_at"`
	Track    struct {
		ID string `json:"id"`
	} `json:"track"`
}

// RecentlyPlayedPage is one page of the recently-played feed. A non-empty
// Next is the continuation URL for the following page; an empty Next means
// the feed is exhausted.
type RecentlyPlayedPage struct {
	Items []RecentlyPlayedItem `json:"items"`
	Next  string               `json:"next"`
}

// APIError is a non-2xx response from the Web API.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify: %d %s", e.Status, e.Message)
}

type errorBody struct {
	Error APIError `json:"error"`
}
