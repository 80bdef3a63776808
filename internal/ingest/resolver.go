package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hoergewohnheiten/hoergewohnheiten/internal/spotify"
	"github.com/hoergewohnheiten/hoergewohnheiten/internal/store"
)

// Resolver is the get-or-fetch-and-cache layer for track, album, and
// artist metadata. The store is the cache: a hit is a pure read, a miss
// fetches from the API and persists exactly once before returning.
//
// Track, album, and artist rows are user-independent and immutable once
// created, so one Resolver is safely shared across sequential per-user
// runs.
type Resolver struct {
	store  *store.Store
	client Client
	log    zerolog.Logger
}

func NewResolver(st *store.Store, client Client, log zerolog.Logger) *Resolver {
	return &Resolver{store: st, client: client, log: log}
}

// Artist resolves an artist id, fetching and persisting on miss.
func (r *Resolver) Artist(ctx context.Context, id string) (*store.Artist, error) {
	cached, err := r.store.GetArtist(id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	payload, err := r.client.GetArtist(ctx, id)
	if err != nil {
		return nil, err
	}

	artist := &store.Artist{
		ID:         payload.ID,
		Name:       payload.Name,
		ImageURL:   largestImageURL(payload.Images),
		SpotifyURL: payload.ExternalURLs.Spotify,
		Genres:     payload.Genres,
	}
	if err := r.store.SaveArtist(artist); err != nil {
		return recoverDuplicateAs(err, func() (*store.Artist, error) { return r.store.GetArtist(id) })
	}
	r.log.Info().Str("artist", artist.Name).Msg("artist was not in database")
	return artist, nil
}

// Album resolves an album id. On miss the contributing artists are
// resolved first, in feed order, then the album itself is persisted.
func (r *Resolver) Album(ctx context.Context, id string) (*store.Album, error) {
	cached, err := r.store.GetAlbum(id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	payload, err := r.client.GetAlbum(ctx, id)
	if err != nil {
		return nil, err
	}

	artistIDs := make([]string, 0, len(payload.Artists))
	for _, ref := range payload.Artists {
		artist, err := r.Artist(ctx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("resolving album %s artist: %w", id, err)
		}
		artistIDs = append(artistIDs, artist.ID)
	}

	album := &store.Album{
		ID:         payload.ID,
		Name:       payload.Name,
		ImageURL:   largestImageURL(payload.Images),
		SpotifyURL: payload.ExternalURLs.Spotify,
		Label:      payload.Label,
		Genres:     payload.Genres,
		ArtistIDs:  artistIDs,
	}
	if err := r.store.SaveAlbum(album); err != nil {
		return recoverDuplicateAs(err, func() (*store.Album, error) { return r.store.GetAlbum(id) })
	}
	r.log.Info().Str("album", album.Name).Msg("album was not in database")
	return album, nil
}

// Track resolves a track id. On miss the album is resolved first (which in
// turn resolves its artists), then the performing artists, then the
// optional audio features, and only then is the track itself persisted.
func (r *Resolver) Track(ctx context.Context, id string) (*store.Track, error) {
	cached, err := r.store.GetTrack(id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	payload, err := r.client.GetTrack(ctx, id)
	if err != nil {
		return nil, err
	}

	album, err := r.Album(ctx, payload.Album.ID)
	if err != nil {
		return nil, fmt.Errorf("resolving track %s album: %w", id, err)
	}

	artistIDs := make([]string, 0, len(payload.Artists))
	for _, ref := range payload.Artists {
		artist, err := r.Artist(ctx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("resolving track %s artist: %w", id, err)
		}
		artistIDs = append(artistIDs, artist.ID)
	}

	// Some tracks do not have audio features; nil is a valid outcome.
	features, err := r.client.GetAudioFeatures(ctx, id)
	if err != nil {
		return nil, err
	}

	track := &store.Track{
		ID:         payload.ID,
		Name:       payload.Name,
		DurationMs: payload.DurationMs,
		SpotifyURL: payload.ExternalURLs.Spotify,
		AlbumID:    album.ID,
		ArtistIDs:  artistIDs,
	}
	if features != nil {
		track.Features = &store.AudioFeatures{
			Tempo:    features.Tempo,
			Energy:   features.Energy,
			Valence:  features.Valence,
			Key:      features.Key,
			Loudness: features.Loudness,
		}
	}
	if err := r.store.SaveTrack(track); err != nil {
		return recoverDuplicateAs(err, func() (*store.Track, error) { return r.store.GetTrack(id) })
	}
	r.log.Info().Str("track", track.Name).Msg("track was not in database")
	return track, nil
}

// recoverDuplicateAs turns a duplicate-key save into a re-read: the entity
// was stored by an earlier run, so the resolution already happened.
func recoverDuplicateAs[T any](err error, reread func() (*T, error)) (*T, error) {
	if !errors.Is(err, store.ErrDuplicate) {
		return nil, err
	}
	return reread()
}

// largestImageURL picks the widest rendition, matching how cover and
// portrait URLs are denormalized into entity rows.
func largestImageURL(images []spotify.Image) string {
	lastWidth := 0
	url := ""
	for _, image := range images {
		if image.Width > lastWidth {
			lastWidth = image.Width
			url = image.URL
		}
	}
	return url
}
