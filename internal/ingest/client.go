// Package ingest fetches the recently-played feed, resolves track metadata
// through a store-backed cache, and persists plays idempotently.
package ingest

import (
	"context"

	"github.com/hoergewohnheiten/hoergewohnheiten/internal/spotify"
)

// Client is the slice of the external API the pipeline consumes. Satisfied
// by *spotify.Client; tests substitute a mock.
type Client interface {
	RecentlyPlayed(ctx context.Context, after *int64, limit int) (spotify.RecentlyPlayedPage, error)
	FollowPage(ctx context.Context, next string) (spotify.RecentlyPlayedPage, error)
	GetTrack(ctx context.Context, id string) (*spotify.Track, error)
	GetAlbum(ctx context.Context, id string) (*spotify.Album, error)
	GetArtist(ctx context.Context, id string) (*spotify.Artist, error)
	GetAudioFeatures(ctx context.Context, id string) (*spotify.AudioFeatures, error)
}
