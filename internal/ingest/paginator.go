package ingest

import (
	"context"
	"fmt"

	"github.com/hoergewohnheiten/hoergewohnheiten/internal/spotify"
)

// PlayEvent is one feed item: the raw played_at timestamp and the id of
// the track that was played.
type PlayEvent struct {
	PlayedAt string
	TrackID  string
}

// Paginator walks the cursor-paginated recently-played feed until
// exhaustion.
type Paginator struct {
	client   Client
	pageSize int
}

func NewPaginator(client Client, pageSize int) *Paginator {
	return &Paginator{client: client, pageSize: pageSize}
}

// FetchSince fetches every feed item newer than the given epoch-ms cursor
// (nil means the most recent window) and returns them flattened, in the
// feed's native newest-to-oldest order. Callers that need chronological
// order must reverse explicitly.
func (p *Paginator) FetchSince(ctx context.Context, after *int64) ([]PlayEvent, error) {
	page, err := p.client.RecentlyPlayed(ctx, after, p.pageSize)
	if err != nil {
		return nil, err
	}
	events := appendEvents(nil, page)

	for page.Next != "" {
		page, err = p.client.FollowPage(ctx, page.Next)
		if err != nil {
			return nil, fmt.Errorf("continuing feed: %w", err)
		}
		events = appendEvents(events, page)
	}

	return events, nil
}

func appendEvents(events []PlayEvent, page spotify.RecentlyPlayedPage) []PlayEvent {
	for _, item := range page.Items {
		events = append(events, PlayEvent{PlayedAt: item.PlayedAt, TrackID: item.Track.ID})
	}
	return events
}
