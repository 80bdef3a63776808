// Package spotify is a minimal client for the parts of the Spotify Web API
// the ingestion pipeline consumes: the recently-played feed and full
// track/album/artist/audio-feature lookups.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go"
	gojson "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"

	// Every request gets its own bounded deadline so a stalled call fails
	// instead of hanging the whole run.
	defaultTimeout = 10 * time.Second

	defaultAttempts = 3
)

// Client talks to the Web API. All requests pass through a shared rate
// limiter; 5xx responses are retried a bounded number of times, everything
// else propagates to the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	timeout    time.Duration
	attempts   uint
	log        zerolog.Logger
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the oauth2-derived HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAttempts sets how many times a 5xx response is attempted in total.
func WithAttempts(n uint) Option {
	return func(c *Client) { c.attempts = n }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New builds a client whose requests carry tokens from the given source.
// Token acquisition and refresh are oauth2's concern, not this package's.
func New(ctx context.Context, tokens oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		httpClient: oauth2.NewClient(ctx, tokens),
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(rate.Every(1*time.Second), 1),
		timeout:    defaultTimeout,
		attempts:   defaultAttempts,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RecentlyPlayed fetches the first page of the recently-played feed. after
// is the epoch-millisecond cursor; nil means the most recent window.
func (c *Client) RecentlyPlayed(ctx context.Context, after *int64, limit int) (RecentlyPlayedPage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if after != nil {
		params.Set("after", strconv.FormatInt(*after, 10))
	}

	var page RecentlyPlayedPage
	err := c.get(ctx, c.baseURL+"/me/player/recently-played?"+params.Encode(), &page)
	if err != nil {
		return RecentlyPlayedPage{}, fmt.Errorf("fetching recently played: %w", err)
	}
	return page, nil
}

// FollowPage fetches the continuation of a previous feed page. next is the
// absolute URL from RecentlyPlayedPage.Next.
func (c *Client) FollowPage(ctx context.Context, next string) (RecentlyPlayedPage, error) {
	var page RecentlyPlayedPage
	err := c.get(ctx, next, &page)
	if err != nil {
		return RecentlyPlayedPage{}, fmt.Errorf("following feed page: %w", err)
	}
	return page, nil
}

func (c *Client) GetTrack(ctx context.Context, id string) (*Track, error) {
	var track Track
	if err := c.get(ctx, c.baseURL+"/tracks/"+url.PathEscape(id), &track); err != nil {
		return nil, fmt.Errorf("fetching track %s: %w", id, err)
	}
	if track.ID == "" || track.Name == "" {
		return nil, fmt.Errorf("track %s: malformed payload", id)
	}
	return &track, nil
}

func (c *Client) GetAlbum(ctx context.Context, id string) (*Album, error) {
	var album Album
	if err := c.get(ctx, c.baseURL+"/albums/"+url.PathEscape(id), &album); err != nil {
		return nil, fmt.Errorf("fetching album %s: %w", id, err)
	}
	if album.ID == "" || album.Name == "" {
		return nil, fmt.Errorf("album %s: malformed payload", id)
	}
	return &album, nil
}

func (c *Client) GetArtist(ctx context.Context, id string) (*Artist, error) {
	var artist Artist
	if err := c.get(ctx, c.baseURL+"/artists/"+url.PathEscape(id), &artist); err != nil {
		return nil, fmt.Errorf("fetching artist %s: %w", id, err)
	}
	if artist.ID == "" || artist.Name == "" {
		return nil, fmt.Errorf("artist %s: malformed payload", id)
	}
	return &artist, nil
}

// GetAudioFeatures returns nil without error when the track has no audio
// features. Some tracks simply do not have them.
func (c *Client) GetAudioFeatures(ctx context.Context, id string) (*AudioFeatures, error) {
	var features AudioFeatures
	err := c.get(ctx, c.baseURL+"/audio-features/"+url.PathEscape(id), &features)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching audio features %s: %w", id, err)
	}
	return &features, nil
}

func (c *Client) get(ctx context.Context, requestURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	return retry.Do(
		func() error {
			return c.getOnce(ctx, requestURL, out)
		},
		retry.Attempts(c.attempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Status/100 == 5 {
				c.log.Warn().Int("status", apiErr.Status).Str("url", requestURL).
					Msg("spotify errored, retrying")
				return true
			}
			return false
		}),
	)
}

func (c *Client) getOnce(ctx context.Context, requestURL string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var parsed errorBody
		if gojson.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
			apiErr.Message = parsed.Error.Message
		}
		return apiErr
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := gojson.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
