package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	// No HTTP client override: requests go through the oauth2 transport so
	// the bearer token is actually attached.
	client := New(context.Background(), tokens, WithBaseURL(server.URL))
	return client, server
}

func TestGetTrack(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tracks/abc123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		w.Write([]byte(`{
			"id": "abc123",
			"name": "Paranoid Android",
			"duration_ms": 386000,
			"external_urls": {"spotify": "https://open.spotify.com/track/abc123"},
			"album": {"id": "alb1"},
			"artists": [{"id": "art1", "name": "Radiohead"}]
		}`))
	}))

	track, err := client.GetTrack(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetTrack: %v", err)
	}
	if track.Name != "Paranoid Android" {
		t.Errorf("Name = %q", track.Name)
	}
	if track.Album.ID != "alb1" {
		t.Errorf("Album.ID = %q", track.Album.ID)
	}
	if len(track.Artists) != 1 || track.Artists[0].ID != "art1" {
		t.Errorf("Artists = %v", track.Artists)
	}
}

func TestGetTrackRetriesServerErrors(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"id": "abc", "name": "Airbag", "album": {"id": "a"}}`))
	}))

	track, err := client.GetTrack(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetTrack: %v", err)
	}
	if track.Name != "Airbag" {
		t.Errorf("Name = %q", track.Name)
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3", requests)
	}
}

func TestGetTrackDoesNotRetryClientErrors(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"status": 403, "message": "bad scope"}}`))
	}))

	_, err := client.GetTrack(context.Background(), "abc")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Message != "bad scope" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1 (no retry on 4xx)", requests)
	}
}

func TestGetAudioFeaturesAbsent(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"status": 404, "message": "analysis not found"}}`))
	}))

	features, err := client.GetAudioFeatures(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetAudioFeatures: %v", err)
	}
	if features != nil {
		t.Errorf("features = %+v, want nil for absent analysis", features)
	}
}

func TestRecentlyPlayedCursor(t *testing.T) {
	var gotAfter, gotLimit string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAfter = r.URL.Query().Get("after")
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"items": [{"played_at": "2021-03-15T10:30:00.123Z", "track": {"id": "t1"}}]}`))
	}))

	after := int64(1615804200123)
	page, err := client.RecentlyPlayed(context.Background(), &after, 50)
	if err != nil {
		t.Fatalf("RecentlyPlayed: %v", err)
	}
	if gotAfter != "1615804200123" {
		t.Errorf("after = %q", gotAfter)
	}
	if gotLimit != "50" {
		t.Errorf("limit = %q", gotLimit)
	}
	if len(page.Items) != 1 || page.Items[0].Track.ID != "t1" {
		t.Errorf("Items = %v", page.Items)
	}
	if page.Next != "" {
		t.Errorf("Next = %q, want empty", page.Next)
	}
}
