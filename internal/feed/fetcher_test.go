package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/nyhet/internal/config"
	"github.com/pders01/nyhet/internal/storage"
)

func testFetcher() *Fetcher {
	cfg := config.TestConfig()
	cfg.Server.UserAgent = "nyhet-test/1.0"
	return NewFetcher(cfg)
}

func TestFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name           string
		feed           *storage.Feed
		serverResponse func(w http.ResponseWriter, r *http.Request)
		expectUpdated  bool
		expectError    bool
	}{
		{
			name: "successful fetch with new content",
			feed: &storage.Feed{ID: "test1"},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("User-Agent") != "nyhet-test/1.0" {
					t.Errorf("expected User-Agent nyhet-test/1.0, got %s", r.Header.Get("User-Agent"))
				}
				w.Header().Set("ETag", "\"123\"")
				w.Header().Set("Last-Modified", "Wed, 01 Jan 2025 00:00:00 GMT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("<rss></rss>"))
			},
			expectUpdated: true,
		},
		{
			name: "not modified response with ETag",
			feed: &storage.Feed{ID: "test2", ETag: "\"123\""},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("If-None-Match") != "\"123\"" {
					t.Errorf("expected If-None-Match \"123\", got %s", r.Header.Get("If-None-Match"))
				}
				w.WriteHeader(http.StatusNotModified)
			},
		},
		{
			name: "not modified response with Last-Modified",
			feed: &storage.Feed{ID: "test3", LastModified: "Wed, 01 Jan 2025 00:00:00 GMT"},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("If-Modified-Since") != "Wed, 01 Jan 2025 00:00:00 GMT" {
					t.Errorf("unexpected If-Modified-Since %q", r.Header.Get("If-Modified-Since"))
				}
				w.WriteHeader(http.StatusNotModified)
			},
		},
		{
			name: "server error",
			feed: &storage.Feed{ID: "test4"},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			tt.feed.URL = server.URL
			resp, updated, err := testFetcher().Fetch(context.Background(), tt.feed)
			if resp != nil {
				defer resp.Body.Close()
			}

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectUpdated, updated)
			assert.Equal(t, tt.expectUpdated, resp != nil)
		})
	}
}

func TestFetcher_IgnoreCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("If-None-Match"))
		assert.Empty(t, r.Header.Get("If-Modified-Since"))
		_, _ = w.Write([]byte("<rss></rss>"))
	}))
	defer server.Close()

	f := testFetcher()
	f.SetIgnoreCache(true)
	resp, updated, err := f.Fetch(context.Background(), &storage.Feed{
		URL:          server.URL,
		ETag:         "\"abc\"",
		LastModified: "Wed, 01 Jan 2025 00:00:00 GMT",
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.True(t, updated)
}

func TestFetcher_UpdateFeedMetadata(t *testing.T) {
	feed := &storage.Feed{}
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("ETag", "\"v2\"")
	resp.Header.Set("Last-Modified", "Thu, 02 Jan 2025 00:00:00 GMT")

	testFetcher().UpdateFeedMetadata(feed, resp)
	assert.Equal(t, "\"v2\"", feed.ETag)
	assert.Equal(t, "Thu, 02 Jan 2025 00:00:00 GMT", feed.LastModified)
	assert.False(t, feed.LastFetched.IsZero())
}
