package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/nyhet/internal/config"
	"github.com/pders01/nyhet/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCollector_CollectAll(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/svt.xml", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == "\"v1\"" {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", "\"v1\"")
		_, _ = w.Write([]byte(rssFixture))
	})
	mux.HandleFunc("/broken.xml", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := config.TestConfig()
	cfg.Server.Feeds = []config.FeedSource{
		{Name: "SVT Nyheter", URL: server.URL + "/svt.xml", Category: "allmänt"},
		{Name: "Trasig", URL: server.URL + "/broken.xml", Category: "tech"},
	}
	store := newTestStore(t)
	c := NewCollector(store, cfg)

	inserted, err := c.CollectAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, inserted, 4)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalArticles)

	feed, err := store.GetFeed(FeedID(server.URL + "/svt.xml"))
	require.NoError(t, err)
	require.NotNil(t, feed)
	assert.Equal(t, "\"v1\"", feed.ETag)

	// second run is answered with 304 and inserts nothing
	inserted, err = c.CollectAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, inserted)
	assert.Equal(t, int32(2), hits.Load())

	// forcing a refresh re-downloads, but known articles are not re-inserted
	c.SetForceRefresh(true)
	inserted, err = c.CollectAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, inserted)
	assert.Equal(t, int32(3), hits.Load())
}

func TestCollector_Cancelled(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Server.Feeds = []config.FeedSource{{Name: "x", URL: "http://127.0.0.1:1/feed", Category: "tech"}}
	c := NewCollector(newTestStore(t), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.CollectAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollector_Sources(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Server.Feeds = config.DefaultFeeds()
	c := NewCollector(newTestStore(t), cfg)
	assert.Len(t, c.Sources(), 8)
}

func TestFeedID(t *testing.T) {
	assert.Equal(t, FeedID("https://a.se/rss"), FeedID("https://a.se/rss"))
	assert.Len(t, FeedID("https://a.se/rss"), 64)
}
