package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/nyhet/internal/api"
	"github.com/pders01/nyhet/internal/browse"
	"github.com/pders01/nyhet/internal/config"
	"github.com/pders01/nyhet/internal/feed"
	"github.com/pders01/nyhet/internal/scheduler"
	"github.com/pders01/nyhet/internal/search"
	"github.com/pders01/nyhet/internal/server"
	"github.com/pders01/nyhet/internal/storage"
)

const svtFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/"><channel><title>SVT</title>
<item><title>Regeringen presenterar budgeten</title><link>https://svt.test/budget</link>
<description>&lt;p&gt;Satsningar på &lt;b&gt;försvar&lt;/b&gt;&lt;/p&gt;</description>
<media:content url="https://svt.test/img/budget.jpg" medium="image"/>
<pubDate>Mon, 10 Mar 2025 09:00:00 +0000</pubDate></item>
<item><title>Snöoväder i norr</title><link>https://svt.test/sno</link>
<description>Trafiken står still</description><pubDate>Mon, 10 Mar 2025 08:00:00 +0000</pubDate></item>
</channel></rss>`

const breakitFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Breakit</title>
<item><title>Bolaget tar in kapital inför budgetåret</title><link>https://breakit.test/kapital</link>
<description>Miljonrunda</description><pubDate>Mon, 10 Mar 2025 10:00:00 +0000</pubDate></item>
</channel></rss>`

// TestPipeline runs a collection against local feeds and reads the result
// back through the API the browser uses.
func TestPipeline(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/svt.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(svtFeed))
	})
	mux.HandleFunc("/breakit.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(breakitFeed))
	})
	feeds := httptest.NewServer(mux)
	defer feeds.Close()

	cfg := config.TestConfig()
	cfg.Server.Feeds = []config.FeedSource{
		{Name: "SVT Nyheter", URL: feeds.URL + "/svt.xml", Category: "allmänt"},
		{Name: "Breakit", URL: feeds.URL + "/breakit.xml", Category: "tech"},
	}

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "nyhet.db"))
	require.NoError(t, err)
	defer store.Close()

	idx, err := search.NewBleveIndex()
	require.NoError(t, err)
	defer idx.Close()

	sched := scheduler.New(feed.NewCollector(store, cfg), cfg.Server.FetchInterval, idx)
	added, err := sched.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, added)

	added, err = sched.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, added, "a second run inserts nothing new")

	ts := httptest.NewServer(server.New(store, idx, nil).Routes())
	defer ts.Close()
	cfg.API.BaseURL = ts.URL
	client, err := api.NewClient(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	vocab, err := client.Vocabulary(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"allmänt", "tech"}, vocab.Categories)
	assert.Equal(t, []string{"Breakit", "SVT Nyheter"}, vocab.Sources)

	state := browse.New()
	page, err := client.Page(ctx, browse.Request(state, cfg.API.PerPage))
	require.NoError(t, err)
	require.Len(t, page.Articles, 3)
	assert.Equal(t, "Bolaget tar in kapital inför budgetåret", page.Articles[0].Title, "newest first")
	assert.Equal(t, "https://svt.test/img/budget.jpg", page.Articles[1].ImageURL)
	assert.Equal(t, 1, page.TotalPages)

	state, _ = browse.Reduce(state, browse.SelectCategory{Category: "allmänt"})
	page, err = client.Page(ctx, browse.Request(state, cfg.API.PerPage))
	require.NoError(t, err)
	assert.Len(t, page.Articles, 2)

	state, _ = browse.Reduce(state, browse.Search{Input: "budget"})
	assert.Equal(t, api.AllCategories, state.Category)
	page, err = client.Page(ctx, browse.Request(state, cfg.API.PerPage))
	require.NoError(t, err)
	require.Len(t, page.Articles, 2)
	assert.Equal(t, "https://breakit.test/kapital", page.Articles[0].Link)
	assert.Equal(t, "https://svt.test/budget", page.Articles[1].Link)

	stats, err := client.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalArticles)
	require.NotNil(t, stats.LastUpdate)
	assert.False(t, stats.LastUpdate.IsZero())

	health, err := client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
}
