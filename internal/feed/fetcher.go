package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pders01/nyhet/internal/config"
	"github.com/pders01/nyhet/internal/storage"
)

const defaultUserAgent = "nyhet/1.0 (RSS collector; github.com/pders01/nyhet)"

type Fetcher struct {
	client      *http.Client
	userAgent   string
	ignoreCache bool
}

func NewFetcher(cfg *config.Config) *Fetcher {
	timeout := cfg.Server.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ua := cfg.Server.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: ua,
	}
}

// SetIgnoreCache makes every fetch unconditional.
func (f *Fetcher) SetIgnoreCache(ignore bool) {
	f.ignoreCache = ignore
}

// Fetch requests feed.URL, sending the stored validators. updated is false
// when the server answered 304 Not Modified; resp is nil in that case.
func (f *Fetcher) Fetch(ctx context.Context, feed *storage.Feed) (resp *http.Response, updated bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	if !f.ignoreCache {
		if feed.ETag != "" {
			req.Header.Set("If-None-Match", feed.ETag)
		}
		if feed.LastModified != "" {
			req.Header.Set("If-Modified-Since", feed.LastModified)
		}
	}

	resp, err = f.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetching feed: %w", err)
	}

	if resp.StatusCode == http.StatusNotModified {
		resp.Body.Close()
		return nil, false, nil
	}

	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, false, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	return resp, true, nil
}

// UpdateFeedMetadata records the validators of a successful response.
func (f *Fetcher) UpdateFeedMetadata(feed *storage.Feed, resp *http.Response) {
	if etag := resp.Header.Get("ETag"); etag != "" {
		feed.ETag = etag
	}

	if lastMod := resp.Header.Get("Last-Modified"); lastMod != "" {
		feed.LastModified = lastMod
	}

	feed.LastFetched = time.Now()
}
