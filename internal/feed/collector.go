package feed

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/pders01/nyhet/internal/config"
	"github.com/pders01/nyhet/internal/debuglog"
	"github.com/pders01/nyhet/internal/storage"
)

const maxConcurrentFetch = 5

// Store is the persistence the collector needs.
type Store interface {
	GetFeed(id string) (*storage.Feed, error)
	SaveFeed(feed *storage.Feed) error
	SaveArticles(articles []*storage.Article) ([]*storage.Article, error)
}

// Collector fetches every configured feed and stores new articles.
type Collector struct {
	store   Store
	fetcher *Fetcher
	parser  *Parser
	sources []config.FeedSource
	mu      sync.Mutex
}

func NewCollector(store Store, cfg *config.Config) *Collector {
	return &Collector{
		store:   store,
		fetcher: NewFetcher(cfg),
		parser:  NewParser(),
		sources: cfg.Server.Feeds,
	}
}

// SetForceRefresh configures the collector to ignore ETag/Last-Modified.
func (c *Collector) SetForceRefresh(force bool) {
	c.fetcher.SetIgnoreCache(force)
}

func (c *Collector) Sources() []config.FeedSource {
	return c.sources
}

// CollectAll fetches all feeds concurrently and returns the articles that
// were new. A failing feed is logged and skipped; only cancellation of ctx
// is reported as an error.
func (c *Collector) CollectAll(ctx context.Context) ([]*storage.Article, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	debuglog.Infof("Collecting %d feeds", len(c.sources))

	srcChan := make(chan config.FeedSource, len(c.sources))
	for _, src := range c.sources {
		srcChan <- src
	}
	close(srcChan)

	var (
		wg       sync.WaitGroup
		resultMu sync.Mutex
		inserted []*storage.Article
		failed   int
	)
	for i := 0; i < maxConcurrentFetch && i < len(c.sources); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range srcChan {
				if ctx.Err() != nil {
					return
				}
				articles, err := c.CollectFeed(ctx, src)
				resultMu.Lock()
				if err != nil {
					failed++
					debuglog.WithFields(map[string]interface{}{
						"feed": src.Name,
						"url":  src.URL,
					}).Warnf("Feed collection failed: %v", err)
				} else {
					debuglog.Infof("%s: %d new articles", src.Name, len(articles))
					inserted = append(inserted, articles...)
				}
				resultMu.Unlock()
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return inserted, err
	}

	debuglog.Infof("Collection done in %s: %d new articles, %d feeds failed",
		time.Since(start).Round(time.Millisecond), len(inserted), failed)
	return inserted, nil
}

// CollectFeed fetches one feed and stores its new articles.
func (c *Collector) CollectFeed(ctx context.Context, src config.FeedSource) ([]*storage.Article, error) {
	id := FeedID(src.URL)
	feed, err := c.store.GetFeed(id)
	if err != nil {
		return nil, fmt.Errorf("loading feed state: %w", err)
	}
	if feed == nil {
		feed = &storage.Feed{ID: id, URL: src.URL}
	}
	feed.Name = src.Name
	feed.Category = src.Category

	resp, updated, err := c.fetcher.Fetch(ctx, feed)
	if err != nil {
		return nil, err
	}
	if !updated {
		feed.LastFetched = time.Now()
		if err := c.store.SaveFeed(feed); err != nil {
			return nil, fmt.Errorf("saving feed metadata: %w", err)
		}
		return nil, nil
	}
	defer resp.Body.Close()

	articles, err := c.parser.Parse(resp.Body, src)
	if err != nil {
		return nil, err
	}

	inserted, err := c.store.SaveArticles(articles)
	if err != nil {
		return nil, err
	}

	c.fetcher.UpdateFeedMetadata(feed, resp)
	if err := c.store.SaveFeed(feed); err != nil {
		return nil, fmt.Errorf("saving feed: %w", err)
	}
	return inserted, nil
}

// FeedID keys the conditional-GET state of a feed URL.
func FeedID(url string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(url)))
}
