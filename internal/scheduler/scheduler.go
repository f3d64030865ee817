// Package scheduler runs feed collection periodically for the API server.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/pders01/nyhet/internal/debuglog"
	"github.com/pders01/nyhet/internal/search"
	"github.com/pders01/nyhet/internal/storage"
)

// Collector gathers new articles from the configured feeds.
type Collector interface {
	CollectAll(ctx context.Context) ([]*storage.Article, error)
}

type Scheduler struct {
	collector Collector
	interval  time.Duration
	listeners []search.UpdateListener
}

func New(collector Collector, interval time.Duration, listeners ...search.UpdateListener) *Scheduler {
	return &Scheduler{
		collector: collector,
		interval:  interval,
		listeners: listeners,
	}
}

// RunOnce performs one collection and notifies listeners of new articles.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	debuglog.Infof("Starting scheduled news collection")
	articles, err := s.collector.CollectAll(ctx)
	if err != nil {
		return len(articles), err
	}
	for _, l := range s.listeners {
		if err := l.OnArticlesAdded(articles); err != nil {
			debuglog.Errorf("Indexing %d new articles failed: %v", len(articles), err)
		}
	}
	debuglog.Infof("News collection done: %d new articles", len(articles))
	return len(articles), nil
}

// Run collects immediately and then every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		debuglog.Errorf("News collection failed: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	debuglog.Infof("Scheduler started, collecting every %s", s.interval)

	for {
		select {
		case <-ctx.Done():
			debuglog.Infof("Scheduler stopped")
			return nil
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				debuglog.Errorf("News collection failed: %v", err)
			}
		}
	}
}
