package storage

import (
	"time"
)

// Feed holds the conditional-GET state of one configured RSS feed.
type Feed struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"last_modified"`
	LastFetched  time.Time `json:"last_fetched"`
}

// Article is one collected news item.
type Article struct {
	ID            string    `json:"article_id"`
	Title         string    `json:"title"`
	Link          string    `json:"link"`
	Description   string    `json:"description"`
	PublishedDate time.Time `json:"published_date"`
	Source        string    `json:"source"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"image_url,omitempty"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Category string
	Source   string
}

func (f Filter) matches(a *Article) bool {
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	if f.Source != "" && a.Source != f.Source {
		return false
	}
	return true
}

// Count is one grouped aggregate row.
type Count struct {
	Name  string
	Count int
}

type Stats struct {
	TotalArticles int
	Sources       []Count
	Categories    []Count
	// LastUpdate is the newest FetchedAt, zero for an empty store.
	LastUpdate time.Time
}
