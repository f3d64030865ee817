package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	feedsBucket    = []byte("feeds")
	articlesBucket = []byte("articles")
)

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{feedsBucket, articlesBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database can serve a read transaction.
func (s *Store) Ping() error {
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(articlesBucket) == nil {
			return fmt.Errorf("articles bucket missing")
		}
		return nil
	})
}

func (s *Store) SaveFeed(feed *Feed) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(feedsBucket)
		data, err := json.Marshal(feed)
		if err != nil {
			return err
		}
		return b.Put([]byte(feed.ID), data)
	})
}

// GetFeed returns the stored state for id, or nil when none exists yet.
func (s *Store) GetFeed(id string) (*Feed, error) {
	var feed *Feed
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(feedsBucket).Get([]byte(id))
		if data == nil {
			return nil
		}
		feed = &Feed{}
		return json.Unmarshal(data, feed)
	})
	return feed, err
}

// SaveArticles stores articles whose ID is not yet known and returns the
// ones that were inserted. Existing articles are left untouched.
func (s *Store) SaveArticles(articles []*Article) ([]*Article, error) {
	var inserted []*Article
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		for _, article := range articles {
			if article.ID == "" {
				continue
			}
			key := []byte(article.ID)
			if b.Get(key) != nil {
				continue
			}
			data, err := json.Marshal(article)
			if err != nil {
				return err
			}
			if err := b.Put(key, data); err != nil {
				return err
			}
			inserted = append(inserted, article)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("saving articles: %w", err)
	}
	return inserted, nil
}

// All returns every stored article, newest first.
func (s *Store) All() ([]*Article, error) {
	return s.scan(Filter{})
}

// Page returns one page of articles matching f, newest first, together
// with the total number of matches.
func (s *Store) Page(f Filter, page, perPage int) ([]*Article, int, error) {
	articles, err := s.scan(f)
	if err != nil {
		return nil, 0, err
	}
	return paginate(articles, page, perPage), len(articles), nil
}

// Get returns the articles for ids in the given order, skipping unknown ids.
func (s *Store) Get(ids []string) ([]*Article, error) {
	articles := make([]*Article, 0, len(ids))
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		for _, id := range ids {
			data := b.Get([]byte(id))
			if data == nil {
				continue
			}
			var article Article
			if err := json.Unmarshal(data, &article); err != nil {
				return fmt.Errorf("decoding article %s: %w", id, err)
			}
			articles = append(articles, &article)
		}
		return nil
	})
	return articles, err
}

// Categories returns the distinct categories, sorted.
func (s *Store) Categories() ([]string, error) {
	return s.distinct(func(a *Article) string { return a.Category })
}

// Sources returns the distinct sources, sorted.
func (s *Store) Sources() ([]string, error) {
	return s.distinct(func(a *Article) string { return a.Source })
}

func (s *Store) Stats() (*Stats, error) {
	articles, err := s.scan(Filter{})
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalArticles: len(articles)}
	bySource := make(map[string]int)
	byCategory := make(map[string]int)
	for _, a := range articles {
		bySource[a.Source]++
		byCategory[a.Category]++
		if a.FetchedAt.After(stats.LastUpdate) {
			stats.LastUpdate = a.FetchedAt
		}
	}
	stats.Sources = sortedCounts(bySource)
	stats.Categories = sortedCounts(byCategory)
	return stats, nil
}

func (s *Store) scan(f Filter) ([]*Article, error) {
	var articles []*Article
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var article Article
			if err := json.Unmarshal(v, &article); err != nil {
				return nil
			}
			if f.matches(&article) {
				articles = append(articles, &article)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("reading articles: %w", err)
	}
	SortNewestFirst(articles)
	return articles, nil
}

func (s *Store) distinct(field func(*Article) string) ([]string, error) {
	seen := make(map[string]bool)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(articlesBucket).ForEach(func(_ []byte, v []byte) error {
			var article Article
			if err := json.Unmarshal(v, &article); err != nil {
				return nil
			}
			if value := field(&article); value != "" {
				seen[value] = true
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("reading articles: %w", err)
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// SortNewestFirst orders articles by published date, breaking ties by ID so
// pages are stable.
func SortNewestFirst(articles []*Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		if !articles[i].PublishedDate.Equal(articles[j].PublishedDate) {
			return articles[i].PublishedDate.After(articles[j].PublishedDate)
		}
		return articles[i].ID < articles[j].ID
	})
}

func paginate(articles []*Article, page, perPage int) []*Article {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		return []*Article{}
	}
	start := (page - 1) * perPage
	if start >= len(articles) {
		return []*Article{}
	}
	end := start + perPage
	if end > len(articles) {
		end = len(articles)
	}
	return articles[start:end]
}

func sortedCounts(m map[string]int) []Count {
	counts := make([]Count, 0, len(m))
	for name, n := range m {
		counts = append(counts, Count{Name: name, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	return counts
}
