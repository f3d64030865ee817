package search

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/nyhet/internal/render"
	"github.com/pders01/nyhet/internal/storage"
)

// BleveIndex is an in-memory index over article titles and descriptions.
// Each field is kept as one normalized keyword term so a query matches as a
// substring of the whole text, the same rule the Scanner applies. The store
// stays the source of truth; the index is rebuilt from it on start.
type BleveIndex struct {
	mu  sync.RWMutex
	idx bleve.Index
}

func NewBleveIndex() (*BleveIndex, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}
	return &BleveIndex{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = keyword.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = keyword.Name
	title.Store = false
	title.IncludeTermVectors = false
	title.IncludeInAll = false

	desc := bleve.NewTextFieldMapping()
	desc.Analyzer = keyword.Name
	desc.Store = false
	desc.IncludeTermVectors = false
	desc.IncludeInAll = false

	published := bleve.NewDateTimeFieldMapping()
	published.Store = false

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("description", desc)
	dm.AddFieldMappingsAt("published", published)

	im.DefaultMapping = dm
	return im
}

// Index adds or replaces articles in the index.
func (b *BleveIndex) Index(articles []*storage.Article) error {
	if len(articles) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	batch := b.idx.NewBatch()
	for _, a := range articles {
		if err := batch.Index(a.ID, map[string]any{
			"title":       normalize(a.Title),
			"description": normalize(render.StripMarkup(a.Description)),
			"published":   a.PublishedDate,
		}); err != nil {
			return fmt.Errorf("indexing %s: %w", a.ID, err)
		}
	}
	if err := b.idx.Batch(batch); err != nil {
		return fmt.Errorf("indexing batch: %w", err)
	}
	return nil
}

// OnArticlesAdded indexes newly stored articles.
func (b *BleveIndex) OnArticlesAdded(articles []*storage.Article) error {
	return b.Index(articles)
}

// Search matches the whole query, case-insensitively, as a substring of the
// title or description and returns the requested page newest first.
func (b *BleveIndex) Search(query string, page, perPage int) (*Result, error) {
	needle := normalize(query)
	if needle == "" || perPage < 1 {
		return &Result{IDs: []string{}}, nil
	}
	if page < 1 {
		page = 1
	}

	pattern := ".*" + regexp.QuoteMeta(needle) + ".*"
	var either []bleveQuery.Query
	for _, field := range []string{"title", "description"} {
		rq := bleve.NewRegexpQuery(pattern)
		rq.SetField(field)
		either = append(either, rq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(either...), perPage, (page-1)*perPage, false)
	req.SortBy([]string{"-published", "_id"})

	b.mu.RLock()
	res, err := b.idx.Search(req)
	b.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", strings.TrimSpace(query), err)
	}

	out := &Result{IDs: make([]string, 0, len(res.Hits)), Total: int(res.Total)}
	for _, h := range res.Hits {
		out.IDs = append(out.IDs, h.ID)
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (b *BleveIndex) DocCount() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n, err := b.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close waits for any in-flight Index or Search before releasing the index.
func (b *BleveIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.idx.Close()
}
