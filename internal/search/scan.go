package search

import (
	"strings"

	"github.com/pders01/nyhet/internal/render"
	"github.com/pders01/nyhet/internal/storage"
)

// Lister supplies every stored article, newest first.
type Lister interface {
	All() ([]*storage.Article, error)
}

// Scanner searches by scanning the store for a case-insensitive substring
// of the whole query in the title or description. It needs no index and
// is used when the bleve backend is disabled.
type Scanner struct {
	store Lister
}

func NewScanner(store Lister) *Scanner {
	return &Scanner{store: store}
}

func (s *Scanner) Search(query string, page, perPage int) (*Result, error) {
	needle := normalize(query)
	if needle == "" {
		return &Result{IDs: []string{}}, nil
	}

	articles, err := s.store.All()
	if err != nil {
		return nil, err
	}

	var matched []string
	for _, a := range articles {
		if strings.Contains(normalize(a.Title), needle) ||
			strings.Contains(normalize(render.StripMarkup(a.Description)), needle) {
			matched = append(matched, a.ID)
		}
	}

	start, end := pageBounds(len(matched), page, perPage)
	ids := make([]string, 0, end-start)
	ids = append(ids, matched[start:end]...)
	return &Result{IDs: ids, Total: len(matched)}, nil
}
