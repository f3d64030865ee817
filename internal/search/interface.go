package search

import (
	"strings"

	"github.com/pders01/nyhet/internal/storage"
)

// Result is one page of matching article IDs, newest first.
type Result struct {
	IDs   []string
	Total int
}

// Searcher answers free-text queries over the collected articles.
type Searcher interface {
	Search(query string, page, perPage int) (*Result, error)
}

// UpdateListener can be implemented by engines that keep their own index
// and want to hear about newly stored articles.
type UpdateListener interface {
	OnArticlesAdded(articles []*storage.Article) error
}

// DebugStatser is implemented by engines that can report their size.
// /api/health includes it when available.
type DebugStatser interface {
	DocCount() (int, error)
}

// normalize folds text the way both backends compare it: lowercased, with
// every whitespace run reduced to one space.
func normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

func pageBounds(total, page, perPage int) (start, end int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		return 0, 0
	}
	start = (page - 1) * perPage
	if start > total {
		start = total
	}
	end = start + perPage
	if end > total {
		end = total
	}
	return start, end
}
