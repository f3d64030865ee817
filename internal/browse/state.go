// Package browse holds the article browser's view state and the reducer
// that moves it between user actions.
package browse

import (
	"strings"

	"github.com/pders01/nyhet/internal/api"
)

// ViewState drives what is fetched and displayed. A non-empty Query and an
// active Category or Source filter never coexist.
type ViewState struct {
	Page       int
	Category   string
	Source     string
	Query      string
	TotalPages int
}

// New returns the state the browser starts in.
func New() ViewState {
	return ViewState{
		Page:       1,
		Category:   api.AllCategories,
		TotalPages: 1,
	}
}

// Filtered reports whether a category or source filter is active.
func (s ViewState) Filtered() bool {
	return (s.Category != "" && s.Category != api.AllCategories) || s.Source != ""
}

// Searching reports whether a search query is active.
func (s ViewState) Searching() bool {
	return s.Query != ""
}

func (s ViewState) HasPrev() bool {
	return s.Page > 1
}

func (s ViewState) HasNext() bool {
	return s.Page < s.TotalPages
}

// Action is a user or network event that changes ViewState.
type Action interface {
	isAction()
}

// SelectCategory chooses a category; an empty value means all categories.
type SelectCategory struct{ Category string }

// SelectSource chooses a source; an empty value means all sources.
type SelectSource struct{ Source string }

// Search applies the raw search input once the debounce fires.
type Search struct{ Input string }

type NextPage struct{}

type PrevPage struct{}

// PageLoaded records the page count reported by the latest article response.
type PageLoaded struct{ TotalPages int }

func (SelectCategory) isAction() {}
func (SelectSource) isAction()   {}
func (Search) isAction()         {}
func (NextPage) isAction()       {}
func (PrevPage) isAction()       {}
func (PageLoaded) isAction()     {}

// Reduce applies a to s. refetch reports whether the article list must be
// requested again.
func Reduce(s ViewState, a Action) (next ViewState, refetch bool) {
	next = s
	switch a := a.(type) {
	case SelectCategory:
		next.Category = a.Category
		if next.Category == "" {
			next.Category = api.AllCategories
		}
		next.Page = 1
		next.Query = ""
		return next, true

	case SelectSource:
		next.Source = a.Source
		next.Page = 1
		next.Query = ""
		return next, true

	case Search:
		next.Query = strings.TrimSpace(a.Input)
		next.Page = 1
		if next.Query != "" {
			next.Category = api.AllCategories
			next.Source = ""
		}
		return next, true

	case NextPage:
		if !s.HasNext() {
			return s, false
		}
		next.Page++
		return next, true

	case PrevPage:
		if !s.HasPrev() {
			return s, false
		}
		next.Page--
		return next, true

	case PageLoaded:
		next.TotalPages = a.TotalPages
		if next.TotalPages < 1 {
			next.TotalPages = 1
		}
		return next, false
	}
	return s, false
}

// Request translates s into the API request for the current article page.
func Request(s ViewState, perPage int) api.PageRequest {
	if s.Searching() {
		return api.PageRequest{Query: s.Query, Page: s.Page, PerPage: perPage}
	}
	return api.PageRequest{
		Page:     s.Page,
		PerPage:  perPage,
		Category: s.Category,
		Source:   s.Source,
	}
}
