// Package render turns browser state and fetched data into a view
// description that any frontend can draw.
package render

import (
	"fmt"
	"net/url"
	"time"

	"github.com/pders01/nyhet/internal/api"
	"github.com/pders01/nyhet/internal/browse"
)

const (
	// Placeholder stands in for a missing or unusable article image.
	Placeholder = "📄"
	// GridError replaces the card list when the article request failed.
	GridError = "Ett fel uppstod vid laddning av artiklar."

	PrevLabel = "← Föregående"
	NextLabel = "Nästa →"
)

type Card struct {
	Title       string
	Description string
	Link        string
	Source      string
	Category    string
	TimeAgo     string
	// Image is Placeholder or a short label naming the image host.
	Image    string
	HasImage bool
}

// NewCard derives the display card for a. now anchors the time-ago label.
func NewCard(a api.Article, now time.Time) Card {
	c := Card{
		Title:       a.Title,
		Description: StripMarkup(a.Description),
		Link:        a.Link,
		Source:      a.Source,
		Category:    a.Category,
		TimeAgo:     TimeAgo(a.PublishedDate.Time, now),
		Image:       Placeholder,
	}
	if host := imageHost(a.ImageURL); host != "" {
		c.Image = "🖼  " + host
		c.HasImage = true
	}
	return c
}

// imageHost returns the host of a usable image URL, or "" when the image
// could not be shown.
func imageHost(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.Hostname()
}

// Control is one pagination button.
type Control struct {
	Label   string
	Enabled bool
}

type Pagination struct {
	Visible   bool
	Prev      Control
	Indicator Control
	Next      Control
}

// NewPagination lays out the page controls. Nothing is shown for a single
// page.
func NewPagination(page, totalPages int) Pagination {
	if totalPages <= 1 {
		return Pagination{}
	}
	return Pagination{
		Visible:   true,
		Prev:      Control{Label: PrevLabel, Enabled: page > 1},
		Indicator: Control{Label: fmt.Sprintf("Sida %d av %d", page, totalPages)},
		Next:      Control{Label: NextLabel, Enabled: page < totalPages},
	}
}

// View is everything the article region shows for one state.
type View struct {
	Cards      []Card
	Pagination Pagination
	Error      string
	Query      string
	Category   string
	Source     string
}

// Build derives the article region. A nil page with no error means the
// request is still in flight and the grid is empty.
func Build(state browse.ViewState, page *api.Page, err error, now time.Time) View {
	v := View{
		Query:    state.Query,
		Category: state.Category,
		Source:   state.Source,
	}
	if err != nil {
		v.Error = GridError
		return v
	}
	if page == nil {
		return v
	}

	v.Cards = make([]Card, 0, len(page.Articles))
	for _, a := range page.Articles {
		v.Cards = append(v.Cards, NewCard(a, now))
	}
	v.Pagination = NewPagination(state.Page, state.TotalPages)
	return v
}
