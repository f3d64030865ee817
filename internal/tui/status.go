package tui

import (
	"fmt"

	"github.com/pders01/nyhet/internal/render"
)

// Canonical short status messages used across the app.
const (
	MsgLoadingArticles = "Laddar artiklar…"
	MsgLoadingReader   = "Förbereder förhandsvisning…"
	MsgNoArticles      = "Inga artiklar hittades."
	MsgNoSelection     = "Ingen artikel vald"
	MsgAllCategories   = "Alla"
	MsgAllSources      = "Alla källor"
)

func MsgOpening(link string, width int) string {
	return "Öppnar " + truncateMiddle(link, width)
}

func MsgTotalArticles(n int) string {
	return fmt.Sprintf("Artiklar: %d", n)
}

func MsgLastUpdate(ts string) string {
	if ts == "" {
		ts = "–"
	}
	return "Senast uppdaterad: " + ts
}

func MsgSearchResults(query string, total int) string {
	if total == 1 {
		return fmt.Sprintf("1 träff för \"%s\"", query)
	}
	return fmt.Sprintf("%d träffar för \"%s\"", total, query)
}

// filterLabel names the active category or source for the filter bar.
func filterLabel(value, all string) string {
	if value == "" || value == allCategories {
		return all
	}
	return render.OptionLabel(value)
}
