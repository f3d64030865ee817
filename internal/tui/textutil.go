package tui

import (
	"strings"

	"github.com/pders01/nyhet/internal/render"
)

// truncateEnd shortens s to at most limit runes.
func truncateEnd(s string, limit int) string {
	return render.Truncate(s, limit)
}

// truncateMiddle keeps both ends of s around a single ellipsis. Links and
// hosts read better this way than cut at the end.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	n := len(r)
	if n <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	left := (limit - 1) / 2
	right := limit - 1 - left
	return string(r[:left]) + "…" + string(r[n-right:])
}

// singleLine folds any whitespace run in s into one space.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// clamp bounds n to [lo, hi].
func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
