package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/pders01/nyhet/internal/api"
)

// StripMarkup returns only the text content of an HTML fragment, with runs
// of whitespace collapsed.
func StripMarkup(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// OptionLabel capitalises the first letter of a picker value.
func OptionLabel(value string) string {
	r, size := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError {
		return value
	}
	return string(unicode.ToUpper(r)) + value[size:]
}

// Truncate shortens s to at most limit runes, ending in an ellipsis when
// anything was cut.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return strings.TrimRightFunc(string(r[:limit-1]), unicode.IsSpace) + "…"
}

// ReaderMarkdown renders an article as a markdown document for the preview
// pane. The description is converted from HTML, falling back to plain text.
func ReaderMarkdown(a api.Article, timeAgo string) string {
	var b strings.Builder

	title := strings.TrimSpace(a.Title)
	if title == "" {
		title = "Ingen titel"
	}
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n")

	meta := make([]string, 0, 3)
	for _, part := range []string{a.Source, OptionLabel(a.Category), timeAgo} {
		if part != "" {
			meta = append(meta, part)
		}
	}
	if len(meta) > 0 {
		b.WriteString("*")
		b.WriteString(strings.Join(meta, " · "))
		b.WriteString("*\n\n")
	}

	body, err := htmltomarkdown.ConvertString(a.Description)
	if err != nil || strings.TrimSpace(body) == "" {
		body = StripMarkup(a.Description)
	}
	if body != "" {
		b.WriteString(strings.TrimSpace(body))
		b.WriteString("\n\n")
	}

	if a.Link != "" {
		b.WriteString("[Läs hela artikeln](")
		b.WriteString(a.Link)
		b.WriteString(")\n")
	}
	return b.String()
}
