package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pders01/nyhet/internal/debuglog"
)

// Article is one news item as returned by /api/articles and /api/search.
type Article struct {
	ID            string     `json:"article_id,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Link          string     `json:"link"`
	Source        string     `json:"source"`
	Category      string     `json:"category"`
	ImageURL      string     `json:"image_url,omitempty"`
	PublishedDate Timestamp  `json:"published_date"`
	FetchedAt     *Timestamp `json:"fetched_at,omitempty"`
}

// Page is a decoded article listing. TotalPages is always set, derived from
// Total when the server leaves it out.
type Page struct {
	Articles   []Article
	Total      int
	Page       int
	PerPage    int
	TotalPages int
	Query      string
}

type pageResponse struct {
	Articles   []Article `json:"articles"`
	Total      *int      `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages *int      `json:"total_pages"`
	Query      string    `json:"query"`
}

func (r pageResponse) toPage(perPage int) *Page {
	p := &Page{
		Articles: r.Articles,
		Page:     r.Page,
		PerPage:  r.PerPage,
		Query:    r.Query,
	}
	if p.Articles == nil {
		p.Articles = []Article{}
	}
	if p.PerPage <= 0 {
		p.PerPage = perPage
	}
	if r.Total != nil {
		p.Total = *r.Total
	}
	switch {
	case r.TotalPages != nil:
		p.TotalPages = *r.TotalPages
	case r.Total != nil && p.PerPage > 0:
		p.TotalPages = (p.Total + p.PerPage - 1) / p.PerPage
	}
	return p
}

// Vocabulary holds the filter values offered by the backend.
type Vocabulary struct {
	Categories []string
	Sources    []string
}

// Count is one row of a grouped aggregate in /api/stats.
type Count struct {
	Name  string `json:"_id"`
	Count int    `json:"count"`
}

// Stats is the /api/stats payload.
type Stats struct {
	TotalArticles int        `json:"total_articles"`
	LastUpdate    *Timestamp `json:"last_update"`
	Sources       []Count    `json:"sources"`
	Categories    []Count    `json:"categories"`
}

// Health is the /api/health payload.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Store     string `json:"store"`
	Indexed   *int   `json:"indexed,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Timestamp decodes the date shapes the backend has been seen to emit:
// RFC 3339 strings, naive ISO strings, and MongoDB extended JSON
// ({"$date": "..."}, {"$date": 1700000000000}, {"$date": {"$numberLong": "..."}}).
// A value it cannot read decodes to the zero time so one bad date does not
// fail the whole page.
type Timestamp struct {
	time.Time
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

func parseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if err := t.decode(data); err != nil {
		debuglog.Debugf("Ignoring unreadable timestamp %s: %v", data, err)
		t.Time = time.Time{}
	}
	return nil
}

func (t *Timestamp) decode(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		parsed, err := parseISO(s)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	case '{':
		var wrapped struct {
			Date json.RawMessage `json:"$date"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		if len(wrapped.Date) == 0 {
			return fmt.Errorf("timestamp object without $date")
		}
		return t.unmarshalDate(wrapped.Date)
	default:
		return t.unmarshalDate(data)
	}
}

func (t *Timestamp) unmarshalDate(raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) > 0 && raw[0] == '"':
		return t.decode(raw)
	case len(raw) > 0 && raw[0] == '{':
		var long struct {
			NumberLong string `json:"$numberLong"`
		}
		if err := json.Unmarshal(raw, &long); err != nil {
			return err
		}
		ms, err := strconv.ParseInt(long.NumberLong, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing $numberLong: %w", err)
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	default:
		ms, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("parsing epoch millis: %w", err)
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}
}

// MarshalJSON writes the extended-JSON form the backend uses for article
// dates.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]string{"$date": t.UTC().Format(time.RFC3339Nano)})
}
