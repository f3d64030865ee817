package feed

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/pders01/nyhet/internal/config"
	"github.com/pders01/nyhet/internal/storage"
)

const untitled = "Ingen titel"

type Parser struct {
	parser *gofeed.Parser
	now    func() time.Time
}

func NewParser() *Parser {
	return &Parser{
		parser: gofeed.NewParser(),
		now:    time.Now,
	}
}

// Parse converts every item with a link into an article attributed to src.
func (p *Parser) Parse(reader io.Reader, src config.FeedSource) ([]*storage.Article, error) {
	feed, err := p.parser.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	now := p.now()
	articles := make([]*storage.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = untitled
		}

		articles = append(articles, &storage.Article{
			ID:            ArticleID(link),
			Title:         title,
			Link:          link,
			Description:   description(item),
			PublishedDate: publishedDate(item, now),
			Source:        src.Name,
			Category:      src.Category,
			ImageURL:      extractImage(item),
			FetchedAt:     now,
		})
	}

	return articles, nil
}

// ArticleID derives the stable identity of an article from its link.
func ArticleID(link string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(link)))
}

func description(item *gofeed.Item) string {
	if item.Description != "" {
		return item.Description
	}
	return item.Content
}

func publishedDate(item *gofeed.Item, now time.Time) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC()
	}
	return now
}

// extractImage picks the article image: media:content, media:thumbnail, an
// image enclosure, the item image, then the first <img> in the description.
func extractImage(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, e := range media[name] {
				if u := e.Attrs["url"]; u != "" {
					return u
				}
			}
		}
		for _, group := range media["group"] {
			for _, name := range []string{"content", "thumbnail"} {
				for _, e := range group.Children[name] {
					if u := e.Attrs["url"]; u != "" {
						return u
					}
				}
			}
		}
	}

	for _, enclosure := range item.Enclosures {
		if enclosure.URL != "" && strings.HasPrefix(enclosure.Type, "image") {
			return enclosure.URL
		}
	}

	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	return firstImageInHTML(item.Description + item.Content)
}

func firstImageInHTML(fragment string) string {
	if !strings.Contains(fragment, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return src
}
