package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/nyhet/internal/config"
)

var svt = config.FeedSource{Name: "SVT Nyheter", URL: "https://www.svt.se/nyheter/rss.xml", Category: "allmänt"}

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/" xmlns:content="http://purl.org/rss/1.0/modules/content/">
	<channel>
		<title>SVT Nyheter</title>
		<link>https://www.svt.se</link>
		<item>
			<title>Regeringen presenterar budgeten</title>
			<link>https://www.svt.se/nyheter/budget</link>
			<description>&lt;p&gt;Budgeten är här&lt;/p&gt;</description>
			<pubDate>Wed, 01 Jan 2025 12:00:00 GMT</pubDate>
			<media:content url="https://cdn.svt.se/budget.jpg" medium="image"/>
		</item>
		<item>
			<title>Thumbnail only</title>
			<link>https://www.svt.se/nyheter/thumb</link>
			<description>Text</description>
			<media:thumbnail url="https://cdn.svt.se/thumb.jpg"/>
		</item>
		<item>
			<title>Enclosure</title>
			<link>https://www.svt.se/nyheter/enclosure</link>
			<description>Text</description>
			<enclosure url="https://cdn.svt.se/audio.mp3" type="audio/mpeg"/>
			<enclosure url="https://cdn.svt.se/enc.jpg" type="image/jpeg"/>
		</item>
		<item>
			<link>https://www.svt.se/nyheter/inline</link>
			<description>&lt;img src="https://cdn.svt.se/inline.png"/&gt; Inline bild</description>
		</item>
		<item>
			<title>No link is skipped</title>
		</item>
	</channel>
</rss>`

func TestParser_Parse(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	p := NewParser()
	p.now = func() time.Time { return fixed }

	articles, err := p.Parse(strings.NewReader(rssFixture), svt)
	require.NoError(t, err)
	require.Len(t, articles, 4)

	first := articles[0]
	assert.Equal(t, ArticleID("https://www.svt.se/nyheter/budget"), first.ID)
	assert.Len(t, first.ID, 64)
	assert.Equal(t, "Regeringen presenterar budgeten", first.Title)
	assert.Equal(t, "<p>Budgeten är här</p>", first.Description)
	assert.Equal(t, "SVT Nyheter", first.Source)
	assert.Equal(t, "allmänt", first.Category)
	assert.Equal(t, "https://cdn.svt.se/budget.jpg", first.ImageURL)
	assert.True(t, first.PublishedDate.Equal(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)))
	assert.True(t, first.FetchedAt.Equal(fixed))

	assert.Equal(t, "https://cdn.svt.se/thumb.jpg", articles[1].ImageURL)
	assert.True(t, articles[1].PublishedDate.Equal(fixed), "missing date falls back to now")

	assert.Equal(t, "https://cdn.svt.se/enc.jpg", articles[2].ImageURL)

	assert.Equal(t, untitled, articles[3].Title)
	assert.Equal(t, "https://cdn.svt.se/inline.png", articles[3].ImageURL)
}

func TestParser_Atom(t *testing.T) {
	atom := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Breakit</title>
	<entry>
		<title>Startup tar in miljoner</title>
		<link href="https://www.breakit.se/artikel/1"/>
		<updated>2025-02-01T10:00:00Z</updated>
		<summary>Kort</summary>
	</entry>
</feed>`

	articles, err := NewParser().Parse(strings.NewReader(atom), config.FeedSource{Name: "Breakit", Category: "tech"})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "https://www.breakit.se/artikel/1", articles[0].Link)
	assert.Equal(t, "Kort", articles[0].Description)
	assert.Equal(t, "tech", articles[0].Category)
	assert.True(t, articles[0].PublishedDate.Equal(time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)))
	assert.Empty(t, articles[0].ImageURL)
}

func TestParser_Invalid(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("not a feed"), svt)
	assert.Error(t, err)
}

func TestArticleID_Stable(t *testing.T) {
	assert.Equal(t, ArticleID("https://a.se/x"), ArticleID("https://a.se/x"))
	assert.NotEqual(t, ArticleID("https://a.se/x"), ArticleID("https://a.se/y"))
}
