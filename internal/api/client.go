package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pders01/nyhet/internal/config"
	"github.com/pders01/nyhet/internal/validation"
)

// AllCategories is the category value meaning "no category filter".
const AllCategories = "alla"

// PageRequest describes one article listing request.
type PageRequest struct {
	Query    string
	Page     int
	PerPage  int
	Category string
	Source   string
}

// IsSearch reports whether the request goes to the search endpoint.
func (r PageRequest) IsSearch() bool {
	return r.Query != ""
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	URL     string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error: %d from %s: %s", e.Code, e.URL, e.Message)
	}
	return fmt.Sprintf("HTTP error: %d from %s", e.Code, e.URL)
}

// Client talks to the news REST API.
type Client struct {
	baseURL   string
	client    *http.Client
	userAgent string
	perPage   int
}

func NewClient(cfg *config.Config) (*Client, error) {
	base, err := validation.NormalizeBaseURL(cfg.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	perPage := cfg.API.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	return &Client{
		baseURL:   base,
		client:    &http.Client{Timeout: cfg.API.HTTPTimeout},
		userAgent: cfg.API.UserAgent,
		perPage:   perPage,
	}, nil
}

// BaseURL returns the normalised API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL builds the listing URL for req. Parameters keep the order
// page, per_page, category, source so request logs read naturally.
func (c *Client) URL(req PageRequest) string {
	perPage := req.PerPage
	if perPage <= 0 {
		perPage = c.perPage
	}
	page := req.Page
	if page < 1 {
		page = 1
	}

	var b strings.Builder
	b.WriteString(c.baseURL)
	if req.IsSearch() {
		b.WriteString("/api/search?q=")
		b.WriteString(url.QueryEscape(req.Query))
		b.WriteString("&page=")
	} else {
		b.WriteString("/api/articles?page=")
	}
	b.WriteString(strconv.Itoa(page))
	b.WriteString("&per_page=")
	b.WriteString(strconv.Itoa(perPage))

	if !req.IsSearch() {
		if req.Category != "" && req.Category != AllCategories {
			b.WriteString("&category=")
			b.WriteString(url.QueryEscape(req.Category))
		}
		if req.Source != "" {
			b.WriteString("&source=")
			b.WriteString(url.QueryEscape(req.Source))
		}
	}
	return b.String()
}

// Page fetches one page of articles, searched or filtered per req.
func (c *Client) Page(ctx context.Context, req PageRequest) (*Page, error) {
	var resp pageResponse
	if err := c.getJSON(ctx, c.URL(req), &resp); err != nil {
		return nil, err
	}
	perPage := req.PerPage
	if perPage <= 0 {
		perPage = c.perPage
	}
	return resp.toPage(perPage), nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/api/categories", &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *Client) Sources(ctx context.Context) ([]string, error) {
	var resp struct {
		Sources []string `json:"sources"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/api/sources", &resp); err != nil {
		return nil, err
	}
	return resp.Sources, nil
}

// Vocabulary fetches categories and sources concurrently. Either failure
// fails the whole call.
func (c *Client) Vocabulary(ctx context.Context) (*Vocabulary, error) {
	var vocab Vocabulary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cats, err := c.Categories(gctx)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		vocab.Categories = cats
		return nil
	})
	g.Go(func() error {
		srcs, err := c.Sources(gctx)
		if err != nil {
			return fmt.Errorf("sources: %w", err)
		}
		vocab.Sources = srcs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &vocab, nil
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.getJSON(ctx, c.baseURL+"/api/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.getJSON(ctx, c.baseURL+"/api/health", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		statusErr := &StatusError{Code: resp.StatusCode, URL: rawURL}
		var body struct {
			Error string `json:"error"`
		}
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); readErr == nil {
			if json.Unmarshal(data, &body) == nil {
				statusErr.Message = body.Error
			}
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	return nil
}
