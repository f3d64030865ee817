package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pders01/nyhet/internal/api"
	"github.com/pders01/nyhet/internal/search"
	"github.com/pders01/nyhet/internal/storage"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type errorResponse struct {
	Error string `json:"error"`
}

type pageResponse struct {
	Articles   []api.Article `json:"articles"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
	Query      string        `json:"query,omitempty"`
}

type countResponse struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

type statsResponse struct {
	TotalArticles int             `json:"total_articles"`
	Sources       []countResponse `json:"sources"`
	Categories    []countResponse `json:"categories"`
	LastUpdate    *string         `json:"last_update"`
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := paging(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	filter := storage.Filter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Source:   strings.TrimSpace(r.URL.Query().Get("source")),
	}
	if filter.Category == api.AllCategories {
		filter.Category = ""
	}

	articles, total, err := s.store.Page(filter, page, perPage)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageResponse{
		Articles:   toAPI(articles),
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages(total, perPage),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, map[string]any{"articles": []api.Article{}, "total": 0})
		return
	}

	page, perPage, err := paging(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := s.searcher.Search(query, page, perPage)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	articles, err := s.store.Get(res.IDs)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageResponse{
		Articles:   toAPI(articles),
		Total:      res.Total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages(res.Total, perPage),
		Query:      query,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.Categories()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": nonNil(categories)})
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.store.Sources()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sources": nonNil(sources)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := statsResponse{
		TotalArticles: stats.TotalArticles,
		Sources:       toCounts(stats.Sources),
		Categories:    toCounts(stats.Categories),
	}
	if !stats.LastUpdate.IsZero() {
		last := stats.LastUpdate.Format(time.RFC3339Nano)
		resp.LastUpdate = &last
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		s.log.Error("health check failed", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, api.Health{
			Status:  "error",
			Message: err.Error(),
			Store:   "disconnected",
		})
		return
	}
	h := api.Health{
		Status:    "ok",
		Timestamp: s.now().Format(time.RFC3339),
		Store:     "connected",
	}
	if ds, ok := s.searcher.(search.DebugStatser); ok {
		if n, err := ds.DocCount(); err == nil {
			h.Indexed = &n
		} else {
			s.log.Warn("counting indexed documents", slog.Any("err", err))
		}
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", slog.String("path", r.URL.Path), slog.Any("err", err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func paging(r *http.Request) (page, perPage int, err error) {
	page, err = intParam(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	perPage, err = intParam(r, "per_page", defaultPerPage)
	if err != nil {
		return 0, 0, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}

func totalPages(total, perPage int) int {
	if perPage < 1 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

func toAPI(articles []*storage.Article) []api.Article {
	out := make([]api.Article, 0, len(articles))
	for _, a := range articles {
		fetched := api.Timestamp{Time: a.FetchedAt}
		out = append(out, api.Article{
			ID:            a.ID,
			Title:         a.Title,
			Description:   a.Description,
			Link:          a.Link,
			Source:        a.Source,
			Category:      a.Category,
			ImageURL:      a.ImageURL,
			PublishedDate: api.Timestamp{Time: a.PublishedDate},
			FetchedAt:     &fetched,
		})
	}
	return out
}

func toCounts(counts []storage.Count) []countResponse {
	out := make([]countResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, countResponse{ID: c.Name, Count: c.Count})
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
