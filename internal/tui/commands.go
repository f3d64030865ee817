package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/nyhet/internal/api"
	"github.com/pders01/nyhet/internal/browse"
	"github.com/pders01/nyhet/internal/debuglog"
	"github.com/pders01/nyhet/internal/render"
)

// requestContext allows one second beyond the client's HTTP timeout.
func (a *App) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.config.API.HTTPTimeout+time.Second)
}

// loadVocabulary fills both filter pickers. Either request failing leaves
// both empty.
func (a *App) loadVocabulary() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()

		vocab, err := client.Vocabulary(ctx)
		if err != nil {
			return vocabularyLoadedMsg{err: wrapErr("loading filters", err)}
		}
		return vocabularyLoadedMsg{vocab: vocab}
	}
}

func (a *App) loadStats() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()

		stats, err := client.Stats(ctx)
		if err != nil {
			return statsLoadedMsg{err: wrapErr("loading stats", err)}
		}
		return statsLoadedMsg{stats: stats}
	}
}

// statsTick schedules the next stats refresh.
func (a *App) statsTick() tea.Cmd {
	return tea.Tick(a.config.API.StatsInterval, func(time.Time) tea.Msg {
		return statsTickMsg{}
	})
}

// loadArticles requests one page. The response carries gen so the app can
// drop answers to requests that were superseded while in flight.
func (a *App) loadArticles(gen uint64, req api.PageRequest) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()

		page, err := client.Page(ctx, req)
		if err != nil {
			return articlesLoadedMsg{gen: gen, req: req, err: wrapErr("loading articles", err)}
		}
		return articlesLoadedMsg{gen: gen, req: req, page: page}
	}
}

// refetch issues a new generation for the current state and starts the
// request, showing the spinner until the matching response arrives.
func (a *App) refetch() tea.Cmd {
	gen := a.gens.Issue()
	req := browse.Request(a.state, a.config.API.PerPage)
	a.loading = true
	debuglog.WithFields(map[string]interface{}{
		"gen": gen,
		"url": a.client.URL(req),
	}).Debugf("requesting articles")
	return tea.Batch(a.spinner.Tick, a.loadArticles(gen, req))
}

// fireSearch is what the debounce timer delivers once typing settles.
func fireSearch(input string) func() tea.Msg {
	return func() tea.Msg {
		return searchFiredMsg{input: input}
	}
}

func (a *App) openLink(link string) tea.Cmd {
	l := a.launcher
	return func() tea.Msg {
		if err := l.Open(link); err != nil {
			return errorMsg{err: wrapErr("opening "+link, err)}
		}
		return linkOpenedMsg{link: link}
	}
}

// renderReader renders article as markdown with r. The renderer is chosen on
// the update loop so the command never touches app state.
func renderReader(r *glamour.TermRenderer, article api.Article, timeAgo string) tea.Cmd {
	return func() tea.Msg {
		if r == nil {
			return readerRenderedMsg{content: render.StripMarkup(article.Description)}
		}
		rendered, err := r.Render(render.ReaderMarkdown(article, timeAgo))
		if err != nil {
			debuglog.Warnf("rendering %s: %v", article.Link, err)
			return readerRenderedMsg{content: render.StripMarkup(article.Description)}
		}
		return readerRenderedMsg{content: rendered}
	}
}
