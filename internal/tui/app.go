package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/nyhet/internal/api"
	"github.com/pders01/nyhet/internal/browse"
	"github.com/pders01/nyhet/internal/config"
	"github.com/pders01/nyhet/internal/debuglog"
	"github.com/pders01/nyhet/internal/launcher"
	"github.com/pders01/nyhet/internal/render"
	"github.com/pders01/nyhet/internal/schedule"
)

const allCategories = api.AllCategories

// chromeHeight is the number of rows the browse view spends outside the
// card list: header (2), filter bar (1), search frame (3), pagination (1)
// and the status bar with its separator (2).
const chromeHeight = 9

type App struct {
	config     *config.Config
	client     *api.Client
	launcher   *launcher.Launcher
	keyHandler *KeyHandler
	timers     *schedule.Timers
	debouncer  *schedule.Debouncer
	now        func() time.Time

	state   browse.ViewState
	gens    browse.Generations
	page    *api.Page
	pageErr error
	loading bool

	totalArticles int
	lastUpdate    string

	categoryList list.Model
	sourceList   list.Model
	searchInput  textinput.Model
	cards        viewport.Model
	reader       viewport.Model
	spinner      spinner.Model

	view          View
	selected      int
	cardOffsets   []int
	readerLoading bool
	status        string
	statusKind    StatusKind
	width         int
	height        int
	err           error

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(client *api.Client, cfg *config.Config) *App {
	categoryList := newPicker("› kategori")
	sourceList := newPicker("› källa")

	si := textinput.New()
	si.Placeholder = "Sök artiklar…"
	si.Prompt = "/ "
	si.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	timers := schedule.NewTimers()

	app := &App{
		config:       cfg,
		client:       client,
		launcher:     launcher.NewLauncher(cfg),
		timers:       timers,
		debouncer:    schedule.NewDebouncer(timers, cfg.API.SearchDebounce),
		now:          time.Now,
		state:        browse.New(),
		categoryList: categoryList,
		sourceList:   sourceList,
		searchInput:  si,
		cards:        viewport.New(0, 0),
		reader:       viewport.New(0, 0),
		spinner:      sp,
		view:         ViewBrowse,
	}

	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func newPicker(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)
	return l
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := clamp((a.width*9)/10, 40, 120)
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Init starts the filter, stats and first page requests together.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		a.loadVocabulary(),
		a.loadStats(),
		a.statsTick(),
		a.refetch(),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if out, ok := a.timers.Deliver(msg); ok {
		if out == nil {
			return a, nil
		}
		msg = out
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case vocabularyLoadedMsg:
		a.applyVocabulary(msg)
		return a, nil

	case statsLoadedMsg:
		a.applyStats(msg)
		return a, nil

	case statsTickMsg:
		return a, tea.Batch(a.loadStats(), a.statsTick())

	case articlesLoadedMsg:
		a.applyArticles(msg)
		return a, nil

	case searchFiredMsg:
		return a, a.dispatch(browse.Search{Input: msg.input})

	case readerRenderedMsg:
		if a.view == ViewReader {
			a.reader.SetContent(msg.content)
			a.reader.GotoTop()
			a.readerLoading = false
		}
		return a, nil

	case linkOpenedMsg:
		a.err = nil
		a.setStatus(MsgOpening(msg.link, a.width-12), StatusSuccess)
		return a, nil

	case errorMsg:
		debuglog.Errorf("%v", msg.err)
		a.err = msg.err
		return a, nil
	}

	var cmd tea.Cmd
	switch a.view {
	case ViewBrowse:
		if _, ok := msg.(tea.MouseMsg); ok {
			a.cards, cmd = a.cards.Update(msg)
		}
	case ViewCategoryPicker:
		a.categoryList, cmd = a.categoryList.Update(msg)
	case ViewSourcePicker:
		a.sourceList, cmd = a.sourceList.Update(msg)
	case ViewReader:
		if _, ok := msg.(tea.MouseMsg); ok {
			a.reader, cmd = a.reader.Update(msg)
		}
	}
	return a, cmd
}

// dispatch applies a browse action and starts a new request when the state
// asks for one. Any page change returns the card list to the top.
func (a *App) dispatch(action browse.Action) tea.Cmd {
	next, refetch := browse.Reduce(a.state, action)
	a.state = next
	if !refetch {
		return nil
	}
	a.err = nil
	a.selected = 0
	a.cards.GotoTop()
	return a.refetch()
}

func (a *App) applyVocabulary(msg vocabularyLoadedMsg) {
	if msg.err != nil {
		debuglog.WithFields(map[string]interface{}{
			"base_url": a.client.BaseURL(),
		}).Warnf("%v", msg.err)
		a.categoryList.SetItems([]list.Item{})
		a.sourceList.SetItems([]list.Item{})
		return
	}

	categories := make([]list.Item, 0, len(msg.vocab.Categories)+1)
	categories = append(categories, optionItem{value: allCategories, label: MsgAllCategories})
	for _, c := range msg.vocab.Categories {
		categories = append(categories, optionItem{value: c, label: render.OptionLabel(c)})
	}
	a.categoryList.SetItems(categories)

	sources := make([]list.Item, 0, len(msg.vocab.Sources)+1)
	sources = append(sources, optionItem{value: "", label: MsgAllSources})
	for _, s := range msg.vocab.Sources {
		sources = append(sources, optionItem{value: s, label: s})
	}
	a.sourceList.SetItems(sources)
}

// applyStats keeps the previous values when the request failed or the
// backend has no last update yet.
func (a *App) applyStats(msg statsLoadedMsg) {
	if msg.err != nil {
		debuglog.Warnf("%v", msg.err)
		return
	}
	a.totalArticles = msg.stats.TotalArticles
	if lu := msg.stats.LastUpdate; lu != nil && !lu.IsZero() {
		a.lastUpdate = render.FormatTimestamp(lu.Time)
	}
}

func (a *App) applyArticles(msg articlesLoadedMsg) {
	if !a.gens.IsCurrent(msg.gen) {
		debuglog.WithFields(map[string]interface{}{
			"gen":    msg.gen,
			"latest": a.gens.Current(),
		}).Debugf("dropping stale article response")
		return
	}

	a.loading = false
	if msg.err != nil {
		debuglog.WithFields(map[string]interface{}{
			"url": a.client.URL(msg.req),
		}).Errorf("%v", msg.err)
		a.page = nil
		a.pageErr = msg.err
		a.setStatus(describeErr(msg.err), StatusError)
	} else {
		a.page = msg.page
		a.pageErr = nil
		a.state, _ = browse.Reduce(a.state, browse.PageLoaded{TotalPages: msg.page.TotalPages})
		if a.state.Searching() {
			a.setStatus(MsgSearchResults(a.state.Query, msg.page.Total), StatusInfo)
		} else {
			a.setStatus("", StatusInfo)
		}
	}
	a.selected = 0
	a.refreshCards()
	a.cards.GotoTop()
}

// browseView is what the article region currently shows.
func (a *App) browseView() render.View {
	return render.Build(a.state, a.page, a.pageErr, a.now())
}

// selectedArticle returns the article under the cursor.
func (a *App) selectedArticle() (api.Article, bool) {
	if a.page == nil || a.selected < 0 || a.selected >= len(a.page.Articles) {
		return api.Article{}, false
	}
	return a.page.Articles[a.selected], true
}

func (a *App) moveSelection(delta int) {
	if a.page == nil || len(a.page.Articles) == 0 {
		return
	}
	a.selected = clamp(a.selected+delta, 0, len(a.page.Articles)-1)
	a.refreshCards()
	a.scrollToSelected()
}

// refreshCards redraws the card list into the viewport and records where
// each card starts.
func (a *App) refreshCards() {
	v := a.browseView()
	width := a.width
	if width <= 0 {
		width = 80
	}

	if v.Error != "" {
		a.cardOffsets = nil
		a.cards.SetContent(ErrorMessageStyle.Render(v.Error))
		return
	}
	if a.page != nil && len(v.Cards) == 0 {
		a.cardOffsets = nil
		a.cards.SetContent(renderMuted(MsgNoArticles))
		return
	}

	var b strings.Builder
	a.cardOffsets = make([]int, 0, len(v.Cards))
	line := 0
	for i, c := range v.Cards {
		block := renderCard(c, i == a.selected, width, a.config.UI.DescriptionLength)
		a.cardOffsets = append(a.cardOffsets, line)
		b.WriteString(block)
		b.WriteString("\n\n")
		line += lipgloss.Height(block) + 1
	}
	a.cards.SetContent(strings.TrimRight(b.String(), "\n"))
}

func (a *App) scrollToSelected() {
	if a.selected >= len(a.cardOffsets) {
		return
	}
	top := a.cardOffsets[a.selected]
	bottom := a.cards.TotalLineCount()
	if a.selected+1 < len(a.cardOffsets) {
		bottom = a.cardOffsets[a.selected+1] - 1
	}
	switch {
	case top < a.cards.YOffset:
		a.cards.SetYOffset(top)
	case bottom > a.cards.YOffset+a.cards.Height:
		a.cards.SetYOffset(bottom - a.cards.Height)
	}
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	a.categoryList.SetSize(width, height-2)
	a.sourceList.SetSize(width, height-2)

	a.cards.Width = width
	a.cards.Height = clamp(height-chromeHeight, 3, height)
	a.reader.Width = width
	a.reader.Height = clamp(height-2, 1, height)

	a.searchInput.Width = clamp(width-8, 10, width)

	a.refreshCards()
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewBrowse:
		content = a.renderBrowse()
	case ViewCategoryPicker:
		content = a.categoryList.View()
	case ViewSourcePicker:
		content = a.sourceList.View()
	case ViewReader:
		if a.readerLoading {
			content = renderCentered(a.width, a.height-2, renderHelp(MsgLoadingReader))
		} else {
			content = a.reader.View()
		}
	}

	customStatus := a.getCustomStatusBar()
	if customStatus != "" {
		separatorWidth := a.width - 2
		if separatorWidth < 0 {
			separatorWidth = 0
		}
		separator := SeparatorStyle.Render("─" + strings.Repeat("─", separatorWidth))

		return lipgloss.JoinVertical(lipgloss.Top, content, separator, customStatus)
	}

	return content
}

func (a *App) renderBrowse() string {
	if a.width == 0 {
		return GetWelcomeMessage()
	}

	title := CompactLogo + " " + MsgTotalArticles(a.totalArticles)
	if a.loading {
		title += "  " + a.spinner.View()
	}
	header := renderHeader(title, MsgLastUpdate(a.lastUpdate), a.width)

	filters := renderMuted(fmt.Sprintf("Kategori: %s  ·  Källa: %s",
		filterLabel(a.state.Category, MsgAllCategories),
		filterLabel(a.state.Source, MsgAllSources),
	))

	search := renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width)

	bindings := a.config.Keys.Bindings
	pagination := renderPagination(a.browseView().Pagination, bindings.PrevPage, bindings.NextPage)

	return ContentWrapper(a.width, a.height-2).Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		filters,
		search,
		a.cards.View(),
		lipgloss.PlaceHorizontal(a.width, lipgloss.Center, pagination),
	))
}

func (a *App) getCustomStatusBar() string {
	if a.err != nil {
		return StatusBarStyle.Width(a.width).
			Render(ErrorMessageStyle.Render(fmt.Sprintf("✗ %s", describeErr(a.err))))
	}

	commands := a.keyHandler.GetHelpForCurrentView()
	if a.status != "" && a.view == ViewBrowse {
		commands = append([]string{a.statusKind.style().Render(a.status)}, commands...)
	}
	if len(commands) == 0 {
		return ""
	}

	return StatusBarStyle.Width(a.width).Render(strings.Join(commands, " • "))
}

// optionItem is one entry of a filter picker. value is what the API filters
// on; label is what the user sees.
type optionItem struct {
	value string
	label string
}

func (i optionItem) Title() string       { return i.label }
func (i optionItem) Description() string { return "" }
func (i optionItem) FilterValue() string { return i.label }

type vocabularyLoadedMsg struct {
	vocab *api.Vocabulary
	err   error
}

type statsLoadedMsg struct {
	stats *api.Stats
	err   error
}

type statsTickMsg struct{}

type articlesLoadedMsg struct {
	gen  uint64
	req  api.PageRequest
	page *api.Page
	err  error
}

type searchFiredMsg struct {
	input string
}

type readerRenderedMsg struct {
	content string
}

type linkOpenedMsg struct {
	link string
}

type errorMsg struct {
	err error
}
