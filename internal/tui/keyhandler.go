package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/nyhet/internal/browse"
	"github.com/pders01/nyhet/internal/config"
	"github.com/pders01/nyhet/internal/debuglog"
	"github.com/pders01/nyhet/internal/render"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	bindings    config.KeyBindings
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, bindings: cfg.Keys.Bindings, modifierKey: modifierKey}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

// isInTextInputMode reports whether keystrokes belong to a text field: the
// search box, or a picker's own filter prompt.
func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewBrowse:
		return kh.app.searchInput.Focused()
	case ViewCategoryPicker:
		return kh.app.categoryList.FilterState() == list.Filtering
	case ViewSourcePicker:
		return kh.app.sourceList.FilterState() == list.Filtering
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return kh.app, tea.Quit
	}

	switch kh.app.view {
	case ViewCategoryPicker, ViewSourcePicker:
		return kh.delegateToCharm(msg)
	}

	switch msg.String() {
	case "esc", "tab", "down":
		// Leave the box; a pending search still fires.
		kh.app.searchInput.Blur()
		return kh.app, nil
	case "enter":
		kh.app.searchInput.Blur()
		kh.app.debouncer.Stop()
		return kh.app, kh.app.dispatch(browse.Search{Input: kh.app.searchInput.Value()})
	default:
		return kh.delegateToTextInput(msg)
	}
}

// delegateToTextInput feeds the key to the search box and restarts the
// debounce timer whenever the text changed.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := kh.app.searchInput.Value()
	newSearchInput, cmd := kh.app.searchInput.Update(msg)
	kh.app.searchInput = newSearchInput

	value := kh.app.searchInput.Value()
	if value == prev {
		return kh.app, cmd
	}
	return kh.app, tea.Batch(cmd, kh.app.debouncer.Trigger(fireSearch(value)))
}

// handleCustomKeys handles only our custom action keys
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "ctrl+c", kh.bindings.Quit:
		return kh.app, tea.Quit, true
	case kh.bindings.Back:
		model, cmd := kh.navigateBack()
		return model, cmd, true
	}

	switch kh.app.view {
	case ViewBrowse:
		return kh.handleBrowseCustomKeys(key)
	case ViewCategoryPicker, ViewSourcePicker:
		return kh.handlePickerCustomKeys(key)
	case ViewReader:
		return kh.handleReaderCustomKeys(key)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleBrowseCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case kh.bindings.Search:
		kh.app.err = nil
		return kh.app, kh.app.searchInput.Focus(), true
	case kh.bindings.Category:
		kh.openPicker(ViewCategoryPicker, &kh.app.categoryList, kh.app.state.Category)
		return kh.app, nil, true
	case kh.bindings.Source:
		kh.openPicker(ViewSourcePicker, &kh.app.sourceList, kh.app.state.Source)
		return kh.app, nil, true
	case kh.bindings.NextPage:
		return kh.app, kh.app.dispatch(browse.NextPage{}), true
	case kh.bindings.PrevPage:
		return kh.app, kh.app.dispatch(browse.PrevPage{}), true
	case kh.bindings.Open:
		if article, ok := kh.app.selectedArticle(); ok {
			return kh.app, kh.app.openLink(article.Link), true
		}
		kh.app.setStatus(MsgNoSelection, StatusWarn)
		return kh.app, nil, true
	case kh.bindings.Preview:
		model, cmd := kh.openReader()
		return model, cmd, true
	case "up", "k":
		kh.app.moveSelection(-1)
		return kh.app, nil, true
	case "down", "j":
		kh.app.moveSelection(1)
		return kh.app, nil, true
	case "home", "g":
		kh.app.moveSelection(-len(kh.app.cardOffsets))
		return kh.app, nil, true
	case "end", "G":
		kh.app.moveSelection(len(kh.app.cardOffsets))
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

// handlePickerCustomKeys applies the highlighted filter value.
func (kh *KeyHandler) handlePickerCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	if key != "enter" {
		return kh.app, nil, false
	}

	picker := &kh.app.categoryList
	if kh.app.view == ViewSourcePicker {
		picker = &kh.app.sourceList
	}
	item, ok := picker.SelectedItem().(optionItem)
	if !ok {
		return kh.app, nil, true
	}

	var action browse.Action = browse.SelectCategory{Category: item.value}
	if kh.app.view == ViewSourcePicker {
		action = browse.SelectSource{Source: item.value}
	}

	// Choosing a filter replaces any search, typed or pending.
	kh.app.debouncer.Stop()
	kh.app.searchInput.Reset()
	kh.app.searchInput.Blur()
	picker.ResetFilter()
	kh.app.view = ViewBrowse
	return kh.app, kh.app.dispatch(action), true
}

func (kh *KeyHandler) handleReaderCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case kh.bindings.Open:
		if article, ok := kh.app.selectedArticle(); ok {
			return kh.app, kh.app.openLink(article.Link), true
		}
		return kh.app, nil, true
	case kh.bindings.Preview:
		model, cmd := kh.navigateBack()
		return model, cmd, true
	}
	return kh.app, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewBrowse:
		kh.app.cards, cmd = kh.app.cards.Update(msg)
		return kh.app, cmd
	case ViewCategoryPicker:
		kh.app.categoryList, cmd = kh.app.categoryList.Update(msg)
		return kh.app, cmd
	case ViewSourcePicker:
		kh.app.sourceList, cmd = kh.app.sourceList.Update(msg)
		return kh.app, cmd
	case ViewReader:
		kh.app.reader, cmd = kh.app.reader.Update(msg)
		return kh.app, cmd
	default:
		return kh.app, nil
	}
}

// openPicker shows a filter picker with the active value highlighted.
func (kh *KeyHandler) openPicker(view View, picker *list.Model, current string) {
	for i, item := range picker.Items() {
		if opt, ok := item.(optionItem); ok && opt.value == current {
			picker.Select(i)
			break
		}
	}
	kh.app.err = nil
	kh.app.view = view
}

func (kh *KeyHandler) openReader() (tea.Model, tea.Cmd) {
	article, ok := kh.app.selectedArticle()
	if !ok {
		kh.app.setStatus(MsgNoSelection, StatusWarn)
		return kh.app, nil
	}

	r, err := kh.app.getRenderer()
	if err != nil {
		debuglog.Warnf("creating markdown renderer: %v", err)
	}
	kh.app.view = ViewReader
	kh.app.readerLoading = true
	return kh.app, renderReader(r, article, render.TimeAgo(article.PublishedDate.Time, kh.app.now()))
}

// navigateBack returns to the article list from any other view. In the list
// itself it only clears a status error.
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewCategoryPicker:
		kh.app.categoryList.ResetFilter()
		kh.app.view = ViewBrowse
	case ViewSourcePicker:
		kh.app.sourceList.ResetFilter()
		kh.app.view = ViewBrowse
	case ViewReader:
		kh.app.reader.SetContent("")
		kh.app.readerLoading = false
		kh.app.view = ViewBrowse
	default:
		kh.app.err = nil
	}
	return kh.app, nil
}

// GetHelpForCurrentView returns only our custom help text (Charm handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	b := kh.bindings
	switch kh.app.view {
	case ViewBrowse:
		if kh.app.searchInput.Focused() {
			return []string{"enter: sök", "esc: klar"}
		}
		help := []string{b.Search + ": sök", b.Category + ": kategori", b.Source + ": källa"}
		if page := kh.app.browseView().Pagination; page.Visible {
			help = append(help, b.PrevPage+"/"+b.NextPage+": sida")
		}
		if _, ok := kh.app.selectedArticle(); ok {
			help = append(help, b.Open+": öppna", b.Preview+": förhandsvisa")
		}
		return append(help, b.Quit+": avsluta")

	case ViewCategoryPicker, ViewSourcePicker:
		return []string{"enter: välj", b.Back + ": tillbaka"}

	case ViewReader:
		return []string{b.Open + ": öppna i webbläsare", b.Back + ": tillbaka"}

	default:
		return []string{}
	}
}
