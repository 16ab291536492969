// Package tui implements the terminal doc browser: a sidebar-ordered list
// of documents on the left, a glamour-rendered preview on the right.
package tui

import (
	"fmt"
	"os"
	"time"

	"docsmith/internal/content"
	"docsmith/internal/logging"
	"docsmith/internal/site"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
)

type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Quit       key.Binding
	Filter     key.Binding
	FocusLeft  key.Binding
	FocusRight key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		FocusLeft:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "focus list")),
		FocusRight: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "focus preview")),
	}
}

// focusedPane identifies which pane has keyboard focus.
type focusedPane int

const (
	focusList focusedPane = iota
	focusPreview
)

// docItem adapts a document to the bubbles list model.
type docItem struct {
	doc *content.Document
}

func (i docItem) Title() string       { return i.doc.Title() }
func (i docItem) Description() string { return i.doc.ID }
func (i docItem) FilterValue() string { return i.doc.Title() + " " + i.doc.ID }

var (
	listPaneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			PaddingRight(1)
	statusStyle = lipgloss.NewStyle().Faint(true)
)

// Browser is the Bubble Tea model for `docsmith browse`.
type Browser struct {
	logger *logging.AppLogger

	docs     []*content.Document
	docList  list.Model
	viewport viewport.Model
	keys     KeyMap

	renderer     *glamour.TermRenderer
	glamourStyle string

	width  int
	height int
	ready  bool
	focus  focusedPane
	errMsg string
}

// NewBrowser creates the browser over a loaded site model. Documents are
// presented in sidebar order.
func NewBrowser(model *site.Model, logger *logging.AppLogger) *Browser {
	docs := orderedDocs(model)

	items := make([]list.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, docItem{doc: d})
	}

	dl := list.New(items, list.NewDefaultDelegate(), 0, 0)
	dl.Title = model.Config.Title
	dl.SetShowHelp(false)
	dl.SetShowStatusBar(false)

	return &Browser{
		logger:  logger,
		docs:    docs,
		docList: dl,
		keys:    DefaultKeyMap(),
	}
}

// orderedDocs flattens the sidebar into reading order; documents the
// sidebar does not reference come after, in scan order.
func orderedDocs(model *site.Model) []*content.Document {
	var docs []*content.Document
	seen := make(map[string]bool)
	for _, id := range model.Sidebar.DocIDs() {
		if d := model.Docs.Get(id); d != nil && !seen[id] {
			docs = append(docs, d)
			seen[id] = true
		}
	}
	for _, d := range model.Docs.Docs {
		if !seen[d.ID] {
			docs = append(docs, d)
		}
	}
	return docs
}

// detectGlamourStyle picks dark or light from the terminal background,
// honoring a concrete GLAMOUR_STYLE. The timeout guards against terminals
// that never answer the background query.
func detectGlamourStyle(timeout time.Duration) string {
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" && style != "auto" {
		return style
	}

	ch := make(chan string, 1)
	go func() {
		out := termenv.NewOutput(os.Stdout)
		if out.HasDarkBackground() {
			ch <- "dark"
			return
		}
		ch <- "light"
	}()

	select {
	case style := <-ch:
		return style
	case <-time.After(timeout):
		return "dark"
	}
}

func (b *Browser) Init() tea.Cmd {
	b.glamourStyle = detectGlamourStyle(50 * time.Millisecond)
	b.logger.Debug("Glamour style selected", "style", b.glamourStyle)
	return nil
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.layout()
		b.renderer = nil // word-wrap width changed
		b.renderSelection()
		b.ready = true

	case tea.KeyMsg:
		// while the list filter is active, everything goes to the list
		if b.docList.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, b.keys.Quit):
			return b, tea.Quit
		case key.Matches(msg, b.keys.FocusRight):
			b.focus = focusPreview
			return b, nil
		case key.Matches(msg, b.keys.FocusLeft):
			b.focus = focusList
			return b, nil
		}
		if b.focus == focusPreview {
			var cmd tea.Cmd
			b.viewport, cmd = b.viewport.Update(msg)
			return b, cmd
		}
	}

	if b.focus == focusList {
		before := b.docList.Index()
		var cmd tea.Cmd
		b.docList, cmd = b.docList.Update(msg)
		cmds = append(cmds, cmd)
		if b.docList.Index() != before {
			b.renderSelection()
		}
	} else {
		var cmd tea.Cmd
		b.viewport, cmd = b.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return b, tea.Batch(cmds...)
}

// layout splits the window between the list and the preview viewport.
func (b *Browser) layout() {
	listWidth := b.width / 3
	if listWidth < 24 {
		listWidth = 24
	}
	previewWidth := b.width - listWidth - 3
	if previewWidth < 20 {
		previewWidth = 20
	}
	contentHeight := b.height - 2

	b.docList.SetSize(listWidth, contentHeight)
	b.viewport = viewport.New(previewWidth, contentHeight)
}

// renderSelection renders the currently selected document into the preview.
func (b *Browser) renderSelection() {
	item, ok := b.docList.SelectedItem().(docItem)
	if !ok {
		return
	}
	b.errMsg = ""

	if b.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(b.glamourStyle),
			glamour.WithWordWrap(b.viewport.Width-2),
		)
		if err != nil {
			b.errMsg = fmt.Sprintf("preview unavailable: %v", err)
			return
		}
		b.renderer = r
	}

	rendered, err := b.renderer.Render(string(item.doc.Body))
	if err != nil {
		b.errMsg = fmt.Sprintf("could not render %s: %v", item.doc.ID, err)
		return
	}
	b.viewport.SetContent(rendered)
	b.viewport.GotoTop()
}

func (b *Browser) View() string {
	if !b.ready {
		return "Loading..."
	}

	preview := b.viewport.View()
	if b.errMsg != "" {
		preview = b.errMsg
	}

	panes := lipgloss.JoinHorizontal(
		lipgloss.Top,
		listPaneStyle.Render(b.docList.View()),
		preview,
	)

	status := "↑/↓ navigate · / filter · ←/→ focus · q quit"
	if item, ok := b.docList.SelectedItem().(docItem); ok {
		status = item.doc.Route() + "  ·  " + status
	}
	status = truncate.StringWithTail(status, uint(maxInt(b.width, 0)), "…")

	return lipgloss.JoinVertical(lipgloss.Left, panes, statusStyle.Render(status))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
