package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/kinview/internal/datasource"
	"github.com/vanderheijden86/kinview/pkg/config"
	"github.com/vanderheijden86/kinview/pkg/debug"
	"github.com/vanderheijden86/kinview/pkg/family"
	"github.com/vanderheijden86/kinview/pkg/metrics"
	"github.com/vanderheijden86/kinview/pkg/view"
	"github.com/vanderheijden86/kinview/pkg/watcher"
)

// Default dimensions used until the terminal reports its size.
const (
	defaultWidth  = 100
	defaultHeight = 40
	maxPanelWidth = 90
)

// focus represents which UI element has keyboard focus
type focus int

const (
	focusTree focus = iota
	focusSearch
	focusHelp
)

// FileChangedMsg is sent when the record file changes on disk. Err is set
// when the watcher lost the file instead.
type FileChangedMsg struct {
	Err error
}

// RecordReloadedMsg carries the outcome of re-reading the record file.
type RecordReloadedMsg struct {
	Record *family.Record
	Source datasource.DataSource
	Err    error
}

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		ev := <-w.Events()
		return FileChangedMsg{Err: ev.Err}
	}
}

// ReloadRecordCmd re-reads src off the UI goroutine.
func ReloadRecordCmd(src datasource.DataSource) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		r, err := datasource.LoadSource(src)
		debug.LogTiming("ui: reload "+src.Path, time.Since(start))
		return RecordReloadedMsg{Record: r, Source: src, Err: err}
	}
}

// Model is the main Bubble Tea model for the family view.
type Model struct {
	state  *view.State
	source datasource.DataSource
	cfg    config.Config
	theme  Theme

	search   textinput.Model
	viewport viewport.Model
	watcher  *watcher.Watcher

	width     int
	height    int
	focused   focus
	sectionID view.SectionID
	anchors   map[view.SectionID]int

	helpContent   string
	statusMsg     string
	statusIsError bool
}

// NewModel builds the model for r loaded from src. When src is a file on
// disk a watcher is started so edits show up without a restart.
func NewModel(r *family.Record, src datasource.DataSource, cfg config.Config) Model {
	state := view.New(r)
	for id, open := range cfg.UI.Expanded {
		state.SetExpanded(view.SectionID(id), open)
	}

	theme := DefaultTheme(lipgloss.DefaultRenderer())

	ti := textinput.New()
	ti.Placeholder = "Search by name..."
	ti.Prompt = "/ "
	ti.PromptStyle = theme.Title
	ti.CharLimit = 120

	m := Model{
		state:     state,
		source:    src,
		cfg:       cfg,
		theme:     theme,
		search:    ti,
		width:     defaultWidth,
		height:    defaultHeight,
		sectionID: view.SectionGrandfather,
	}
	m.viewport = viewport.New(m.width, m.bodyHeight())
	m.search.Width = m.width - 4

	if src.Watchable() {
		w, err := watcher.Watch(src.Path, watcher.Options{
			Debounce:     cfg.Watch.Debounce,
			PollInterval: cfg.Watch.PollInterval,
			ForcePoll:    cfg.Watch.ForcePoll,
		})
		if err != nil {
			debug.Log("ui: not watching %s: %v", src.Path, err)
		} else {
			m.watcher = w
		}
	}

	m.refresh()
	return m
}

// WithQuery returns the model with q already typed into the search box.
func (m Model) WithQuery(q string) Model {
	m.search.SetValue(q)
	m.setQuery(q)
	return m
}

// Init starts the file watcher loop when there is one.
func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

// Stop releases the file watcher.
func (m *Model) Stop() {
	if m.watcher != nil {
		m.watcher.Close()
	}
}

// State exposes the view state, mostly for tests.
func (m Model) State() *view.State { return m.state }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width
		m.viewport.Height = m.bodyHeight()
		m.search.Width = max(m.width-4, 10)
		if m.focused == focusHelp {
			m.helpContent = renderHelp(m.width, m.source.String())
		}
		m.refresh()
		return m, nil

	case FileChangedMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Watching %s: %v", m.source.Path, msg.Err)
			m.statusIsError = true
			if m.watcher != nil {
				return m, WatchFileCmd(m.watcher)
			}
			return m, nil
		}
		return m, ReloadRecordCmd(m.source)

	case RecordReloadedMsg:
		m.applyReload(msg)
		if m.watcher != nil {
			return m, WatchFileCmd(m.watcher)
		}
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		m.statusIsError = false

		switch m.focused {
		case focusSearch:
			return m.handleSearchKeys(msg)
		case focusHelp:
			return m.handleHelpKeys(msg)
		default:
			return m.handleTreeKeys(msg)
		}
	}

	if m.focused == focusSearch {
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m Model) handleTreeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Stop()
		return m, tea.Quit
	case "/":
		m.focused = focusSearch
		return m, m.search.Focus()
	case "?":
		m.focused = focusHelp
		m.helpContent = renderHelp(m.width, m.source.String())
	case "esc":
		if m.state.Query() != "" {
			m.search.SetValue("")
			m.setQuery("")
		}
	case "1":
		m.toggle(view.SectionGrandfather)
	case "2":
		m.toggle(view.SectionGrandfatherWives)
	case "3":
		m.toggle(view.SectionSiblings)
	case "enter", " ":
		m.toggle(m.sectionID)
	case "j", "down":
		m.moveFocus(1, false)
	case "k", "up":
		m.moveFocus(-1, false)
	case "tab":
		m.moveFocus(1, true)
	case "shift+tab":
		m.moveFocus(-1, true)
	case "g", "home":
		m.viewport.GotoTop()
	case "G", "end":
		m.viewport.GotoBottom()
	case "ctrl+d", "pgdown":
		m.viewport.HalfViewDown()
	case "ctrl+u", "pgup":
		m.viewport.HalfViewUp()
	case "y":
		m.copyToClipboard()
	}
	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Stop()
		return m, tea.Quit
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.focused = focusTree
		m.setQuery("")
		return m, nil
	case "enter", "tab":
		m.search.Blur()
		m.focused = focusTree
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.state.Query() {
		m.setQuery(v)
	}
	return m, cmd
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Stop()
		return m, tea.Quit
	case "?", "esc", "q", "enter":
		m.focused = focusTree
		m.helpContent = ""
	}
	return m, nil
}

// setQuery runs the search and scrolls back to the results panel.
func (m *Model) setQuery(q string) {
	m.state.SetQuery(q)
	m.refresh()
	m.viewport.GotoTop()
}

// toggle flips one section and keeps focus on a header that is still shown.
func (m *Model) toggle(id view.SectionID) {
	m.state.Toggle(id)
	m.fixFocus()
	m.refresh()
	m.followFocus()
}

// moveFocus steps through the visible headers. wrap makes the ends meet.
func (m *Model) moveFocus(delta int, wrap bool) {
	ids := visibleSections(m.state)
	i := indexOf(ids, m.sectionID) + delta
	if wrap {
		i = (i + len(ids)) % len(ids)
	} else {
		i = clampInt(i, 0, len(ids)-1)
	}
	m.sectionID = ids[i]
	m.refresh()
	m.followFocus()
}

// fixFocus moves focus to the enclosing header when the focused one was
// hidden by a toggle.
func (m *Model) fixFocus() {
	ids := visibleSections(m.state)
	if indexOf(ids, m.sectionID) >= 0 {
		return
	}
	if strings.HasPrefix(string(m.sectionID), "sibling/") {
		m.sectionID = view.SectionSiblings
		return
	}
	m.sectionID = view.SectionGrandfather
}

// followFocus scrolls the viewport so the focused header is on screen.
func (m *Model) followFocus() {
	line, ok := m.anchors[m.sectionID]
	if !ok {
		return
	}
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func indexOf(ids []view.SectionID, id view.SectionID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// applyReload swaps in a reloaded record, keeping the query and toggles.
func (m *Model) applyReload(msg RecordReloadedMsg) {
	if msg.Err != nil {
		m.statusMsg = fmt.Sprintf("Reload failed: %v", msg.Err)
		m.statusIsError = true
		return
	}
	diff := datasource.Diff(m.state.Record(), msg.Record)
	debug.Dump("ui: reload diff", diff)
	m.state = m.state.WithRecord(msg.Record)
	m.source = msg.Source
	m.source.PersonCount = diff.CountB
	m.fixFocus()
	m.refresh()
	m.statusMsg = "Reloaded: " + diff.Summary()
	debug.Log("ui: reloaded %s: %s", m.source.Path, diff.Summary())
}

// copyToClipboard copies the search results when a filter is active and
// the focused section otherwise.
func (m *Model) copyToClipboard() {
	var text, what string
	if entries, active := m.state.ResultEntries(); active {
		if len(entries) == 0 {
			m.statusMsg = "No search results to copy"
			m.statusIsError = true
			return
		}
		lines := make([]string, len(entries))
		for i, e := range entries {
			lines[i] = e.Name + "\t" + describeEntry(e)
		}
		text = strings.Join(lines, "\n")
		what = fmt.Sprintf("%d search results", len(entries))
	} else {
		text, what = sectionCopy(m.state, m.sectionID)
		if text == "" {
			m.statusMsg = "Nothing to copy"
			m.statusIsError = true
			return
		}
	}

	if err := clipboardWrite(text); err != nil {
		m.statusMsg = fmt.Sprintf("Clipboard error: %v", err)
		m.statusIsError = true
		return
	}
	m.statusMsg = fmt.Sprintf("Copied %s to clipboard", what)
}

func (m Model) bodyHeight() int {
	// title, search box, spacer, footer
	return max(m.height-4, 3)
}

func (m Model) panelWidth() int {
	return clampInt(m.width-2, 20, maxPanelWidth)
}

func (m Model) renderer() cardRenderer {
	return cardRenderer{
		theme:      m.theme,
		state:      m.state,
		width:      clampInt(max(m.cfg.UI.CardWidth, cardWidthFor(m.state)), 20, m.panelWidth()),
		panelWidth: m.panelWidth(),
		focused:    m.sectionID,
	}
}

// renderBody draws everything below the search box.
func (m *Model) renderBody() string {
	defer metrics.Timer(metrics.UIRender)()

	c := m.renderer()
	b := newBody()
	if m.cfg.ResultsPanelEnabled() {
		if res := c.results(); res != "" {
			b.add(res)
			b.add("")
		}
	}
	c.grandfather(b)
	b.add("")
	c.siblings(b)
	b.add("")
	b.add(c.future())

	m.anchors = b.anchors
	return b.String()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderBody())
}

func (m Model) View() string {
	title := m.theme.Header.Render(m.cfg.Export.Title)
	sourceLabel := m.theme.MutedText.Render(" " + truncate(m.source.String(), max(m.width-lipgloss.Width(title)-2, 0)))
	top := lipgloss.JoinHorizontal(lipgloss.Top, title, sourceLabel)

	var main string
	if m.focused == focusHelp {
		main = m.theme.Renderer.NewStyle().
			Width(m.width).
			Height(m.bodyHeight()).
			MaxHeight(m.bodyHeight()).
			Render(m.helpContent)
	} else {
		main = m.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		m.searchLine(),
		"",
		main,
		m.renderFooter(),
	)
}

func (m Model) searchLine() string {
	if m.focused == focusSearch || m.state.Query() != "" {
		return m.search.View()
	}
	return m.theme.MutedText.Render("/ Search by name...")
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		var msgStyle lipgloss.Style
		prefix := "✓ "
		if m.statusIsError {
			prefix = "✗ "
			msgStyle = m.theme.Renderer.NewStyle().
				Background(ColorDangerBg).
				Foreground(ColorDanger).
				Bold(true).
				Padding(0, 2)
		} else {
			msgStyle = m.theme.Renderer.NewStyle().
				Background(ColorSuccessBg).
				Foreground(ColorSuccess).
				Bold(true).
				Padding(0, 2)
		}
		return msgStyle.Render(truncate(prefix+m.statusMsg, max(m.width-4, 1)))
	}

	keyStyle := m.theme.Renderer.NewStyle().Foreground(ColorPrimary).Bold(true)
	labelStyle := m.theme.Renderer.NewStyle().Foreground(ColorMuted)

	type hint struct {
		key   string
		label string
	}
	var hints []hint
	switch m.focused {
	case focusSearch:
		hints = []hint{{"enter", "done"}, {"esc", "clear"}, {"ctrl+c", "quit"}}
	case focusHelp:
		hints = []hint{{"?", "close"}}
	default:
		hints = []hint{
			{"/", "search"},
			{"j/k", "focus"},
			{"enter", "toggle"},
			{"1-3", "sections"},
			{"y", "copy"},
			{"?", "help"},
			{"q", "quit"},
		}
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = keyStyle.Render(h.key) + " " + labelStyle.Render(h.label)
	}
	bar := strings.Join(parts, labelStyle.Render(" │ "))
	if res, active := m.state.Results(); active {
		bar += labelStyle.Render(fmt.Sprintf("   %d found", len(res)))
	}
	return truncateStyled(bar, m.width)
}

// truncateStyled clips a rendered line to width cells.
func truncateStyled(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
