// Package ui is the terminal explorer.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/flavono123/peek/internal/explorer"
	"github.com/flavono123/peek/internal/flatten"
	"github.com/flavono123/peek/internal/present"
	"github.com/flavono123/peek/internal/ui/theme"
)

type Options struct {
	Title     string
	Theme     theme.Theme
	Presenter present.Presenter
	Layout    present.Layout
	Mode      present.Mode
	Logger    *zap.Logger
}

type Model struct {
	session *explorer.Session
	opts    Options
	log     *zap.Logger

	vp viewport.Model

	lines    []*Line
	offsets  []int // first viewport line of each row
	cursor   int
	selected string
	pending  uint64

	finding  bool
	find     textinput.Model
	matches  []explorer.Match
	matched  map[int]bool
	matchIdx int

	mode   present.Mode
	status string

	keys     keyMap
	findKeys findKeyMap
	help     help.Model
}

func NewModel(session *explorer.Session, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Theme.IsZero() {
		opts.Theme = theme.Mocha
	}
	if opts.Layout == (present.Layout{}) {
		opts.Layout = present.DefaultLayout()
	}

	find := textinput.New()
	find.Prompt = "/"
	find.Placeholder = "path"

	return &Model{
		session:  session,
		opts:     opts,
		log:      opts.Logger,
		vp:       viewport.New(0, 0),
		find:     find,
		matched:  map[int]bool{},
		mode:     opts.Mode,
		keys:     newKeyMap(),
		findKeys: newFindKeyMap(),
		help:     help.New(),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.rebuild()
}

// rebuild starts a flatten pass for the session's current state. Its
// result comes back as a rowsMsg tagged with the pass generation.
func (m *Model) rebuild() tea.Cmd {
	pass := m.session.Start(context.Background())
	m.pending = pass.Generation
	return func() tea.Msg {
		rows, err := pass.Run()
		return rowsMsg{gen: pass.Generation, rows: rows, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width
		m.vp.Height = max(1, msg.Height-NAV_HEIGHT_MARGIN)
		m.help.Width = msg.Width
		m.refresh()
	case rowsMsg:
		m.applyRows(msg)
	case RootMsg:
		if msg.Err != nil {
			m.status = "reload failed: " + msg.Err.Error()
			m.log.Warn("reload failed", zap.Error(msg.Err))
			return m, nil
		}
		m.session.SetRoot(msg.Root)
		m.status = "reloaded"
		return m, m.rebuild()
	case tea.KeyMsg:
		if m.finding {
			return m, m.updateFind(msg)
		}
		return m, m.updateKeys(msg)
	}

	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.up):
		m.moveCursor(-NAV_SCROLL_STEP)
	case key.Matches(msg, m.keys.down):
		m.moveCursor(NAV_SCROLL_STEP)
	case key.Matches(msg, m.keys.pageUp):
		m.moveCursor(-max(1, m.vp.Height))
	case key.Matches(msg, m.keys.pageDown):
		m.moveCursor(max(1, m.vp.Height))
	case key.Matches(msg, m.keys.top):
		m.moveCursor(-len(m.lines))
	case key.Matches(msg, m.keys.bottom):
		m.moveCursor(len(m.lines))
	case key.Matches(msg, m.keys.toggle):
		row, ok := m.current()
		if !ok || !row.Expandable {
			break
		}
		m.session.Toggle(row.ID)
		return m.rebuild()
	case key.Matches(msg, m.keys.expandAll):
		m.session.ExpandAll()
		return m.rebuild()
	case key.Matches(msg, m.keys.collapseAll):
		m.session.CollapseAll()
		return m.rebuild()
	case key.Matches(msg, m.keys.full):
		if m.mode == present.Full {
			m.mode = present.Compact
		} else {
			m.mode = present.Full
		}
		m.refresh()
	case key.Matches(msg, m.keys.find):
		m.finding = true
		m.find.SetValue("")
		return m.find.Focus()
	case key.Matches(msg, m.keys.nextMatch):
		m.jumpMatch(1)
	case key.Matches(msg, m.keys.prevMatch):
		m.jumpMatch(-1)
	}
	return nil
}

func (m *Model) updateFind(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.findKeys.cancel):
		m.finding = false
		m.find.Blur()
		m.setMatches(nil)
		m.status = ""
		m.refresh()
		return nil
	case key.Matches(msg, m.findKeys.accept):
		m.finding = false
		m.find.Blur()
		m.refresh()
		return nil
	}

	var cmd tea.Cmd
	m.find, cmd = m.find.Update(msg)
	m.search(m.find.Value())
	return cmd
}

func (m *Model) search(query string) {
	if query == "" {
		m.setMatches(nil)
		m.status = ""
		m.refresh()
		return
	}

	rows := make([]flatten.Row, len(m.lines))
	for i, l := range m.lines {
		rows[i] = l.row
	}
	m.setMatches(explorer.Find(query, rows))

	if len(m.matches) == 0 {
		m.status = "no match"
		m.refresh()
		return
	}
	m.matchIdx = 0
	m.setCursor(m.matches[0].Index)
}

func (m *Model) setMatches(matches []explorer.Match) {
	m.matches = matches
	m.matchIdx = 0
	m.matched = make(map[int]bool, len(matches))
	for _, match := range matches {
		m.matched[match.Index] = true
	}
}

func (m *Model) jumpMatch(delta int) {
	if len(m.matches) == 0 {
		return
	}
	m.matchIdx = (m.matchIdx + delta + len(m.matches)) % len(m.matches)
	m.setCursor(m.matches[m.matchIdx].Index)
}

// applyRows installs the rows of a finished pass unless a newer state
// has been requested since it started.
func (m *Model) applyRows(msg rowsMsg) {
	if errors.Is(msg.err, explorer.ErrSuperseded) {
		m.log.Debug("dropping superseded pass", zap.Uint64("gen", msg.gen))
		return
	}
	if msg.err != nil {
		m.status = msg.err.Error()
		m.log.Warn("flatten failed", zap.Uint64("gen", msg.gen), zap.Error(msg.err))
		return
	}
	if err := m.session.Commit(msg.gen, msg.rows); err != nil {
		m.log.Debug("dropping stale rows", zap.Uint64("gen", msg.gen), zap.Uint64("pending", m.pending))
		return
	}

	m.lines = make([]*Line, len(msg.rows))
	for i, row := range msg.rows {
		m.lines[i] = newLine(row, i, m.opts.Layout)
	}
	// matches index the previous rows
	m.setMatches(nil)

	m.cursor = 0
	for i, l := range m.lines {
		if l.row.ID == m.selected {
			m.cursor = i
			break
		}
	}
	m.setCursor(m.cursor)
}

func (m *Model) current() (flatten.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.lines) {
		return flatten.Row{}, false
	}
	return m.lines[m.cursor].row, true
}

func (m *Model) moveCursor(delta int) {
	m.setCursor(m.cursor + delta)
}

func (m *Model) setCursor(index int) {
	if len(m.lines) == 0 {
		m.cursor = NAV_CURSOR_TOP
		m.selected = ""
		m.refresh()
		return
	}
	m.cursor = min(max(index, NAV_CURSOR_TOP), len(m.lines)-1)
	m.selected = m.lines[m.cursor].row.ID
	m.refresh()
}

// refresh re-renders the rows and scrolls the viewport so the cursor row
// is visible.
func (m *Model) refresh() {
	var b strings.Builder
	leftPadding := len(strconv.Itoa(len(m.lines)))
	style := lineStyle{theme: m.opts.Theme, presenter: m.opts.Presenter, mode: m.mode}

	m.offsets = make([]int, len(m.lines))
	offset := 0
	for i, l := range m.lines {
		m.offsets[i] = offset
		offset += l.height

		style.matched = m.matched[i]
		b.WriteString(l.render(leftPadding, i == m.cursor, m.vp.Width, style))
		if i < len(m.lines)-1 {
			b.WriteString("\n")
		}
	}
	m.vp.SetContent(b.String())

	if len(m.lines) == 0 || m.vp.Height <= 0 {
		return
	}
	top := m.offsets[m.cursor]
	bottom := top + m.lines[m.cursor].height - 1
	switch {
	case top < m.vp.YOffset:
		m.vp.SetYOffset(max(0, top-NAV_EXPAND_MARGIN))
	case bottom >= m.vp.YOffset+m.vp.Height:
		m.vp.SetYOffset(bottom - m.vp.Height + 1)
	}
}

func (m *Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTopBar(),
		m.vp.View(),
		m.renderStatus(),
		m.help.View(m.keys),
	)
}

func (m *Model) renderTopBar() string {
	title := lipgloss.NewStyle().Margin(0, 1).Render(m.opts.Title)
	count := lipgloss.NewStyle().Foreground(m.opts.Theme.Blue()).
		Render(fmt.Sprintf("%d rows", len(m.lines)))
	return lipgloss.JoinHorizontal(lipgloss.Left, title, count)
}

func (m *Model) renderStatus() string {
	if m.finding {
		return m.find.View()
	}
	status := m.status
	if len(m.matches) > 0 {
		status = fmt.Sprintf("match %d/%d: %s", m.matchIdx+1, len(m.matches), m.matches[m.matchIdx].Path)
	}
	return lipgloss.NewStyle().Foreground(m.opts.Theme.Overlay1()).Render(status)
}

// Selected returns the id of the row under the cursor.
func (m *Model) Selected() string {
	return m.selected
}

// Rows returns the rows on screen.
func (m *Model) Rows() []flatten.Row {
	rows := make([]flatten.Row, len(m.lines))
	for i, l := range m.lines {
		rows[i] = l.row
	}
	return rows
}
