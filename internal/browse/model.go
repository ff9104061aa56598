// Package browse provides the Bubble Tea dictionary browser.
package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pinyipe/internal/dict"
)

const (
	tabCandidates = iota
	tabCompletions
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Lookup is the read-only view of the engine the browser needs.
type Lookup interface {
	ResolveEntries(input string) []dict.Entry
	Completions(prefix string) []string
}

// Model implements the Bubble Tea browser UI.
type Model struct {
	lookup Lookup
	limit  int

	tabs      []string
	activeTab int
	input     textinput.Model
	table     table.Model
	viewport  viewport.Model

	query       string
	entries     []dict.Entry
	completions []string

	width  int
	height int
}

// NewModel constructs a browser. limit caps the candidate table; the
// completion list is never capped.
func NewModel(lookup Lookup, limit int, query string) *Model {
	m := &Model{
		lookup:   lookup,
		limit:    limit,
		tabs:     []string{"Candidates", "Completions"},
		input:    newQueryInput(),
		viewport: viewport.New(0, 0),
	}
	m.table = table.New(
		table.WithColumns(candidateColumns()),
		table.WithHeight(1),
		table.WithFocused(true),
	)
	m.table.SetStyles(tableStyles())
	m.input.SetValue(query)
	m.refresh()
	return m
}

func newQueryInput() textinput.Model {
	input := textinput.New()
	input.Prompt = "Pinyin: "
	input.Placeholder = "ni"
	input.CharLimit = 32
	input.Cursor.SetMode(cursor.CursorBlink)
	input.Focus()
	return input
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyShiftTab:
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			return m, tea.ClearScreen
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			return m.scroll(msg)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != m.query {
			m.refresh()
		}
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) scroll(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.activeTab == tabCandidates {
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refresh re-runs the query typed so far.
func (m *Model) refresh() {
	m.query = m.input.Value()
	q := strings.ToLower(strings.TrimSpace(m.query))
	m.entries = m.lookup.ResolveEntries(q)
	if m.limit > 0 && len(m.entries) > m.limit {
		m.entries = m.entries[:m.limit]
	}
	if q == "" {
		m.completions = nil
	} else {
		m.completions = m.lookup.Completions(q)
	}
	m.table.SetRows(candidateRows(m.entries))
	m.table.GotoTop()
	m.viewport.SetContent(strings.Join(m.completions, "\n"))
	m.viewport.GotoTop()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 2
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
	m.table.SetWidth(m.width)
	m.table.SetHeight(maxInt(1, bodyHeight-1))
	m.input.Width = maxInt(10, m.width-lipgloss.Width(m.input.Prompt)-2)
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		label := tab
		switch i {
		case tabCandidates:
			label = fmt.Sprintf("%s (%d)", tab, len(m.entries))
		case tabCompletions:
			label = fmt.Sprintf("%s (%d)", tab, len(m.completions))
		}
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(label))
		} else {
			parts = append(parts, inactiveNavStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + padLine(m.input.View(), m.width) + "\n"
}

func (m *Model) renderBody() string {
	if strings.TrimSpace(m.query) == "" {
		return headerStyle.Render("Type a syllable to look it up.")
	}
	if m.activeTab == tabCandidates {
		if len(m.entries) == 0 {
			return "No candidates."
		}
		return tableMutedStyle.Render(m.table.View())
	}
	if len(m.completions) == 0 {
		return "No completions."
	}
	return m.viewport.View()
}

func (m *Model) renderFooter() string {
	return headerStyle.Render(truncateLine("Tabs: tab  Scroll: up/down/pgup/pgdn  Quit: esc", m.width))
}

func candidateColumns() []table.Column {
	return []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Token", Width: 12},
		{Title: "Frequency", Width: 10},
	}
}

func candidateRows(entries []dict.Entry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i),
			e.Token,
			fmt.Sprintf("%d", e.Frequency),
		})
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
