// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pinyipe/internal/model"
	"github.com/verte-zerg/pinyipe/internal/passage"
	"github.com/verte-zerg/pinyipe/internal/session"
)

// Model implements the Bubble Tea typing UI.
type Model struct {
	config   model.Config
	resolver session.Resolver
	picker   *passage.Picker
	sess     *session.Session

	keys keyMap
	help help.Model

	width  int
	height int

	passages  int
	completed int
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	inputStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	candidateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	rankStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a typing TUI model.
func NewModel(cfg model.Config, resolver session.Resolver, picker *passage.Picker) *Model {
	m := &Model{
		config:   cfg,
		resolver: resolver,
		picker:   picker,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	m.help.Styles.ShortKey = footerStyle
	m.help.Styles.ShortDesc = footerStyle
	m.help.Styles.ShortSeparator = footerStyle
	m.nextPassage()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.nextPassage()
			return m, nil
		}
		m.handleKey(msg)
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	for _, ev := range keyEvents(msg) {
		m.sess.Handle(ev)
		if m.sess.Complete() {
			m.completed++
			m.nextPassage()
			return
		}
	}
}

func (m *Model) nextPassage() {
	m.sess = session.New(m.resolver, m.picker.Next(), m.config.MaxCandidates)
	m.passages++
}

// View implements tea.Model.
func (m *Model) View() string {
	state := m.sess.State()
	if len(state.Target) == 0 {
		return ""
	}
	styledRunes := buildStyledRunes(state.TargetChars(), state.Cursor)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes) + "\n" + m.renderInput(0)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Width(contentWidth).Render(wrapped),
		"",
		m.renderInput(contentWidth),
	)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

// renderInput shows the pending syllable and the numbered candidates.
func (m *Model) renderInput(width int) string {
	state := m.sess.State()
	pending := state.PendingText()
	if pending == "" {
		return footerStyle.Render("> ")
	}
	line := inputStyle.Render("> " + pending)
	if len(state.Candidates) == 0 {
		return line + "\n" + incorrectStyle.Render("no candidates")
	}
	parts := make([]string, 0, len(state.Candidates))
	for _, c := range state.Candidates {
		parts = append(parts, rankStyle.Render(fmt.Sprintf("%d", c.Rank))+candidateStyle.Render("-"+c.Value))
	}
	cands := strings.Join(parts, "  ")
	if width > 0 {
		cands = lipgloss.NewStyle().Width(width).Render(cands)
	}
	return line + "\n" + cands
}

func (m *Model) renderFooter() string {
	state := m.sess.State()
	if len(state.Target) == 0 {
		return ""
	}
	progress := state.Cursor * 100 / len(state.Target)
	segments := []string{
		fmt.Sprintf("Progress %d%%", progress),
		fmt.Sprintf("Passage %d", m.passages),
		fmt.Sprintf("Completed %d", m.completed),
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	return footer + "  " + m.help.View(m.keys)
}
