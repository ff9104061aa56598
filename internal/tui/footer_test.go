package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pinyipe/internal/model"
	"github.com/verte-zerg/pinyipe/internal/passage"
)

type stubResolver map[string][]string

func (s stubResolver) Resolve(input string) []string {
	return s[input]
}

func newTestModel(texts ...string) *Model {
	picker := passage.NewPickerWithSeed(texts, 1)
	return NewModel(model.Config{MaxCandidates: 5}, stubResolver{"ni": {"你", "妮"}, "hao": {"好"}}, picker)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel("abcd")
	m.Update(runes("ab"))
	out := m.renderFooter()
	if !containsAll(out, []string{"Progress 50%", "Passage 1", "Completed 0", "quit"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestCandidatesRendered(t *testing.T) {
	m := newTestModel("你好")
	m.Update(runes("ni"))
	out := m.renderInput(0)
	if !containsAll(out, []string{"> ni", "0", "-你", "1", "-妮"}) {
		t.Fatalf("unexpected input line: %s", out)
	}
	m.Update(runes("x"))
	if !strings.Contains(m.renderInput(0), "no candidates") {
		t.Fatalf("expected no-candidates hint")
	}
}

func TestCompletingPassageStartsNext(t *testing.T) {
	m := newTestModel("你好")
	m.Update(runes("ni0"))
	if m.sess.State().Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.sess.State().Cursor)
	}
	m.Update(runes("hao0"))
	if m.completed != 1 || m.passages != 2 {
		t.Fatalf("expected a fresh passage, got completed=%d passages=%d", m.completed, m.passages)
	}
	if m.sess.State().Cursor != 0 {
		t.Fatalf("expected new session at cursor 0")
	}
}

func TestBackspaceRetreats(t *testing.T) {
	m := newTestModel("ab")
	m.Update(runes("a"))
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.sess.State().Cursor != 0 {
		t.Fatalf("expected cursor 0 after backspace, got %d", m.sess.State().Cursor)
	}
}

func TestQuitAndNextKeys(t *testing.T) {
	m := newTestModel("ab", "cd")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Fatalf("expected quit command")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.passages != 2 {
		t.Fatalf("expected second passage, got %d", m.passages)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
