package browse

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pinyipe/internal/dict"
)

type stubLookup struct{}

func (stubLookup) ResolveEntries(input string) []dict.Entry {
	switch input {
	case "ni":
		return []dict.Entry{{Token: "你", Frequency: 9}, {Token: "妮", Frequency: 5}, {Token: "尼", Frequency: 3}}
	case "n":
		return []dict.Entry{{Token: "你", Frequency: 9}, {Token: "您", Frequency: 7}}
	}
	return []dict.Entry{}
}

func (stubLookup) Completions(prefix string) []string {
	if strings.HasPrefix("nin", prefix) || strings.HasPrefix("ni", prefix) {
		return []string{"ni", "nin"}
	}
	return []string{}
}

func sized(m *Model) *Model {
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	return m
}

func TestInitialQuery(t *testing.T) {
	m := sized(NewModel(stubLookup{}, 0, "ni"))
	if len(m.entries) != 3 || len(m.completions) != 2 {
		t.Fatalf("unexpected results: %d entries, %d completions", len(m.entries), len(m.completions))
	}
	out := m.View()
	if !strings.Contains(out, "Candidates (3)") || !strings.Contains(out, "妮") {
		t.Fatalf("unexpected view: %s", out)
	}
}

func TestTypingRefreshesResults(t *testing.T) {
	m := sized(NewModel(stubLookup{}, 0, ""))
	if !strings.Contains(m.View(), "Type a syllable") {
		t.Fatalf("expected hint for empty query")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if m.query != "n" || len(m.entries) != 2 {
		t.Fatalf("expected results for n, got %q %v", m.query, m.entries)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.query != "" || len(m.entries) != 0 || m.completions != nil {
		t.Fatalf("expected cleared results, got %q %v %v", m.query, m.entries, m.completions)
	}
}

func TestLimitCapsCandidates(t *testing.T) {
	m := NewModel(stubLookup{}, 2, "ni")
	if len(m.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m.entries))
	}
}

func TestTabSwitchesToCompletions(t *testing.T) {
	m := sized(NewModel(stubLookup{}, 0, "ni"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.activeTab != tabCompletions {
		t.Fatalf("expected completions tab")
	}
	if !strings.Contains(m.View(), "nin") {
		t.Fatalf("expected completions in view")
	}
}

func TestQuitKeys(t *testing.T) {
	m := NewModel(stubLookup{}, 0, "")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc}); cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
