package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pinyipe/internal/session"
)

type keyMap struct {
	Quit   key.Binding
	Next   key.Binding
	Select key.Binding
	Back   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Next: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next passage"),
		),
		// Select and Back are handled by the session; the bindings only
		// document them in the footer.
		Select: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "pick"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "delete"),
			key.WithHelp("bksp", "back"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Back, k.Next, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// keyEvents translates a terminal key press into session events.
func keyEvents(msg tea.KeyMsg) []session.Event {
	switch msg.Type {
	case tea.KeyBackspace:
		return []session.Event{{Key: session.KeyBackspace}}
	case tea.KeyDelete:
		return []session.Event{{Key: session.KeyDelete}}
	case tea.KeySpace:
		return []session.Event{{Key: session.KeySpace}}
	case tea.KeyEsc:
		return []session.Event{{Key: session.KeyEscape}}
	case tea.KeyEnter:
		return []session.Event{{Key: session.KeyEnter}}
	case tea.KeyRunes:
		if msg.Alt {
			return []session.Event{{Key: session.KeyMeta}}
		}
		events := make([]session.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, session.Event{Key: string(r)})
		}
		return events
	default:
		return nil
	}
}
