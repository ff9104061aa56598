package session

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrBadScript is returned by ParseKeys for malformed key scripts.
var ErrBadScript = errors.New("bad key script")

// Session holds the current state of one practice run. It is not safe for
// concurrent use; each learner gets its own Session.
type Session struct {
	resolver Resolver
	limit    int
	state    State
}

// New starts a session over target. A limit <= 0 selects DefaultMaxCandidates.
func New(r Resolver, target string, limit int) *Session {
	if limit <= 0 {
		limit = DefaultMaxCandidates
	}
	return &Session{resolver: r, limit: limit, state: NewState(target)}
}

// Handle applies ev and returns the resulting view.
func (s *Session) Handle(ev Event) View {
	s.state = Apply(s.resolver, s.limit, s.state, ev)
	return s.View()
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Complete reports whether the whole target was typed.
func (s *Session) Complete() bool {
	return s.state.Complete()
}

// View is the per-event output consumed by front-ends.
type View struct {
	Target     string   `json:"target"`
	Cursor     int      `json:"cursor"`
	Length     int      `json:"length"`
	Pending    string   `json:"pending"`
	Candidates []string `json:"candidates"`
	Complete   bool     `json:"complete"`
}

// View renders the current state. Candidates are "rank-token" pairs.
func (s *Session) View() View {
	st := s.state
	cands := make([]string, len(st.Candidates))
	for i, c := range st.Candidates {
		cands[i] = fmt.Sprintf("%d-%s", c.Rank, c.Value)
	}
	return View{
		Target:     string(st.Target),
		Cursor:     st.Cursor,
		Length:     len(st.Target),
		Pending:    st.PendingText(),
		Candidates: cands,
		Complete:   st.Complete(),
	}
}

var scriptKeys = map[string]string{
	"space":     KeySpace,
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"backspace": KeyBackspace,
	"bs":        KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"meta":      KeyMeta,
	"enter":     KeyEnter,
	"lt":        "<",
}

// ParseKeys turns a script line into events. Every rune is one keystroke;
// named keys are written in angle brackets, e.g. "ni<bs>i0" or "<lt>" for a
// literal '<'.
func ParseKeys(line string) ([]Event, error) {
	var events []Event
	rest := line
	for rest != "" {
		if rest[0] == '<' {
			end := strings.IndexByte(rest, '>')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated key name in %q", ErrBadScript, line)
			}
			name := strings.ToLower(rest[1:end])
			key, ok := scriptKeys[name]
			if !ok {
				return nil, fmt.Errorf("%w: unknown key <%s>", ErrBadScript, rest[1:end])
			}
			events = append(events, Event{Key: key})
			rest = rest[end+1:]
			continue
		}
		_, size := utf8.DecodeRuneInString(rest)
		events = append(events, Event{Key: rest[:size]})
		rest = rest[size:]
	}
	return events, nil
}
