// Package session implements the typing session as a pure transition over
// keystroke events.
package session

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxCandidates caps the candidate list when no limit is configured.
const DefaultMaxCandidates = 50

// Named control keys.
const (
	KeySpace     = " "
	KeyEscape    = "Escape"
	KeyBackspace = "Backspace"
	KeyDelete    = "Delete"
	KeyMeta      = "Meta"
	KeyEnter     = "Enter"
)

// Resolver turns pending input into ranked candidate tokens.
type Resolver interface {
	Resolve(input string) []string
}

// Event is a single keystroke.
type Event struct {
	Key string `json:"key"`
}

// Candidate is a token offered for selection at Rank.
type Candidate struct {
	Value string
	Rank  int
}

// TargetChar is one glyph of the target text.
type TargetChar struct {
	Position int
	Glyph    rune
	Consumed bool
}

// State is a snapshot of a session. Apply never modifies the State it is
// given, so snapshots can be kept and compared freely.
type State struct {
	Target     []rune
	Cursor     int
	Pending    []string
	Candidates []Candidate
}

// NewState returns the initial state for target.
func NewState(target string) State {
	return State{Target: []rune(target)}
}

// Complete reports whether the cursor reached the end of the target.
func (s State) Complete() bool {
	return s.Cursor >= len(s.Target)
}

// Remaining returns the unconsumed part of the target.
func (s State) Remaining() string {
	if s.Complete() {
		return ""
	}
	return string(s.Target[s.Cursor:])
}

// PendingText returns the pending buffer joined.
func (s State) PendingText() string {
	return strings.Join(s.Pending, "")
}

// TargetChars expands the target with consumed flags derived from the cursor.
func (s State) TargetChars() []TargetChar {
	out := make([]TargetChar, len(s.Target))
	for i, g := range s.Target {
		out[i] = TargetChar{Position: i, Glyph: g, Consumed: i < s.Cursor}
	}
	return out
}

// Apply returns the state after ev. Rules are checked in order: direct
// advance, backspace, candidate selection, accumulation. Once the target is
// complete the cursor no longer moves.
func Apply(r Resolver, limit int, s State, ev Event) State {
	key := ev.Key
	glyph, single := singleRune(key)

	if single && !s.Complete() && glyph == s.Target[s.Cursor] {
		return commit(s, s.Cursor+1)
	}

	switch key {
	case KeyBackspace, KeyDelete:
		if len(s.Pending) == 0 {
			if s.Cursor > 0 && !s.Complete() {
				s.Cursor--
			}
			return s
		}
		return withPending(r, limit, s, s.Pending[:len(s.Pending)-1])
	case KeySpace, KeyEscape, KeyMeta, KeyEnter:
		return s
	}
	if !single {
		return s
	}

	if glyph >= '0' && glyph <= '9' {
		if next, ok := selectCandidate(s, int(glyph-'0')); ok {
			return next
		}
	}

	pending := make([]string, len(s.Pending), len(s.Pending)+1)
	copy(pending, s.Pending)
	return withPending(r, limit, s, append(pending, key))
}

func selectCandidate(s State, rank int) (State, bool) {
	if rank >= len(s.Candidates) {
		return s, false
	}
	token := s.Candidates[rank].Value
	if token == "" || !strings.HasPrefix(s.Remaining(), token) {
		return s, false
	}
	return commit(s, s.Cursor+utf8.RuneCountInString(token)), true
}

func commit(s State, cursor int) State {
	if cursor > len(s.Target) {
		cursor = len(s.Target)
	}
	s.Cursor = cursor
	s.Pending = nil
	s.Candidates = nil
	return s
}

func withPending(r Resolver, limit int, s State, pending []string) State {
	s.Pending = pending
	s.Candidates = candidates(r, limit, strings.Join(pending, ""))
	return s
}

func candidates(r Resolver, limit int, input string) []Candidate {
	if input == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultMaxCandidates
	}
	tokens := r.Resolve(input)
	if len(tokens) > limit {
		tokens = tokens[:limit]
	}
	out := make([]Candidate, len(tokens))
	for i, t := range tokens {
		out[i] = Candidate{Value: t, Rank: i}
	}
	return out
}

func singleRune(key string) (rune, bool) {
	if key == "" {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError || size != len(key) {
		return 0, false
	}
	return r, true
}
