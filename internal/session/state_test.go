package session

import (
	"errors"
	"strings"
	"testing"
)

type fakeResolver map[string][]string

func (f fakeResolver) Resolve(input string) []string {
	if input == "" {
		return []string{}
	}
	return append([]string{}, f[input]...)
}

var pinyin = fakeResolver{
	"n":   {"你", "您", "妮", "尼"},
	"ni":  {"你", "妮", "尼"},
	"h":   {"好", "号"},
	"ha":  {"好", "号"},
	"hao": {"好", "号"},
	"X":   {},
}

func feed(t *testing.T, s State, keys ...string) State {
	t.Helper()
	for _, k := range keys {
		s = Apply(pinyin, 0, s, Event{Key: k})
	}
	return s
}

func TestDirectAdvance(t *testing.T) {
	s := feed(t, NewState("AB"), "A")
	if s.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", s.Cursor)
	}
	if len(s.Pending) != 0 {
		t.Fatalf("expected empty buffer, got %v", s.Pending)
	}
}

func TestMismatchAccumulates(t *testing.T) {
	s := feed(t, NewState("AB"), "X")
	if s.Cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", s.Cursor)
	}
	if s.PendingText() != "X" {
		t.Fatalf("expected pending X, got %q", s.PendingText())
	}
}

func TestSelectCandidateAdvances(t *testing.T) {
	s := feed(t, NewState("你好"), "n", "i")
	if got := len(s.Candidates); got != 3 {
		t.Fatalf("expected 3 candidates, got %d", got)
	}
	s = feed(t, s, "0")
	if s.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", s.Cursor)
	}
	if len(s.Pending) != 0 || len(s.Candidates) != 0 {
		t.Fatalf("expected cleared buffer, got %v %v", s.Pending, s.Candidates)
	}
	s = feed(t, s, "h", "a", "o", "0")
	if !s.Complete() {
		t.Fatalf("expected complete session, cursor %d", s.Cursor)
	}
}

func TestInvalidSelectionFallsThrough(t *testing.T) {
	s := feed(t, NewState("你好"), "n", "i")
	before := s.Cursor
	// 妮 does not prefix the remaining text.
	s = feed(t, s, "1")
	if s.Cursor != before {
		t.Fatalf("expected cursor %d, got %d", before, s.Cursor)
	}
	if s.PendingText() != "ni1" {
		t.Fatalf("expected digit to be accumulated, got %q", s.PendingText())
	}
	if len(s.Candidates) != 0 {
		t.Fatalf("expected no candidates for ni1, got %v", s.Candidates)
	}
}

func TestSelectionOutOfRange(t *testing.T) {
	s := feed(t, NewState("你好"), "n", "i", "7")
	if s.Cursor != 0 || s.PendingText() != "ni7" {
		t.Fatalf("unexpected state: cursor %d pending %q", s.Cursor, s.PendingText())
	}
}

func TestBackspaceEmptyBuffer(t *testing.T) {
	s := feed(t, NewState("ABC"), "A", "B")
	s = feed(t, s, KeyBackspace)
	if s.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", s.Cursor)
	}
	s = feed(t, s, KeyDelete, KeyBackspace)
	if s.Cursor != 0 {
		t.Fatalf("expected cursor floor 0, got %d", s.Cursor)
	}
}

func TestBackspaceWithBuffer(t *testing.T) {
	s := feed(t, NewState("你好"), "n", "i", KeyBackspace)
	if s.PendingText() != "n" {
		t.Fatalf("expected pending n, got %q", s.PendingText())
	}
	if len(s.Candidates) != 4 || s.Candidates[1].Value != "您" {
		t.Fatalf("expected candidates for n, got %v", s.Candidates)
	}
	s = feed(t, s, KeyBackspace)
	if len(s.Pending) != 0 || len(s.Candidates) != 0 || s.Cursor != 0 {
		t.Fatalf("unexpected state after clearing buffer: %+v", s)
	}
}

func TestControlKeysIgnored(t *testing.T) {
	start := feed(t, NewState("你好"), "n")
	for _, k := range []string{KeySpace, KeyEscape, KeyMeta, KeyEnter, "Shift", "ArrowLeft", ""} {
		s := feed(t, start, k)
		if s.PendingText() != "n" || s.Cursor != 0 {
			t.Fatalf("key %q changed state: %+v", k, s)
		}
	}
}

func TestSpaceGlyphAdvances(t *testing.T) {
	s := feed(t, NewState("a b"), "a", KeySpace)
	if s.Cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", s.Cursor)
	}
}

func TestTerminalFreezesCursor(t *testing.T) {
	s := feed(t, NewState("A"), "A")
	if !s.Complete() {
		t.Fatalf("expected complete")
	}
	s = feed(t, s, KeyBackspace, "A")
	if s.Cursor != 1 {
		t.Fatalf("expected cursor to stay at 1, got %d", s.Cursor)
	}
	if s.PendingText() != "A" {
		t.Fatalf("expected buffer updates after completion, got %q", s.PendingText())
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := feed(t, NewState("你好"), "n", "i")
	pending := strings.Join(s.Pending, "")
	first := s.Candidates[0]
	_ = Apply(pinyin, 0, s, Event{Key: KeyBackspace})
	_ = Apply(pinyin, 0, s, Event{Key: "0"})
	_ = Apply(pinyin, 0, s, Event{Key: "x"})
	if strings.Join(s.Pending, "") != pending || s.Candidates[0] != first || s.Cursor != 0 {
		t.Fatalf("input state mutated: %+v", s)
	}
}

func TestCandidateCap(t *testing.T) {
	s := Apply(pinyin, 2, NewState("你好"), Event{Key: "n"})
	if len(s.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(s.Candidates))
	}
	if s.Candidates[1].Rank != 1 {
		t.Fatalf("expected rank 1, got %d", s.Candidates[1].Rank)
	}
}

func TestTargetChars(t *testing.T) {
	s := feed(t, NewState("你好"), "n", "i", "0")
	chars := s.TargetChars()
	if len(chars) != 2 || !chars[0].Consumed || chars[1].Consumed || chars[1].Glyph != '好' || chars[1].Position != 1 {
		t.Fatalf("unexpected target chars: %+v", chars)
	}
}

func TestSessionView(t *testing.T) {
	sess := New(pinyin, "你好", 0)
	sess.Handle(Event{Key: "n"})
	view := sess.Handle(Event{Key: "i"})
	if view.Pending != "ni" || view.Length != 2 || view.Cursor != 0 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if strings.Join(view.Candidates, " ") != "0-你 1-妮 2-尼" {
		t.Fatalf("unexpected candidates: %v", view.Candidates)
	}
	view = sess.Handle(Event{Key: "0"})
	if view.Cursor != 1 || view.Pending != "" || len(view.Candidates) != 0 || view.Complete {
		t.Fatalf("unexpected view after selection: %+v", view)
	}
}

func TestParseKeys(t *testing.T) {
	events, err := ParseKeys("ni<bs>i0<Space><lt>好")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var keys []string
	for _, ev := range events {
		keys = append(keys, ev.Key)
	}
	want := []string{"n", "i", KeyBackspace, "i", "0", KeySpace, "<", "好"}
	if strings.Join(keys, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %q, got %q", want, keys)
	}
}

func TestParseKeysErrors(t *testing.T) {
	for _, line := range []string{"ni<bs", "<Shift>"} {
		if _, err := ParseKeys(line); !errors.Is(err, ErrBadScript) {
			t.Fatalf("%q: expected ErrBadScript, got %v", line, err)
		}
	}
}
