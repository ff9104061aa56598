package tui

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pinyipe/internal/session"
)

type styledRune struct {
	s          string
	width      int
	isSpace    bool
	breakAfter bool
}

// buildStyledRunes styles the target: typed glyphs, the glyph under the
// cursor, the rest of the current clause, then everything after it.
func buildStyledRunes(chars []session.TargetChar, cursor int) []styledRune {
	clause := clauseAt(chars, cursor)

	out := make([]styledRune, 0, len(chars))
	for _, c := range chars {
		style := pendingStyle
		switch {
		case c.Consumed:
			style = correctStyle
		case c.Position == cursor:
			style = cursorStyle
		case c.Position >= clause.start && c.Position < clause.end:
			style = currentWordStyle
		}
		out = append(out, styledRune{
			s:          style.Render(string(c.Glyph)),
			width:      runewidth.RuneWidth(c.Glyph),
			isSpace:    unicode.IsSpace(c.Glyph),
			breakAfter: isBreak(c.Glyph),
		})
	}
	return out
}

type clauseRange struct {
	start int
	end   int
}

// clauseAt returns the run of glyphs around cursor bounded by punctuation or
// spaces. The closing punctuation belongs to the clause.
func clauseAt(chars []session.TargetChar, cursor int) clauseRange {
	if cursor < 0 || cursor >= len(chars) {
		return clauseRange{start: -1, end: -1}
	}
	start := cursor
	for start > 0 && !isBreak(chars[start-1].Glyph) {
		start--
	}
	end := cursor
	for end < len(chars) && !isBreak(chars[end].Glyph) {
		end++
	}
	if end < len(chars) {
		end++
	}
	return clauseRange{start: start, end: end}
}

func isBreak(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines after the last break point that fits, or hard
// wraps when a line has none. Spaces at a break are dropped.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastBreakIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastBreakIdx >= 0 {
				head := line[:lastBreakIdx+1]
				if line[lastBreakIdx].isSpace {
					head = line[:lastBreakIdx]
				}
				out.WriteString(renderStyledRunes(head))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastBreakIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastBreakIdx = lastBreakIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastBreakIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.breakAfter {
			lastBreakIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastBreakIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].breakAfter {
			return i
		}
	}
	return -1
}
