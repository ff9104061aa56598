// Package report formats lookup results as plain text for the CLI.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pinyipe/internal/dict"
)

// WriteCandidates prints a ranked candidate table for key.
func WriteCandidates(w io.Writer, key string, entries []dict.Entry) error {
	if _, err := fmt.Fprintf(w, "%s (%d)\n", key, len(entries)); err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "  no candidates")
		return err
	}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{fmt.Sprintf("%d", i), e.Token, fmt.Sprintf("%d", e.Frequency)})
	}
	return writeLines(w, formatTable([]string{"Rank", "Token", "Freq"}, rows, map[int]bool{0: true, 2: true}))
}

// WriteKeys prints keys in columns that fit width.
func WriteKeys(w io.Writer, keys []string, width int) error {
	if len(keys) == 0 {
		_, err := fmt.Fprintln(w, "no completions")
		return err
	}
	colWidth := 0
	for _, k := range keys {
		if cw := displayWidth(k); cw > colWidth {
			colWidth = cw
		}
	}
	perLine := 1
	if width > 0 {
		perLine = maxInt(1, (width+1)/(colWidth+1))
	}
	var rows [][]string
	for i := 0; i < len(keys); i += perLine {
		end := i + perLine
		if end > len(keys) {
			end = len(keys)
		}
		rows = append(rows, keys[i:end])
	}
	return writeLines(w, formatTable(nil, rows, nil))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, "  "+strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

// Tokens are mostly double-width CJK glyphs.
func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
