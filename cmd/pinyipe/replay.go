package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/pinyipe/internal/session"
)

// replay feeds every script line to sess and prints the view after each one.
func replay(r io.Reader, w io.Writer, sess *session.Session, format string) error {
	var write func(session.View) error
	switch format {
	case "text":
		write = func(v session.View) error {
			_, err := fmt.Fprintln(w, formatView(v))
			return err
		}
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		write = func(v session.View) error { return enc.Encode(v) }
	default:
		return fmt.Errorf("--format must be text or json")
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		events, err := session.ParseKeys(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		for _, ev := range events {
			sess.Handle(ev)
		}
		if err := write(sess.View()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	return nil
}

func formatView(v session.View) string {
	parts := []string{fmt.Sprintf("%d/%d", v.Cursor, v.Length)}
	if v.Pending != "" {
		parts = append(parts, v.Pending)
	}
	if len(v.Candidates) > 0 {
		parts = append(parts, strings.Join(v.Candidates, " "))
	}
	if v.Complete {
		parts = append(parts, "done")
	}
	return strings.Join(parts, "  ")
}
