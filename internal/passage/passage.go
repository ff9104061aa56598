// Package passage loads the target texts typed during practice.
package passage

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"
)

//go:embed default.txt
var defaultText string

// Default returns the built-in story, one passage per paragraph.
func Default() []string {
	passages, err := parse(strings.NewReader(defaultText))
	if err != nil {
		// The embedded file is never empty.
		panic(err)
	}
	return passages
}

// Load reads one passage per non-empty line from path.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only passage file.
			_ = cerr
		}
	}()
	passages, err := parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return passages, nil
}

// LoadOrDefault reads path, or returns Default when path is empty.
func LoadOrDefault(path string) ([]string, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func parse(r io.Reader) ([]string, error) {
	var passages []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		passages = append(passages, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(passages) == 0 {
		return nil, fmt.Errorf("passage list is empty")
	}
	return passages, nil
}

// Picker hands out passages in random order. It is safe for concurrent use
// so a server can share one Picker across connections.
type Picker struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	passages []string
	last     int
}

// NewPicker returns a Picker seeded with the current time.
func NewPicker(passages []string) *Picker {
	return NewPickerWithSeed(passages, time.Now().UnixNano())
}

// NewPickerWithSeed returns a deterministic Picker.
func NewPickerWithSeed(passages []string, seed int64) *Picker {
	return &Picker{
		rnd:      rand.New(rand.NewSource(seed)),
		passages: append([]string(nil), passages...),
		last:     -1,
	}
}

// Next returns a passage, never the same one twice in a row when there is a
// choice.
func (p *Picker) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.passages) == 0 {
		return ""
	}
	idx := p.rnd.Intn(len(p.passages))
	if idx == p.last && len(p.passages) > 1 {
		idx = (idx + 1 + p.rnd.Intn(len(p.passages)-1)) % len(p.passages)
	}
	p.last = idx
	return p.passages[idx]
}

// Len returns the number of passages.
func (p *Picker) Len() int {
	return len(p.passages)
}
