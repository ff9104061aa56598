package passage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSkipsBlankAndCommentLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.txt")
	body := "# warm-up\n你好\n\n  我们走吧  \n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(got, "|") != "你好|我们走吧" {
		t.Fatalf("unexpected passages: %q", got)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for empty passage file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	got, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if len(got) != 5 || !strings.HasPrefix(got[0], "以前有一个小村庄") {
		t.Fatalf("unexpected default passages: %q", got)
	}
}

func TestPickerAvoidsRepeats(t *testing.T) {
	p := NewPickerWithSeed([]string{"a", "b", "c"}, 1)
	prev := p.Next()
	for i := 0; i < 50; i++ {
		next := p.Next()
		if next == prev {
			t.Fatalf("picked %q twice in a row", next)
		}
		prev = next
	}
}

func TestPickerSinglePassage(t *testing.T) {
	p := NewPicker([]string{"only"})
	for i := 0; i < 3; i++ {
		if got := p.Next(); got != "only" {
			t.Fatalf("expected only, got %q", got)
		}
	}
	if p.Len() != 1 {
		t.Fatalf("expected 1 passage, got %d", p.Len())
	}
}
