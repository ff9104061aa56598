package ptrie

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// hao, ni, nin, ning
const smallPacked = "hao,ni0;!n0;!g"

func TestCompletionsWalksPrefix(t *testing.T) {
	trie, err := Decode(smallPacked)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := trie.Completions("ni")
	want := []string{"ni", "nin", "ning"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCompletionsIncludesExactKey(t *testing.T) {
	trie, err := Decode(smallPacked)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := trie.Completions("ning")
	if len(got) != 1 || got[0] != "ning" {
		t.Fatalf("expected [ning], got %v", got)
	}
}

func TestCompletionsMissingPathIsEmpty(t *testing.T) {
	trie, err := Decode(smallPacked)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, prefix := range []string{"x", "nix", "haoo", "ha o"} {
		got := trie.Completions(prefix)
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty slice for %q, got %#v", prefix, got)
		}
	}
}

func TestCompletionsInsideLabel(t *testing.T) {
	trie, err := Decode(smallPacked)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := trie.Completions("ha")
	if len(got) != 1 || got[0] != "hao" {
		t.Fatalf("expected [hao], got %v", got)
	}
	if trie.Contains("ha") {
		t.Fatalf("ha is only a prefix, not a key")
	}
}

func TestCompletionsEmptyPrefixListsAllKeysSorted(t *testing.T) {
	trie, err := Decode(smallPacked)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := trie.Completions("")
	want := "hao,ni,nin,ning"
	if strings.Join(got, ",") != want {
		t.Fatalf("expected %s, got %v", want, got)
	}
}

func TestDecodeSymbols(t *testing.T) {
	// symbol 0 names node 2, so "!n0" jumps there instead of to a relative child.
	trie, err := Decode("0:2;hao,ni1;!n0;!g")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"hao", "ni", "nin", "ning"} {
		if !trie.Contains(key) {
			t.Fatalf("expected key %q", key)
		}
	}
}

func TestDecodeSharedSuffix(t *testing.T) {
	trie, err := Decode("b0c0;an")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := strings.Join(trie.Completions(""), ",")
	if got != "ban,can" {
		t.Fatalf("expected ban,can, got %s", got)
	}
	if got := trie.Completions("c"); len(got) != 1 || got[0] != "can" {
		t.Fatalf("expected [can], got %v", got)
	}
}

func TestDecodeMultiDigitReference(t *testing.T) {
	// "00" is 36: node 0 links to node 37.
	nodes := make([]string, 38)
	nodes[0] = "a00"
	for i := 1; i < 37; i++ {
		nodes[i] = "z"
	}
	nodes[37] = "!"
	trie, err := Decode(strings.Join(nodes, ";"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !trie.Contains("a") {
		t.Fatalf("expected key a")
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"dangling ref":    "ab5",
		"symbol order":    "1:1;a0;!",
		"duplicate edge":  "a,ab",
		"bare reference":  "0",
		"cycle by symbol": "0:0;a0",
		"only symbols":    "0:1",
	}
	for name, packed := range cases {
		if _, err := Decode(packed); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: expected ErrMalformed, got %v", name, err)
		}
	}
}

func TestLoadTrimsTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinyin.ptrie")
	if err := os.WriteFile(path, []byte(smallPacked+"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	trie, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !trie.Contains("ning") {
		t.Fatalf("expected key ning")
	}
}

func TestFromAlphaCode(t *testing.T) {
	cases := map[string]int{"0": 0, "9": 9, "A": 10, "Z": 35, "00": 36, "0Z": 71, "10": 72, "ZZ": 1331, "000": 1332}
	for in, want := range cases {
		got, err := fromAlphaCode(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got != want {
			t.Fatalf("%s: expected %d, got %d", in, want, got)
		}
	}
}
