// Package engine resolves pinyin input into ranked candidate tokens.
//
// An Engine bundles the dictionary and the prefix index. Both are read-only
// after construction, so a single Engine can serve any number of sessions.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/pinyipe/internal/dict"
	"github.com/verte-zerg/pinyipe/internal/ptrie"
)

// ErrKeyMismatch is returned when the trie and the dictionary disagree on
// the key set.
var ErrKeyMismatch = errors.New("trie keys do not match dictionary keys")

// Engine is the candidate resolver.
type Engine struct {
	dict *dict.Store
	trie *ptrie.Trie
}

// New checks that every trie key is a dictionary key and vice versa.
func New(store *dict.Store, trie *ptrie.Trie) (*Engine, error) {
	keys := trie.Completions("")
	for _, key := range keys {
		if !store.Has(key) {
			return nil, fmt.Errorf("%w: %q is in the trie only", ErrKeyMismatch, key)
		}
	}
	if len(keys) != store.Len() {
		for _, key := range store.Keys() {
			if !trie.Contains(key) {
				return nil, fmt.Errorf("%w: %q is in the dictionary only", ErrKeyMismatch, key)
			}
		}
	}
	return &Engine{dict: store, trie: trie}, nil
}

// Load reads the dictionary and the packed trie concurrently.
func Load(ctx context.Context, dictPath, triePath string) (*Engine, error) {
	var (
		store *dict.Store
		trie  *ptrie.Trie
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		store, err = dict.Load(gctx, dictPath)
		return err
	})
	g.Go(func() error {
		var err error
		trie, err = ptrie.Load(triePath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	eng, err := New(store, trie)
	if err != nil {
		return nil, err
	}
	log.Debugf("Engine ready: %d keys, %d trie nodes", store.Len(), trie.NodeCount())
	return eng, nil
}

// Resolve returns the distinct candidate tokens for input, best first.
func (e *Engine) Resolve(input string) []string {
	entries := e.ResolveEntries(input)
	out := make([]string, len(entries))
	for i, entry := range entries {
		out[i] = entry.Token
	}
	return out
}

// ResolveEntries is Resolve with frequencies. An exact key decides the pool
// on its own; otherwise every completion of input contributes. The pool is
// stably sorted by descending frequency, so ties keep dictionary order within
// a key and lexicographic key order across keys. Each token is kept once, at
// its best rank.
func (e *Engine) ResolveEntries(input string) []dict.Entry {
	if input == "" {
		return []dict.Entry{}
	}
	pool := e.dict.Lookup(input)
	if len(pool) == 0 {
		for _, key := range e.trie.Completions(input) {
			pool = append(pool, e.dict.Lookup(key)...)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Frequency > pool[j].Frequency
	})

	seen := make(map[string]struct{}, len(pool))
	out := pool[:0]
	for _, entry := range pool {
		if _, ok := seen[entry.Token]; ok {
			continue
		}
		seen[entry.Token] = struct{}{}
		out = append(out, entry)
	}
	return out
}

// Completions lists the dictionary keys starting with prefix.
func (e *Engine) Completions(prefix string) []string {
	return e.trie.Completions(prefix)
}

// KeyCount returns the number of dictionary keys.
func (e *Engine) KeyCount() int {
	return e.dict.Len()
}
