// Package dict holds the syllable dictionary: an immutable mapping from a
// pinyin key to the tokens spelled by it, each with a static frequency weight.
package dict

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ErrInvalidEntry is returned when an asset record breaks the dictionary rules.
var ErrInvalidEntry = errors.New("invalid dictionary entry")

// Entry is a single token spelled by a key.
type Entry struct {
	Token     string `msgpack:"w" json:"w"`
	Frequency int    `msgpack:"f" json:"f"`
}

// Store is a read-only dictionary. It is safe for concurrent use.
type Store struct {
	entries map[string][]Entry
}

// New validates records and builds a Store. Entry order within a key is kept.
func New(records map[string][]Entry) (*Store, error) {
	entries := make(map[string][]Entry, len(records))
	for key, list := range records {
		if err := validateKey(key); err != nil {
			return nil, err
		}
		for i, e := range list {
			if e.Token == "" {
				return nil, fmt.Errorf("%w: key %q entry %d has empty token", ErrInvalidEntry, key, i)
			}
			if e.Frequency < 0 {
				return nil, fmt.Errorf("%w: key %q token %q has negative frequency %d", ErrInvalidEntry, key, e.Token, e.Frequency)
			}
		}
		entries[key] = slices.Clone(list)
	}
	return &Store{entries: entries}, nil
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidEntry)
	}
	if strings.ToLower(key) != key {
		return fmt.Errorf("%w: key %q is not lowercase", ErrInvalidEntry, key)
	}
	return nil
}

// Lookup returns a copy of the entries stored under key, in asset order.
// A missing key yields an empty slice.
func (s *Store) Lookup(key string) []Entry {
	list, ok := s.entries[key]
	if !ok {
		return []Entry{}
	}
	return slices.Clone(list)
}

// Has reports whether key is in the dictionary. Keys with an empty entry
// list still count.
func (s *Store) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return len(s.entries)
}

// Records returns a copy of every key and its entries.
func (s *Store) Records() map[string][]Entry {
	out := make(map[string][]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = slices.Clone(v)
	}
	return out
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
