package dict

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Format identifies a dictionary asset encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatMsgpack        // map of key to [{w, f}] in MessagePack
	FormatJSON           // same shape as JSON
	FormatSQLite         // entries table in a SQLite database
)

func (f Format) String() string {
	switch f {
	case FormatMsgpack:
		return "msgpack"
	case FormatJSON:
		return "json"
	case FormatSQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

var extFormats = map[string]Format{
	".msgpack": FormatMsgpack,
	".mpk":     FormatMsgpack,
	".json":    FormatJSON,
	".db":      FormatSQLite,
	".sqlite":  FormatSQLite,
}

// DetectFormat picks the asset format from the file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := extFormats[ext]
	if !ok {
		return FormatUnknown, fmt.Errorf("unsupported dictionary extension %q (want .msgpack, .mpk, .json, .db or .sqlite)", ext)
	}
	return format, nil
}

// Load reads and validates a dictionary asset.
func Load(ctx context.Context, path string) (*Store, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat dictionary: %w", err)
	}

	var records map[string][]Entry
	switch format {
	case FormatMsgpack:
		records, err = readMsgpack(path)
	case FormatJSON:
		records, err = readJSON(path)
	case FormatSQLite:
		records, err = readSQLite(ctx, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s dictionary %s: %w", format, path, err)
	}

	store, err := New(records)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary %s: %w", path, err)
	}
	log.Debugf("Dictionary %s loaded: %d keys (%s)", path, store.Len(), format)
	return store, nil
}

func readMsgpack(path string) (map[string][]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only asset.
			_ = cerr
		}
	}()

	var records map[string][]Entry
	if err := msgpack.NewDecoder(bufio.NewReader(file)).Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func readJSON(path string) (map[string][]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only asset.
			_ = cerr
		}
	}()

	var records map[string][]Entry
	dec := json.NewDecoder(bufio.NewReader(file))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}
