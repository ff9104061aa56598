package dict

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Save writes records to path in the format picked by its extension. File
// formats are written to a temp file and renamed into place.
func Save(ctx context.Context, path string, records map[string][]Entry) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dictionary dir: %w", err)
	}
	switch format {
	case FormatSQLite:
		return WriteSQLite(ctx, path, records)
	case FormatMsgpack:
		return writeAtomic(path, func(w io.Writer) error {
			enc := msgpack.NewEncoder(w)
			enc.SetSortMapKeys(true)
			return enc.Encode(records)
		})
	default:
		return writeAtomic(path, func(w io.Writer) error {
			return json.NewEncoder(w).Encode(records)
		})
	}
}

func writeAtomic(path string, encode func(io.Writer) error) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "dict-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp dictionary: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := encode(writer); err != nil {
		return fmt.Errorf("failed to encode dictionary: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush dictionary: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close dictionary: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write dictionary: %w", err)
	}
	return nil
}
