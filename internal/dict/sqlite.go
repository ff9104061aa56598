package dict

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLite assets keep one row per entry; ord preserves the asset order within a key.
const entriesSchema = `CREATE TABLE IF NOT EXISTS entries (
	key TEXT NOT NULL,
	token TEXT NOT NULL,
	freq INTEGER NOT NULL,
	ord INTEGER NOT NULL,
	PRIMARY KEY (key, ord)
);`

func readSQLite(ctx context.Context, path string) (map[string][]Entry, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close for read-only asset.
			_ = cerr
		}
	}()

	rows, err := db.QueryContext(ctx, `SELECT key, token, freq FROM entries ORDER BY key, ord`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	records := map[string][]Entry{}
	for rows.Next() {
		var key string
		var e Entry
		if err := rows.Scan(&key, &e.Token, &e.Frequency); err != nil {
			return nil, err
		}
		records[key] = append(records[key], e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// WriteSQLite stores records in the SQLite asset layout. Existing rows for
// the same keys are replaced.
func WriteSQLite(ctx context.Context, path string, records map[string][]Entry) (err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close after write.
			_ = cerr
		}
	}()

	if _, err := db.ExecContext(ctx, entriesSchema); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO entries (key, token, freq, ord) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for key, list := range records {
		for i, e := range list {
			if _, err = stmt.ExecContext(ctx, key, e.Token, e.Frequency, i); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}
