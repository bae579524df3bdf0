package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ImportChecksum returns the checksum recorded for an inbox file, or empty
// string if the file was never imported.
func (db *DB) ImportChecksum(ctx context.Context, path string) (string, error) {
	var cs string
	err := db.conn.QueryRowContext(ctx, `SELECT checksum FROM imports WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("catalog: import checksum: %w", err)
	}
	return cs, nil
}

// MarkImported records that path was imported with the given checksum.
func (db *DB) MarkImported(ctx context.Context, path, checksum string) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO imports (path, checksum, imported_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			checksum    = excluded.checksum,
			imported_at = excluded.imported_at
	`, path, checksum)
	if err != nil {
		return fmt.Errorf("catalog: mark imported: %w", err)
	}
	return nil
}

// ImportedPaths returns every recorded inbox path with its checksum.
func (db *DB) ImportedPaths(ctx context.Context) (map[string]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT path, checksum FROM imports`)
	if err != nil {
		return nil, fmt.Errorf("catalog: imported paths: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// ForgetImport drops the record for path. Videos it imported are kept.
func (db *DB) ForgetImport(ctx context.Context, path string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM imports WHERE path = ?`, path); err != nil {
		return fmt.Errorf("catalog: forget import: %w", err)
	}
	return nil
}
