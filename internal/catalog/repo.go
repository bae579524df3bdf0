package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/exvids/internal/apperr"
	"github.com/starford/exvids/internal/models"
)

const selectVideo = `SELECT id, name, url, notes, video_id, created_at FROM videos`

// Create inserts v and returns the stored row. A second video with the same
// VideoID fails with apperr.ErrAlreadyExists; the unique index makes the check
// atomic, so concurrent submissions of one URL cannot both succeed.
func (db *DB) Create(ctx context.Context, v models.Video) (*models.Video, error) {
	if v.VideoID == "" {
		return nil, fmt.Errorf("catalog: create: empty video id: %w", apperr.ErrInvalid)
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO videos (name, url, notes, video_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, v.Name, v.URL, v.Notes, v.VideoID, v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("catalog: video %q: %w", v.VideoID, apperr.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("catalog: insert video: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("catalog: last insert id: %w", err)
	}
	v.ID = id
	return &v, nil
}

// ListOrderedByName returns every video ordered by name, ignoring case.
func (db *DB) ListOrderedByName(ctx context.Context) ([]models.Video, error) {
	rows, err := db.conn.QueryContext(ctx, selectVideo+` ORDER BY lower(name), id`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	return scanVideos(rows)
}

// FilterByNameSubstring returns videos whose name contains term, ignoring
// case, in the same order as ListOrderedByName.
func (db *DB) FilterByNameSubstring(ctx context.Context, term string) ([]models.Video, error) {
	rows, err := db.conn.QueryContext(ctx, selectVideo+`
		WHERE instr(lower(name), lower(?)) > 0
		ORDER BY lower(name), id
	`, term)
	if err != nil {
		return nil, fmt.Errorf("catalog: filter: %w", err)
	}
	return scanVideos(rows)
}

// GetByID returns the video with the given id or apperr.ErrNotFound.
func (db *DB) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	var v models.Video
	err := db.conn.QueryRowContext(ctx, selectVideo+` WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.URL, &v.Notes, &v.VideoID, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get %d: %w", id, err)
	}
	return &v, nil
}

// Count returns the number of stored videos.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM videos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("catalog: count: %w", err)
	}
	return n, nil
}

func scanVideos(rows *sql.Rows) ([]models.Video, error) {
	defer rows.Close()
	out := []models.Video{}
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.Name, &v.URL, &v.Notes, &v.VideoID, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
