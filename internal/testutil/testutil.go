// Package testutil provides shared test helpers for databases, inboxes and logs.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/starford/exvids/internal/catalog"
	"github.com/starford/exvids/internal/models"
	"github.com/starford/exvids/internal/storage"
)

// TestDB creates a temporary SQLite catalog that is automatically cleaned up.
func TestDB(t *testing.T) *catalog.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "exvids-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := catalog.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestInbox creates a temporary inbox directory with a storage.Provider.
func TestInbox(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// CaptureLog routes the default slog logger into the returned buffer until
// the test ends.
func CaptureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// FailingStore is a catalog.Store whose every call fails with Err.
type FailingStore struct {
	Err error
}

var _ catalog.Store = FailingStore{}

func (s FailingStore) Create(context.Context, models.Video) (*models.Video, error) {
	return nil, s.Err
}

func (s FailingStore) ListOrderedByName(context.Context) ([]models.Video, error) {
	return nil, s.Err
}

func (s FailingStore) FilterByNameSubstring(context.Context, string) ([]models.Video, error) {
	return nil, s.Err
}

func (s FailingStore) GetByID(context.Context, int64) (*models.Video, error) {
	return nil, s.Err
}

func (s FailingStore) Count(context.Context) (int, error) {
	return 0, s.Err
}
