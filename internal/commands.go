package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/exvids/internal/catalog"
	"github.com/starford/exvids/internal/inbox"
	"github.com/starford/exvids/internal/storage"
	"github.com/starford/exvids/internal/videoservice"
)

// withCatalog opens the configured catalog for a one-shot command.
func withCatalog(opts []Option, fn func(*videoservice.Service, *slog.Logger) error) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	logger := app.newLogger()

	db, err := catalog.Open(app.config.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	defer db.Close()

	return fn(videoservice.NewService(db, nil), logger)
}

// ImportFile adds every video listed in the YAML file at path. Entries that
// are rejected or already present are skipped and counted.
func ImportFile(ctx context.Context, path string, opts ...Option) (inbox.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return inbox.Result{}, fmt.Errorf("read import file: %w", err)
	}

	var res inbox.Result
	err = withCatalog(opts, func(svc *videoservice.Service, logger *slog.Logger) error {
		var importErr error
		res, importErr = inbox.NewImporter(svc, nil, nil, logger).Import(ctx, path, data)
		return importErr
	})
	return res, err
}

// ExportFile writes the whole catalog to path in the import file format and
// returns the number of videos written.
func ExportFile(ctx context.Context, path string, opts ...Option) (int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	dir, name := filepath.Split(abs)
	store, err := storage.NewFS(dir)
	if err != nil {
		return 0, fmt.Errorf("export dir: %w", err)
	}

	var n int
	err = withCatalog(opts, func(svc *videoservice.Service, _ *slog.Logger) error {
		videos, err := svc.List(ctx, "")
		if err != nil {
			return err
		}
		data, err := inbox.Export(videos)
		if err != nil {
			return err
		}
		n = len(videos)
		return store.Write(name, data)
	})
	return n, err
}
