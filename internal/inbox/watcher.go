package inbox

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/exvids/internal/storage"
)

// Watch imports inbox files as they are created or written until ctx is
// cancelled. Directories created at runtime are added to the watch list.
// Removing or renaming a file only forgets its ledger entry; videos it
// imported stay in the catalog.
func (im *Importer) Watch(ctx context.Context, root string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	im.logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			im.logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						im.logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					// Files may have landed before the watch was added.
					if syncErr := im.Sync(ctx); syncErr != nil {
						im.logger.Warn("watcher: sync failed", slog.String("error", syncErr.Error()))
					}
					continue
				}
			}

			if !storage.IsImportFile(ev.Name) {
				continue
			}
			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if _, impErr := im.ImportFile(ctx, rel); impErr != nil {
					im.logger.Warn("watcher: import failed", slog.String("path", rel), slog.String("error", impErr.Error()))
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				if fErr := im.ledger.ForgetImport(ctx, rel); fErr != nil {
					im.logger.Warn("watcher: forget failed", slog.String("path", rel), slog.String("error", fErr.Error()))
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			im.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
