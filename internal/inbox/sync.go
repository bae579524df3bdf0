package inbox

import (
	"context"
	"log/slog"
)

// Sync walks the inbox and brings the catalog up to date:
//   - new or changed files are imported
//   - ledger entries for files removed from disk are forgotten
func (im *Importer) Sync(ctx context.Context) error {
	metas, err := im.store.List("")
	if err != nil {
		return err
	}

	imported, err := im.ledger.ImportedPaths(ctx)
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if imported[m.Path] == m.Checksum {
			continue
		}
		if _, err := im.ImportFile(ctx, m.Path); err != nil {
			im.logger.Warn("sync: import failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		}
	}

	for p := range imported {
		if _, ok := disk[p]; ok {
			continue
		}
		if err := im.ledger.ForgetImport(ctx, p); err != nil {
			im.logger.Warn("sync: forget failed", slog.String("path", p), slog.String("error", err.Error()))
		} else {
			im.logger.Debug("sync: forgot removed file", slog.String("path", p))
		}
	}

	return nil
}
