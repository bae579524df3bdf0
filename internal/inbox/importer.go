// Package inbox imports YAML video lists into the catalog, from single files
// or from a watched directory.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/starford/exvids/internal/apperr"
	"github.com/starford/exvids/internal/catalog"
	"github.com/starford/exvids/internal/models"
	"github.com/starford/exvids/internal/storage"
	"github.com/starford/exvids/internal/videoref"
	"github.com/starford/exvids/internal/videoservice"
)

// Result counts the outcome of one import.
type Result struct {
	Added      int `json:"added"`
	Duplicates int `json:"duplicates"`
	Rejected   int `json:"rejected"`
	Invalid    int `json:"invalid"`
}

// Importer feeds import files through the video service.
type Importer struct {
	svc    *videoservice.Service
	ledger catalog.ImportLedger
	store  storage.Provider
	logger *slog.Logger
}

// NewImporter creates an Importer. ledger and store are only needed for
// inbox operations (ImportFile, Sync, Watch); Import works without them.
func NewImporter(svc *videoservice.Service, ledger catalog.ImportLedger, store storage.Provider, logger *slog.Logger) *Importer {
	return &Importer{svc: svc, ledger: ledger, store: store, logger: logger}
}

// Import decodes a YAML import file and adds every entry. Entries that are
// rejected, invalid or already present are counted and skipped; only decode
// and store failures abort the import.
func (im *Importer) Import(ctx context.Context, source string, data []byte) (Result, error) {
	var file models.ImportFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Result{}, fmt.Errorf("inbox: decode %s: %w", source, err)
	}

	var res Result
	for i, in := range file.Videos {
		v, err := im.svc.Add(ctx, in)
		switch {
		case err == nil:
			res.Added++
			im.logger.Debug("import: added",
				slog.String("source", source),
				slog.Int64("id", v.ID),
				slog.String("video_id", v.VideoID))
		case errors.Is(err, apperr.ErrAlreadyExists):
			res.Duplicates++
			im.logger.Debug("import: duplicate", slog.String("source", source), slog.Int("entry", i), slog.String("url", in.URL))
		case errors.Is(err, videoref.ErrRejected):
			res.Rejected++
			im.logger.Warn("import: rejected URL",
				slog.String("source", source),
				slog.Int("entry", i),
				slog.String("url", in.URL),
				slog.String("error", err.Error()))
		case errors.Is(err, apperr.ErrInvalid):
			res.Invalid++
			im.logger.Warn("import: invalid entry", slog.String("source", source), slog.Int("entry", i), slog.String("error", err.Error()))
		default:
			return res, fmt.Errorf("inbox: import %s entry %d: %w", source, i, err)
		}
	}
	return res, nil
}

// ImportFile imports one inbox file unless its checksum is unchanged since
// the last import. It reports whether the file was processed.
func (im *Importer) ImportFile(ctx context.Context, path string) (bool, error) {
	data, err := im.store.Read(path)
	if err != nil {
		return false, err
	}
	cs := storage.Checksum(data)
	prev, err := im.ledger.ImportChecksum(ctx, path)
	if err != nil {
		return false, err
	}
	if prev == cs {
		return false, nil
	}

	res, err := im.Import(ctx, path, data)
	if err != nil {
		return false, err
	}
	if err := im.ledger.MarkImported(ctx, path, cs); err != nil {
		return false, err
	}
	im.logger.Info("import: file processed",
		slog.String("path", path),
		slog.Int("added", res.Added),
		slog.Int("duplicates", res.Duplicates),
		slog.Int("rejected", res.Rejected),
		slog.Int("invalid", res.Invalid))
	return true, nil
}

// Export encodes videos in the import file format.
func Export(videos []models.Video) ([]byte, error) {
	file := models.ImportFile{Videos: make([]models.NewVideo, len(videos))}
	for i, v := range videos {
		file.Videos[i] = models.NewVideo{Name: v.Name, URL: v.URL, Notes: v.Notes}
	}
	data, err := yaml.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("inbox: encode: %w", err)
	}
	return data, nil
}
