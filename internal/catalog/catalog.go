package catalog

import (
	"context"

	"github.com/starford/exvids/internal/models"
)

// Store is the record store facade used by the service layer.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type Store interface {
	Create(ctx context.Context, v models.Video) (*models.Video, error)
	ListOrderedByName(ctx context.Context) ([]models.Video, error)
	FilterByNameSubstring(ctx context.Context, term string) ([]models.Video, error)
	GetByID(ctx context.Context, id int64) (*models.Video, error)
	Count(ctx context.Context) (int, error)
}

// ImportLedger records which inbox files have been imported.
type ImportLedger interface {
	ImportChecksum(ctx context.Context, path string) (string, error)
	MarkImported(ctx context.Context, path, checksum string) error
	ImportedPaths(ctx context.Context) (map[string]string, error)
	ForgetImport(ctx context.Context, path string) error
}

// Verify *DB satisfies both interfaces at compile time.
var (
	_ Store        = (*DB)(nil)
	_ ImportLedger = (*DB)(nil)
)
