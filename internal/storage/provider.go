// Package storage gives safe access to the files of the import inbox.
package storage

import (
	"path/filepath"
	"strings"

	"github.com/starford/exvids/internal/models"
)

// Provider is the interface for inbox file operations. Paths are relative to
// the inbox root.
type Provider interface {
	// List returns metadata for every import file under dir.
	List(dir string) ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
}

// IsImportFile reports whether name has an import file extension.
func IsImportFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return !strings.HasPrefix(filepath.Base(name), ".")
	default:
		return false
	}
}
