// Package models defines the domain types of the catalog.
package models

import "time"

// Video is a stored reference to an exercise video.
type Video struct {
	ID        int64     `json:"id" yaml:"-"`
	Name      string    `json:"name" yaml:"name"`
	URL       string    `json:"url" yaml:"url"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	VideoID   string    `json:"video_id" yaml:"-"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
}

// NewVideo is the user-supplied part of a Video. The identifier is always
// derived from URL, never accepted from input.
type NewVideo struct {
	Name  string `json:"name" yaml:"name"`
	URL   string `json:"url" yaml:"url"`
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// ImportFile is the on-disk format used by import, export and the inbox.
type ImportFile struct {
	Videos []NewVideo `yaml:"videos"`
}

// FileMetadata describes a file found in the import inbox.
type FileMetadata struct {
	Path     string    `json:"path"`
	Checksum string    `json:"checksum"`
	ModTime  time.Time `json:"mod_time"`
}
