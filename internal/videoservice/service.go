// Package videoservice runs the add pipeline (field checks, identifier
// extraction, persistence) and the read paths over the catalog store.
package videoservice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/exvids/internal/apperr"
	"github.com/starford/exvids/internal/catalog"
	"github.com/starford/exvids/internal/models"
	"github.com/starford/exvids/internal/videoref"
)

// Field limits of a video record.
const (
	MaxNameLength = 200
	MaxURLLength  = 400
)

// Event kinds passed to an EventCallback.
const (
	EventCreated = "video.created"
)

// EventCallback is called after a successful catalog mutation.
type EventCallback func(kind string, v models.Video)

// FieldError lists per-field input problems, keyed by JSON field name.
type FieldError struct {
	Fields map[string]string
}

func (e *FieldError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Unwrap makes errors.Is(err, apperr.ErrInvalid) hold.
func (e *FieldError) Unwrap() error { return apperr.ErrInvalid }

// Service coordinates validation and catalog operations.
type Service struct {
	store catalog.Store
	cb    EventCallback
}

// NewService creates a new video service. cb may be nil.
func NewService(store catalog.Store, cb EventCallback) *Service {
	return &Service{store: store, cb: cb}
}

// Add validates in and stores it. Failures are reported as a *FieldError,
// a *videoref.RejectionError, or an error wrapping apperr.ErrAlreadyExists;
// nothing is stored in any of those cases.
func (s *Service) Add(ctx context.Context, in models.NewVideo) (*models.Video, error) {
	in = clean(in)
	if err := validateFields(in); err != nil {
		return nil, err
	}

	videoID, err := videoref.Extract(in.URL)
	if err != nil {
		return nil, err
	}

	v, err := s.store.Create(ctx, models.Video{
		Name:    in.Name,
		URL:     in.URL,
		Notes:   in.Notes,
		VideoID: videoID,
	})
	if err != nil {
		return nil, err
	}
	if s.cb != nil {
		s.cb(EventCreated, *v)
	}
	return v, nil
}

// Check runs identifier extraction alone, without touching the store.
func (s *Service) Check(rawURL string) (string, error) {
	return CheckURL(rawURL)
}

// CheckURL trims rawURL the way Add does and extracts its identifier.
func CheckURL(rawURL string) (string, error) {
	return videoref.Extract(strings.TrimSpace(rawURL))
}

// List returns all videos ordered by name, or only those whose name contains
// search when it is non-blank.
func (s *Service) List(ctx context.Context, search string) ([]models.Video, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return s.store.ListOrderedByName(ctx)
	}
	return s.store.FilterByNameSubstring(ctx, search)
}

// Get returns one video or an error wrapping apperr.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*models.Video, error) {
	if id <= 0 {
		return nil, apperr.ErrNotFound
	}
	return s.store.GetByID(ctx, id)
}

// Count returns the number of stored videos.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

func clean(in models.NewVideo) models.NewVideo {
	return models.NewVideo{
		Name:  strings.TrimSpace(in.Name),
		URL:   strings.TrimSpace(in.URL),
		Notes: strings.TrimSpace(in.Notes),
	}
}

func validateFields(in models.NewVideo) error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&in.URL, validation.Required, validation.RuneLength(1, MaxURLLength)),
	)
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("videoservice: validate: %w", err)
	}
	fields := make(map[string]string, len(verrs))
	for k, v := range verrs {
		fields[k] = v.Error()
	}
	return &FieldError{Fields: fields}
}
