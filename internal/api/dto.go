package api

import "github.com/starford/exvids/internal/models"

// CreateVideoRequest is the request body for adding a video.
type CreateVideoRequest struct {
	Name  string `json:"name" example:"bedtime yoga" validate:"required"`
	URL   string `json:"url" example:"https://www.youtube.com/watch?v=6CueZ4zujMk" validate:"required"`
	Notes string `json:"notes,omitempty" example:"yoga for bedtime"`
}

// CheckRequest is the request body for checking a URL.
type CheckRequest struct {
	URL string `json:"url" example:"https://www.youtube.com/watch?v=6CueZ4zujMk" validate:"required"`
}

// CheckResponse reports whether a URL is accepted.
type CheckResponse struct {
	Valid   bool   `json:"valid"`
	URL     string `json:"url"`
	VideoID string `json:"video_id,omitempty" example:"6CueZ4zujMk"`
	Reason  string `json:"reason,omitempty" example:"missing_query"`
	Message string `json:"message,omitempty"`
}

// Video is the API representation of a stored video.
type Video = models.Video

// VideoListResponse wraps a listing or search result.
type VideoListResponse struct {
	Videos []Video `json:"videos" validate:"required"`
	Total  int     `json:"total" example:"4" validate:"required"`
	Search string  `json:"search,omitempty"`
}
