package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/exvids/internal/apperr"
	"github.com/starford/exvids/internal/models"
	"github.com/starford/exvids/internal/videoref"
	"github.com/starford/exvids/internal/videoservice"
)

const maxBodyBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *videoservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *videoservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListVideos handles GET /api/videos.
//
//	@Summary		List videos ordered by name, optionally filtered
//	@Tags			videos
//	@Produce		json
//	@Param			search	query		string	false	"Case-insensitive substring of the name"
//	@Success		200		{object}	VideoListResponse
//	@Router			/videos [get]
func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	videos, err := h.svc.List(r.Context(), search)
	if err != nil {
		slog.Error("list videos failed", slog.String("search", search), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, VideoListResponse{
		Videos: videos,
		Total:  len(videos),
		Search: search,
	})
}

// GetVideo handles GET /api/videos/{id}.
//
//	@Summary		Get a single video by id
//	@Tags			videos
//	@Produce		json
//	@Param			id	path		int	true	"Video id"
//	@Success		200	{object}	Video
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Router			/videos/{id} [get]
func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("id must be an integer"))
		return
	}
	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get video failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// CreateVideo handles POST /api/videos.
//
//	@Summary		Add a video
//	@Tags			videos
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateVideoRequest	true	"Video to add"
//	@Success		201		{object}	Video
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Router			/videos [post]
func (h *Handler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req CreateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	v, err := h.svc.Add(r.Context(), models.NewVideo{Name: req.Name, URL: req.URL, Notes: req.Notes})
	if err != nil {
		writeAddError(w, req.URL, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// Check handles POST /api/check.
//
//	@Summary		Check whether a URL is an accepted YouTube watch link
//	@Tags			check
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CheckRequest	true	"URL to check"
//	@Success		200		{object}	CheckResponse
//	@Failure		422		{object}	CheckResponse
//	@Router			/check [post]
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	h.writeCheck(w, req.URL)
}

// CheckQuery handles GET /api/check?url=...
func (h *Handler) CheckQuery(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("url query parameter is required"))
		return
	}
	h.writeCheck(w, rawURL)
}

func (h *Handler) writeCheck(w http.ResponseWriter, rawURL string) {
	id, err := h.svc.Check(rawURL)
	if err != nil {
		reason, _ := videoref.ReasonOf(err)
		writeJSON(w, http.StatusUnprocessableEntity, CheckResponse{
			Valid:   false,
			URL:     rawURL,
			Reason:  reason.String(),
			Message: videoservice.ReasonMessage(reason),
		})
		return
	}
	writeJSON(w, http.StatusOK, CheckResponse{Valid: true, URL: rawURL, VideoID: id})
}

func writeAddError(w http.ResponseWriter, rawURL string, err error) {
	if reason, ok := videoref.ReasonOf(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, errResponse{
			Error:  videoservice.Message(err),
			Reason: reason.String(),
		})
		return
	}
	var fe *videoservice.FieldError
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusBadRequest, errResponse{Error: videoservice.MsgCheckInput, Fields: fe.Fields})
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody(videoservice.MsgDuplicate))
	default:
		slog.Error("create video failed", slog.Int("url_length", len(rawURL)), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
