// Package web serves the HTML pages of the catalog.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/exvids/internal/apperr"
	"github.com/starford/exvids/internal/models"
	"github.com/starford/exvids/internal/videoref"
	"github.com/starford/exvids/internal/videoservice"
)

// AppName is the title shown on every page.
const AppName = "Exercise Videos"

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"countLabel": countLabel,
}

// countLabel renders "No videos", "1 video" or "N videos".
func countLabel(n int) string {
	switch n {
	case 0:
		return "No videos"
	case 1:
		return "1 video"
	default:
		return fmt.Sprintf("%d videos", n)
	}
}

type pageData struct {
	AppName  string
	Messages []string
}

type addPage struct {
	pageData
	Form    models.NewVideo
	Errors  map[string]string
	MaxName int
	MaxURL  int
	Example string
}

type listPage struct {
	pageData
	Search string
	Videos []models.Video
}

type detailPage struct {
	pageData
	Video *models.Video
}

// Handler renders the HTML pages.
type Handler struct {
	svc   *videoservice.Service
	pages map[string]*template.Template
}

// NewHandler parses the embedded templates.
func NewHandler(svc *videoservice.Service) (*Handler, error) {
	h := &Handler{svc: svc, pages: make(map[string]*template.Template)}
	for _, name := range []string{"home.html", "add.html", "video_list.html", "video_detail.html"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		h.pages[name] = t
	}
	return h, nil
}

// NewRouter mounts the page routes.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Home)
	r.Get("/add", h.AddForm)
	r.Post("/add", h.Add)
	r.Get("/video_list", h.List)
	r.Get("/video/{id}", h.Detail)
	r.Get("/video/{id}/", h.Detail)
	return r
}

// Home handles GET /.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "home.html", pageData{AppName: AppName})
}

// AddForm handles GET /add.
func (h *Handler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "add.html", newAddPage(models.NewVideo{}))
}

// Add handles POST /add. On success it redirects to the list; otherwise the
// form is shown again with the submitted values and the reasons it failed.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	in := models.NewVideo{
		Name:  r.PostForm.Get("name"),
		URL:   r.PostForm.Get("url"),
		Notes: r.PostForm.Get("notes"),
	}

	_, err := h.svc.Add(r.Context(), in)
	if err == nil {
		http.Redirect(w, r, "/video_list", http.StatusSeeOther)
		return
	}

	page := newAddPage(in)
	var fe *videoservice.FieldError
	if reason, ok := videoref.ReasonOf(err); ok {
		page.Messages = append(page.Messages, videoservice.MsgInvalidURL, videoservice.ReasonMessage(reason))
	} else if errors.As(err, &fe) {
		page.Errors = fe.Fields
	} else if errors.Is(err, apperr.ErrAlreadyExists) {
		page.Messages = append(page.Messages, videoservice.MsgDuplicate)
	} else {
		slog.Error("add video failed", slog.Int("url_length", len(in.URL)), slog.String("error", err.Error()))
		http.Error(w, videoservice.MsgInternal, http.StatusInternalServerError)
		return
	}
	page.Messages = append(page.Messages, videoservice.MsgCheckInput)
	h.render(w, http.StatusOK, "add.html", page)
}

// List handles GET /video_list.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search_term")
	videos, err := h.svc.List(r.Context(), search)
	if err != nil {
		slog.Error("list videos failed", slog.String("search", search), slog.String("error", err.Error()))
		http.Error(w, videoservice.MsgInternal, http.StatusInternalServerError)
		return
	}
	h.render(w, http.StatusOK, "video_list.html", listPage{
		pageData: pageData{AppName: AppName},
		Search:   search,
		Videos:   videos,
	})
}

// Detail handles GET /video/{id}/.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("get video failed", slog.Int64("id", id), slog.String("error", err.Error()))
		http.Error(w, videoservice.MsgInternal, http.StatusInternalServerError)
		return
	}
	h.render(w, http.StatusOK, "video_detail.html", detailPage{
		pageData: pageData{AppName: AppName},
		Video:    v,
	})
}

func newAddPage(form models.NewVideo) addPage {
	return addPage{
		pageData: pageData{AppName: AppName},
		Form:     form,
		MaxName:  videoservice.MaxNameLength,
		MaxURL:   videoservice.MaxURLLength,
		Example:  videoref.Example,
	}
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind a 200 status.
func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "base", data); err != nil {
		slog.Error("render failed", slog.String("page", page), slog.String("error", err.Error()))
		http.Error(w, videoservice.MsgInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
