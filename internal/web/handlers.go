package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Brownie44l1/cxr-api/internal/client"
)

const sessionCookieName = "cxr_session"

// Handler serves the upload page and drives each browser's client.Session.
type Handler struct {
	sessions       *SessionStore
	templates      *template.Template
	logger         *zap.SugaredLogger
	maxUploadBytes int64
}

func NewHandler(sessions *SessionStore, tmpl *template.Template, logger *zap.SugaredLogger, maxUploadBytes int64) *Handler {
	return &Handler{
		sessions:       sessions,
		templates:      tmpl,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

type pageData struct {
	View        client.View
	MaxUploadMB int64
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(StaticFS))))
	r.Get("/health", h.Health)
	r.Get("/", h.Index)
	r.Post("/select", h.Select)
	r.Post("/analyze", h.Analyze)
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"healthy"}` + "\n"))
}

// Index renders the form, preview, error and results for the caller's session.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	data := pageData{
		View:        sess.View(),
		MaxUploadMB: h.maxUploadBytes >> 20,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		h.logger.Errorw("Template error", "error", err)
	}
}

// Select takes the browser's file pick and hands it to the session.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.logger.Warnw("Form parse failed", "error", err)
		sess.ReportError(h.uploadErrorMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	defer r.MultipartForm.RemoveAll()

	upload, err := readUpload(r)
	if err != nil {
		// Nothing picked: leave the session as it is.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := sess.SelectFile(upload); err != nil {
		h.logger.Infow("Selection rejected", "filename", upload.Filename, "content_type", upload.ContentType)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Analyze submits the session's selected file to the prediction endpoint.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	err := sess.Submit(r.Context())
	switch {
	case err == nil:
		h.logger.Infow("Analysis complete", "request_id", middleware.GetReqID(r.Context()))
	case errors.Is(err, client.ErrNoFile), errors.Is(err, client.ErrInFlight):
		h.logger.Debugw("Analysis not started", "reason", err)
	default:
		h.logger.Warnw("Analysis failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) uploadErrorMessage(err error) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("File is too large (max %dMB)", h.maxUploadBytes>>20)
	}
	return "Failed to read the uploaded file"
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *client.Session {
	var current string
	if c, err := r.Cookie(sessionCookieName); err == nil {
		current = c.Value
	}

	id, sess := h.sessions.Get(current)
	if id != current {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func readUpload(r *http.Request) (client.Upload, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		return client.Upload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return client.Upload{}, err
	}

	return client.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
