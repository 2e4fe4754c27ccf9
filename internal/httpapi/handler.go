// Package httpapi serves the upload form and the report processing
// endpoint over HTTP.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/a3tai/loadsheet-reader/internal/render"
	"github.com/a3tai/loadsheet-reader/internal/report"
)

// Handler exposes a report.Service over HTTP
type Handler struct {
	service       *report.Service
	defaultFormat string
	logger        *slog.Logger
}

// New creates a handler. An empty defaultFormat selects render.Default.
func New(service *report.Service, defaultFormat string, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := render.ByName(defaultFormat); err != nil {
		return nil, err
	}

	return &Handler{
		service:       service,
		defaultFormat: defaultFormat,
		logger:        logger,
	}, nil
}

// Attach registers the routes on r
func (h *Handler) Attach(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Get("/crew", h.handleCrew)
	r.Post("/process-pdf", h.handleProcess)
	r.Get("/healthz", h.handleHealth)
}

// Router returns a complete router with CORS and panic recovery
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition", headerRequestID},
	}))

	h.Attach(r)
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	text := http.StatusText(code)

	if err != nil {
		text = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	json.NewEncoder(w).Encode(map[string]string{"error": text})
}
