// Package preview serves the component catalog and live component previews
// over HTTP.
package preview

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vango-ext/internal/catalog"
	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/host"
	"github.com/vango-dev/vango-ext/pkg/render"
)

// maxRenderBody bounds POST /render request bodies.
const maxRenderBody = 1 << 20

// Config configures the preview server.
type Config struct {
	// Engine renders components. Required.
	Engine *host.Engine

	// Gatherer serves /metrics. Nil leaves /metrics unmounted.
	Gatherer prometheus.Gatherer

	// Bridge, when set, is mounted at /bridge.
	Bridge http.Handler

	// Reload, when set, is mounted at ReloadPath and ReloadScript is
	// appended to every preview page.
	Reload       http.Handler
	ReloadPath   string
	ReloadScript string

	// AllowedOrigins enables CORS for the listed origins.
	AllowedOrigins []string

	// Stylesheets are inlined into every preview page.
	Stylesheets []string

	// RenderTimeout bounds a single render. Zero means 10s.
	RenderTimeout time.Duration

	Logger *slog.Logger
}

type server struct {
	cfg      Config
	renderer *render.Renderer
	logger   *slog.Logger
}

// New returns the preview HTTP handler.
func New(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = 10 * time.Second
	}
	s := &server{
		cfg:      cfg,
		renderer: render.NewRenderer(render.RendererConfig{}),
		logger:   cfg.Logger.With("component", "preview"),
	}

	r := chi.NewRouter()
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		}))
	}
	r.Use(chimw.RequestID)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})

	r.Route("/components", func(cr chi.Router) {
		cr.Get("/", s.listComponents)
		cr.Get("/{ns}/{name}", s.describeComponent)
		cr.Get("/{ns}/{name}/preview", s.previewComponent)
	})
	r.Post("/render", s.renderMarkup)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	if cfg.Bridge != nil {
		r.Handle("/bridge", cfg.Bridge)
	}
	if cfg.Reload != nil && cfg.ReloadPath != "" {
		r.Handle(cfg.ReloadPath, cfg.Reload)
	}

	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func (s *server) listComponents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.FromEngine(s.cfg.Engine))
}

func (s *server) describeComponent(w http.ResponseWriter, r *http.Request) {
	qualified := chi.URLParam(r, "ns") + "." + chi.URLParam(r, "name")
	entry, ok := catalog.FromEngine(s.cfg.Engine).Lookup(qualified)
	if !ok {
		writeError(w, http.StatusNotFound, unknownComponent(qualified))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *server) previewComponent(w http.ResponseWriter, r *http.Request) {
	qualified := chi.URLParam(r, "ns") + "." + chi.URLParam(r, "name")
	if _, ok := s.cfg.Engine.Lookup(qualified); !ok {
		writeError(w, http.StatusNotFound, unknownComponent(qualified))
		return
	}

	props := make(component.Props)
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			props[name] = values[len(values)-1]
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RenderTimeout)
	defer cancel()

	node, err := s.cfg.Engine.Render(ctx, qualified, props)
	if err != nil {
		s.logger.Info("preview failed", "component", qualified, "error", err)
		writeError(w, statusOf(err), err)
		return
	}

	page := render.PageData{
		Title:  qualified,
		Body:   node,
		Styles: s.cfg.Stylesheets,
	}
	if s.cfg.ReloadScript != "" {
		page.BodyEnd = []string{s.cfg.ReloadScript}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderPage(w, page); err != nil {
		s.logger.Warn("writing preview page", "component", qualified, "error", err)
	}
}

// renderRequest is the JSON body of POST /render.
type renderRequest struct {
	Markup string          `json:"markup"`
	Scope  component.Props `json:"scope,omitempty"`
}

// renderMarkup renders a markup fragment to HTML. The body is either a
// renderRequest or, with an XML content type, the bare markup.
func (s *server) renderMarkup(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRenderBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	var req renderRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case strings.HasSuffix(mediaType, "xml"):
		req.Markup = string(body)
	default:
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if strings.TrimSpace(req.Markup) == "" {
		writeError(w, http.StatusBadRequest, errEmptyMarkup)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RenderTimeout)
	defer cancel()

	node, err := s.cfg.Engine.RenderMarkup(ctx, req.Markup, req.Scope)
	if err != nil {
		s.logger.Info("render failed", "error", err)
		writeError(w, statusOf(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderToWriter(w, node); err != nil {
		s.logger.Warn("writing render response", "error", err)
	}
}
