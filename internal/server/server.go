// Package server exposes the editing core over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/editor"
	"github.com/dshills/inkwell/internal/format"
	"github.com/dshills/inkwell/internal/metrics"
	"github.com/dshills/inkwell/internal/paste"
	"github.com/dshills/inkwell/internal/sanitize"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Server serves clean and format requests. Every request gets its own
// editor, so handlers run concurrently.
type Server struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	logger  *zap.Logger
	timeout time.Duration

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// WithHTTPTimeouts sets the listener's read and write timeouts.
func WithHTTPTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// New creates a server. A nil m gets a private registry.
func New(cfg *config.Config, m *metrics.Metrics, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if m == nil {
		m = metrics.New(false)
	}
	s := &Server{cfg: cfg, metrics: m, logger: zap.NewNop(), timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/clean", s.clean)
		r.Post("/format", s.format)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	return g.Wait()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	snap := s.metrics.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"uptime":     snap.Uptime.Round(time.Second).String(),
		"operations": snap.Operations,
	})
}

// CleanRequest is the body of POST /v1/clean.
type CleanRequest struct {
	HTML string `json:"html"`
}

// CleanResponse is the result of POST /v1/clean.
type CleanResponse struct {
	HTML string `json:"html"`
}

func (s *Server) clean(w http.ResponseWriter, r *http.Request) {
	var req CleanRequest
	if !s.decode(w, r, &req) {
		return
	}
	cleaner := sanitize.New(s.cfg, sanitize.WithRunHook(s.metrics.ObserveClean))
	nodes, err := paste.New(s.cfg, cleaner).Clean(req.HTML)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	root := dom.NewRoot()
	for _, n := range nodes {
		root.AppendChild(n)
	}
	out, err := dom.InnerHTML(root)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, CleanResponse{HTML: out})
}

// Selection is a pair of normalized character offsets.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FormatRequest is the body of POST /v1/format. Toggle defaults to true.
type FormatRequest struct {
	HTML      string    `json:"html"`
	Selection Selection `json:"selection"`
	Style     string    `json:"style"`
	Href      string    `json:"href,omitempty"`
	Toggle    *bool     `json:"toggle,omitempty"`
}

// FormatResponse is the result of POST /v1/format.
type FormatResponse struct {
	HTML      string    `json:"html"`
	Selection Selection `json:"selection"`
	Applied   bool      `json:"applied"`
}

func (s *Server) format(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Style == "" {
		writeError(w, http.StatusBadRequest, errors.New("style is required"))
		return
	}
	ed, err := editor.New(dom.NewRoot(),
		editor.WithConfig(s.cfg),
		editor.WithLogger(s.logger),
		editor.WithRecorder(s.metrics),
		editor.WithObserver(s.metrics.Observer()),
		editor.WithCleanHook(s.metrics.ObserveClean),
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer ed.Close()

	if err := ed.Load(req.HTML); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := ed.SelectText(req.Selection.Start, req.Selection.End); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	opts := format.Options{Style: req.Style, Href: req.Href, Toggle: true}
	if req.Toggle != nil {
		opts.Toggle = *req.Toggle
	}
	applied, err := ed.Apply(opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, format.ErrUnknownStyle) || errors.Is(err, format.ErrInvalidOptions) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return
	}

	out, err := ed.HTML()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	resp := FormatResponse{HTML: out, Applied: applied}
	if from, to, ok := ed.Selection(); ok {
		resp.Selection = Selection{Start: from, End: to}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		writeError(w, http.StatusUnsupportedMediaType, fmt.Errorf("unsupported content type %q", ct))
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
