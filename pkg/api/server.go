// Package api serves the topic summary form over HTTP.
//
// # Routes
//
//	GET  /          the form; ?draft=NAME preloads a saved draft
//	POST /submit    action=save|delete|submit
//	GET  /drafts    the caller's drafts as JSON
//	GET  /healthz   liveness probe
//
// Owners are identified by the session cookie (see package session). Save
// and delete redirect back to the form with a one-shot flash message;
// submit responds with the PDF as an attachment.
package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/topicsheet/pkg/drafts"
	"github.com/matzehuels/topicsheet/pkg/pipeline"
	"github.com/matzehuels/topicsheet/pkg/session"
	"github.com/matzehuels/topicsheet/pkg/sheet"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config holds configuration for the form server.
type Config struct {
	// Addr is the listen address (default: "localhost:8080").
	Addr string `mapstructure:"addr"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MaxFormBytes bounds the size of a submitted form.
	MaxFormBytes int64 `mapstructure:"max_form_bytes"`
}

// DefaultConfig returns the stock server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:            "localhost:8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxFormBytes:    1 << 20,
	}
}

func (c *Config) setDefaults() {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.MaxFormBytes == 0 {
		c.MaxFormBytes = d.MaxFormBytes
	}
}

// Server is the form service.
type Server struct {
	cfg    Config
	store  drafts.Store
	runner *pipeline.Runner
	render pipeline.Options
	logger *log.Logger
	tmpl   *template.Template
	router chi.Router
}

// New builds a server. render holds the per-render defaults (geometry,
// branding, logos); its fields, draft name and formats are set per request.
func New(cfg Config, store drafts.Store, runner *pipeline.Runner, render pipeline.Options, logger *log.Logger) (*Server, error) {
	cfg.setDefaults()
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	render.Logger = logger
	render.SetLayoutDefaults()

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"optionKey":    sheet.OptionKey,
		"optionHeader": sheet.OptionHeader,
		"actionKey":    sheet.ActionKey,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		runner: runner,
		render: render,
		logger: logger,
		tmpl:   tmpl,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(session.Middleware)
		r.Get("/", s.handleForm)
		r.Post("/submit", s.handleSubmit)
		r.Get("/drafts", s.handleListDrafts)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
