// Package server exposes canvas editing, form rendering and submission
// collection over HTTP using fiber.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"go.uber.org/zap"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/model"
	"github.com/goliatone/go-formcanvas/pkg/render"
	"github.com/goliatone/go-formcanvas/pkg/renderers/vanilla"
	"github.com/goliatone/go-formcanvas/pkg/storage"
	"github.com/goliatone/go-formcanvas/pkg/widgets"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for requests and board notifications.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderers replaces the renderer registry. The default registry holds
// the vanilla flow renderer (default) and the canvas preview renderer.
func WithRenderers(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.renderers = registry
		}
	}
}

// WithThemes replaces the theme selector.
func WithThemes(selector render.ThemeSelector) Option {
	return func(s *Server) {
		if selector != nil {
			s.themes = selector
		}
	}
}

// WithBuilder replaces the form model builder.
func WithBuilder(builder model.Builder) Option {
	return func(s *Server) {
		if builder != nil {
			s.builder = builder
		}
	}
}

// WithSessionTTL sets how long an idle editing session is kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.sessionTTL = ttl
	}
}

// WithCascadeDefault answers cascading delete prompts for intents that do not
// carry an explicit cascade flag.
func WithCascadeDefault(cascade bool) Option {
	return func(s *Server) {
		s.cascade = cascade
	}
}

// WithTimeouts sets the fiber read and write timeouts.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.readTimeout, s.writeTimeout = read, write
	}
}

// Server serves the formcanvas HTTP API.
type Server struct {
	app       *fiber.App
	repo      storage.Repository
	renderers *render.Registry
	themes    render.ThemeSelector
	builder   model.Builder
	sessions  *sessions
	logger    *zap.Logger

	sessionTTL   time.Duration
	cascade      bool
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// New wires a Server on top of repo.
func New(repo storage.Repository, options ...Option) (*Server, error) {
	if repo == nil {
		return nil, errors.New("server: repository is required")
	}
	s := &Server{
		repo:       repo,
		logger:     zap.NewNop(),
		sessionTTL: 30 * time.Minute,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.renderers == nil {
		flow, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		preview, err := vanilla.NewCanvas()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderers = render.NewRegistry(flow, preview)
	}
	if s.themes == nil {
		selector, err := render.DefaultSelector()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.themes = selector
	}
	if s.builder == nil {
		s.builder = model.NewBuilder(model.WithDecorators(widgets.NewRegistry()))
	}

	confirmer := canvas.NeverConfirm
	if s.cascade {
		confirmer = canvas.AlwaysConfirm
	}
	s.sessions = newSessions(s.sessionTTL, confirmer, s.logger)

	s.app = fiber.New(fiber.Config{
		AppName:      "formcanvas",
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		ErrorHandler: s.handleError,
	})
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(requestLogger(s.logger))

	s.app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	s.app.Get("/health/ready", s.ready)
	s.app.Get("/assets/*", static.New("", static.Config{FS: vanilla.AssetsFS(), MaxAge: 3600}))

	api := s.app.Group("/api", cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"Content-Type"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
	}))
	api.Get("/palette", s.palette)
	api.Get("/forms", s.listForms)
	api.Post("/forms", s.createForm)
	api.Get("/forms/:id", s.getForm)
	api.Put("/forms/:id", s.saveForm)
	api.Delete("/forms/:id", s.deleteForm)
	api.Get("/forms/:id/board", s.board)
	api.Get("/forms/:id/preview", s.preview)
	api.Post("/forms/:id/intents", s.applyIntent)
	api.Get("/forms/:id/schema", s.schemaDocument)
	api.Get("/forms/:id/responses", s.listResponses)

	s.app.Get("/forms/:id", s.renderForm)
	s.app.Post("/forms/:id/responses", s.submit)
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("starting formcanvas server", zap.String("addr", addr))
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) ready(c fiber.Ctx) error {
	if _, err := s.repo.ListForms(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
