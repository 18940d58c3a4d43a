package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-formcanvas/pkg/model"
	"github.com/goliatone/go-formcanvas/pkg/render"
	rendertemplate "github.com/goliatone/go-formcanvas/pkg/render/template"
	"github.com/goliatone/go-formcanvas/pkg/render/template/pongo"
	"github.com/goliatone/go-formcanvas/pkg/widgets"
)

// Renderer names registered by this package.
const (
	NameCanvas = "canvas"
	NameForm   = "vanilla"
)

// Layout controls how elements are arranged on the page.
type Layout string

const (
	// LayoutCanvas positions every element absolutely at its canvas
	// coordinates.
	LayoutCanvas Layout = "canvas"
	// LayoutFlow stacks elements in reading order with a submit button.
	LayoutFlow Layout = "flow"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	widgets          *widgets.Registry
	submitLabel      string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithWidgets replaces the widget registry used for fields that do not carry
// a Metadata["widget"] hint.
func WithWidgets(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// WithSubmitLabel overrides the submit button text of flow layouts.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if label != "" {
			cfg.submitLabel = label
		}
	}
}

// Renderer produces a standalone HTML page for a form model.
type Renderer struct {
	name      string
	layout    Layout
	templates rendertemplate.TemplateRenderer
	widgets   *widgets.Registry
	submit    string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the flow renderer: a plain HTML form in reading order.
func New(options ...Option) (*Renderer, error) {
	return newRenderer(NameForm, LayoutFlow, options)
}

// NewCanvas constructs the canvas preview renderer, which reproduces the
// editor layout with absolute positioning and selection highlights.
func NewCanvas(options ...Option) (*Renderer, error) {
	return newRenderer(NameCanvas, LayoutCanvas, options)
}

func newRenderer(name string, layout Layout, options []Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), submitLabel: "Submit"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		name:      name,
		layout:    layout,
		templates: templates,
		widgets:   cfg.widgets,
		submit:    cfg.submitLabel,
	}, nil
}

func (r *Renderer) Name() string {
	return r.name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Layout reports how the renderer arranges elements.
func (r *Renderer) Layout() Layout {
	return r.layout
}

func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	page, err := r.buildPage(ctx, form, options)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}

	result, err := r.templates.RenderTemplate("templates/page.tpl", page)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
