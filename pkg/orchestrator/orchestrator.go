package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formcanvas/pkg/model"
	"github.com/goliatone/go-formcanvas/pkg/render"
	"github.com/goliatone/go-formcanvas/pkg/renderers/vanilla"
	"github.com/goliatone/go-formcanvas/pkg/schema"
	"github.com/goliatone/go-formcanvas/pkg/storage"
	"github.com/goliatone/go-formcanvas/pkg/widgets"
)

const defaultRendererName = vanilla.NameForm

// FormSource is the part of storage.Repository the orchestrator reads.
type FormSource interface {
	GetForm(ctx context.Context, id string) (storage.Form, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithModelBuilder injects a custom form model builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithThemes injects the theme selector.
func WithThemes(selector render.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themes = selector
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformers registers transformers that run, in order, after the
// model is built and before rendering.
func WithTransformers(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		o.transformers = append(o.transformers, transformers...)
	}
}

// Orchestrator renders stored forms. Missing dependencies fall back to the
// built-in implementations: the vanilla flow and canvas renderers, the
// embedded themes and a builder decorated with the default widget registry.
type Orchestrator struct {
	forms           FormSource
	builder         model.Builder
	registry        *render.Registry
	themes          render.ThemeSelector
	defaultRenderer string
	transformers    []Transformer
}

// New constructs an Orchestrator over forms.
func New(forms FormSource, options ...Option) (*Orchestrator, error) {
	if forms == nil {
		return nil, errors.New("orchestrator: form source is required")
	}
	o := &Orchestrator{forms: forms, defaultRenderer: defaultRendererName}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}

	if o.builder == nil {
		o.builder = model.NewBuilder(model.WithDecorators(widgets.NewRegistry()))
	}
	if o.registry == nil {
		flow, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
		preview, err := vanilla.NewCanvas()
		if err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
		o.registry = render.NewRegistry(flow, preview)
	}
	if o.themes == nil {
		selector, err := render.DefaultSelector()
		if err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
		o.themes = selector
	}
	return o, nil
}

// Request describes one render.
type Request struct {
	FormID string
	// Renderer names the renderer to use. Empty selects the default renderer.
	Renderer string
	// Theme and Variant override the stored form's theme. Empty values fall
	// back to the form, then to the selector default.
	Theme   string
	Variant string
	// RenderOptions carries values, errors and selection. Theme and Action
	// are filled in when left empty.
	RenderOptions render.RenderOptions
}

// Result is a rendered form.
type Result struct {
	Body        []byte
	ContentType string
	Form        storage.Form
	Model       model.FormModel
}

// Model loads and builds the form, running the configured transformers.
func (o *Orchestrator) Model(ctx context.Context, id string) (storage.Form, model.FormModel, error) {
	if ctx == nil {
		return storage.Form{}, model.FormModel{}, errors.New("orchestrator: context is required")
	}
	form, err := o.forms.GetForm(ctx, id)
	if err != nil {
		return storage.Form{}, model.FormModel{}, err
	}
	built, err := o.builder.Build(form.Model())
	if err != nil {
		return storage.Form{}, model.FormModel{}, fmt.Errorf("orchestrator: build form model: %w", err)
	}
	for _, t := range o.transformers {
		if err := t.Transform(ctx, &built); err != nil {
			return storage.Form{}, model.FormModel{}, fmt.Errorf("orchestrator: transform %s: %w", id, err)
		}
	}
	return form, built, nil
}

// Generate renders the requested form.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if req.FormID == "" {
		return Result{}, errors.New("orchestrator: form id is required")
	}
	form, built, err := o.Model(ctx, req.FormID)
	if err != nil {
		return Result{}, err
	}

	name := req.Renderer
	if name == "" {
		name = o.defaultRenderer
	}
	if !o.registry.Has(name) {
		return Result{}, fmt.Errorf("orchestrator: renderer %q not registered", name)
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		theme, variant := req.Theme, req.Variant
		if theme == "" {
			theme = form.Theme
		}
		if variant == "" {
			variant = form.Variant
		}
		selection, err := o.themes.Select(theme, variant)
		if err != nil {
			return Result{}, err
		}
		opts.Theme = render.ThemeConfig(selection, vanilla.DefaultPartials())
	}
	if opts.Action == "" {
		opts.Action = schema.SubmissionPath(form.ID)
	}

	body, contentType, err := o.registry.Render(ctx, name, built, opts)
	if err != nil {
		return Result{}, err
	}
	return Result{Body: body, ContentType: contentType, Form: form, Model: built}, nil
}
