package model

import (
	"fmt"

	"github.com/goliatone/go-formcanvas/internal/model"
)

// Builder converts canvas layouts into form models.
type Builder interface {
	Build(form Form) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	namer      func(string) string
	labeler    func(string) string
	decorators []Decorator
}

// WithNamer overrides how field labels become submission keys.
func WithNamer(namer func(label string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.namer = namer
	}
}

// WithLabeler overrides the label generated for fields left unlabelled.
func WithLabeler(labeler func(name string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithDecorators runs the decorators, in order, on every built model.
func WithDecorators(decorators ...Decorator) BuilderOption {
	return func(opts *builderOptions) {
		opts.decorators = append(opts.decorators, decorators...)
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}
	inner := model.New(model.Options{
		Namer:   cfg.namer,
		Labeler: cfg.labeler,
	})
	if len(cfg.decorators) == 0 {
		return inner
	}
	return decoratedBuilder{inner: inner, decorators: cfg.decorators}
}

type decoratedBuilder struct {
	inner      Builder
	decorators []Decorator
}

func (d decoratedBuilder) Build(form Form) (FormModel, error) {
	out, err := d.inner.Build(form)
	if err != nil {
		return FormModel{}, err
	}
	for _, decorator := range d.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&out); err != nil {
			return FormModel{}, fmt.Errorf("model: decorate %s: %w", form.ID, err)
		}
	}
	return out, nil
}

// FieldName applies the default naming rule to a label.
func FieldName(label string) string {
	return model.DefaultNamer(label)
}

// FieldLabel applies the default labelling rule to a submission key
// ("date_of_birth" -> "Date Of Birth").
func FieldLabel(name string) string {
	return model.DefaultLabeler(name)
}
