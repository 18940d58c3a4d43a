package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formcanvas/pkg/model"
)

// Transformer mutates a FormModel after it is built. Implementations can
// relabel fields, inject metadata, or perform arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, form *model.FormModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.FormModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// PresetTransformer applies declarative overrides read from a JSON or YAML
// document. Field patches are keyed by field name:
//
//	metadata:
//	  layout.width: "700"
//	fields:
//	  full_name:
//	    label: Your name
//	    metadata: {widget: input}
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Title       string                 `yaml:"title" json:"title"`
	Description string                 `yaml:"description" json:"description"`
	Metadata    map[string]string      `yaml:"metadata" json:"metadata"`
	Fields      map[string]fieldPreset `yaml:"fields" json:"fields"`
}

type fieldPreset struct {
	Label       string            `yaml:"label" json:"label"`
	Description string            `yaml:"description" json:"description"`
	Placeholder string            `yaml:"placeholder" json:"placeholder"`
	Rename      string            `yaml:"rename" json:"rename"`
	Metadata    map[string]string `yaml:"metadata" json:"metadata"`
}

// NewPresetTransformer parses a preset document. YAML is a superset of JSON
// so both formats are accepted.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the patches onto form. Patching an unknown field is an
// error.
func (t *PresetTransformer) Transform(ctx context.Context, form *model.FormModel) error {
	if form == nil {
		return errors.New("preset transformer: form model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		form.Title = t.document.Title
	}
	if t.document.Description != "" {
		form.Description = t.document.Description
	}
	form.Metadata = mergeStringMap(form.Metadata, t.document.Metadata)

	for name, patch := range t.document.Fields {
		field := findField(form.Fields, name)
		if field == nil {
			return fmt.Errorf("preset transformer: field %q not found", name)
		}
		applyFieldPreset(field, patch)
	}
	return nil
}

func applyFieldPreset(field *model.Field, patch fieldPreset) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	field.Metadata = mergeStringMap(field.Metadata, patch.Metadata)
	if rename := strings.TrimSpace(patch.Rename); rename != "" {
		field.Name = rename
	}
}

func findField(fields []model.Field, name string) *model.Field {
	for idx := range fields {
		if fields[idx].Name == name {
			return &fields[idx]
		}
	}
	return nil
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
