// Package formcanvas is the top-level entry point: aliases for the canvas
// element model plus helpers that render stored forms with the built-in
// templates and themes.
package formcanvas

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/orchestrator"
	"github.com/goliatone/go-formcanvas/pkg/render"
	"github.com/goliatone/go-formcanvas/pkg/renderers/vanilla"
)

// Element is a placeable canvas unit.
type Element = canvas.Element

// Board holds a form's elements and selection.
type Board = canvas.Board

// RenderOptions carries per-request values, errors and selection.
type RenderOptions = render.RenderOptions

// NewBoard constructs an empty board.
func NewBoard(options ...canvas.Option) *Board {
	return canvas.NewBoard(options...)
}

// NewOrchestrator renders forms read from forms.
func NewOrchestrator(forms orchestrator.FormSource, options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	return orchestrator.New(forms, options...)
}

// GenerateHTML renders a stored form with the named renderer ("vanilla" or
// "canvas"; empty picks "vanilla").
func GenerateHTML(ctx context.Context, forms orchestrator.FormSource, formID, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen, err := orchestrator.New(forms, options...)
	if err != nil {
		return nil, err
	}
	res, err := gen.Generate(ctx, orchestrator.Request{FormID: formID, Renderer: rendererName})
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// EmbeddedTemplates exposes the built-in page and widget templates so callers
// can copy or extend them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the built-in stylesheet for serving over HTTP.
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
