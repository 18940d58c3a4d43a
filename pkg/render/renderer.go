package render

import (
	"context"

	"github.com/goliatone/go-formcanvas/pkg/model"
)

// Renderer converts a FormModel into a byte representation such as an HTML
// preview of the canvas or a plain flowing form.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
