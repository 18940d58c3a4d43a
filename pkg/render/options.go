package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the form model.
type RenderOptions struct {
	// Action is the submission URL. Empty means the form posts to itself.
	Action string
	// Values pre-populates rendered controls keyed by field name. Multi-choice
	// fields accept []string or []any.
	Values map[string]any
	// Errors surfaces server-side validation feedback keyed by field name.
	Errors map[string][]string
	// FormErrors are shown above the form.
	FormErrors []string
	// Selected lists element ids highlighted in canvas previews.
	Selected []string
	// Theme carries resolved partials, tokens and assets. Nil renders with
	// the built-in look.
	Theme *theme.RendererConfig
}

// WithErrors returns a copy of o carrying mapping's field and form errors.
func (o RenderOptions) WithErrors(mapping ErrorMapping) RenderOptions {
	o.Errors = mapping.Fields
	o.FormErrors = MergeFormErrors(o.FormErrors, mapping.Form...)
	return o
}
