package vanilla

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formcanvas/pkg/model"
	"github.com/goliatone/go-formcanvas/pkg/render"
	"github.com/goliatone/go-formcanvas/pkg/sanitize"
	"github.com/goliatone/go-formcanvas/pkg/widgets"
)

// DefaultPartials maps partial keys to the built-in templates. Theme
// manifests override entries by key; "forms.<widget>" covers fields and
// "blocks.<type>" covers static content.
func DefaultPartials() map[string]string {
	return map[string]string{
		"forms." + widgets.WidgetInput:      "templates/widgets/input.tpl",
		"forms." + widgets.WidgetTextarea:   "templates/widgets/textarea.tpl",
		"forms." + widgets.WidgetSelect:     "templates/widgets/select.tpl",
		"forms." + widgets.WidgetRadioGroup: "templates/widgets/radio-group.tpl",
		"forms." + widgets.WidgetChoiceList: "templates/widgets/choice-list.tpl",
		"forms." + widgets.WidgetToggle:     "templates/widgets/toggle.tpl",
		"forms." + widgets.WidgetFile:       "templates/widgets/file.tpl",
		"blocks.header":                     "templates/blocks/header.tpl",
		"blocks.paragraph":                  "templates/blocks/paragraph.tpl",
	}
}

type pageView struct {
	Form          formView     `json:"form"`
	Layout        Layout       `json:"layout"`
	Action        string       `json:"action,omitempty"`
	Stylesheet    string       `json:"stylesheet,omitempty"`
	StylesheetURL string       `json:"stylesheetURL,omitempty"`
	Theme         themeView    `json:"theme"`
	FormErrors    []string     `json:"formErrors,omitempty"`
	Surface       *surfaceView `json:"surface,omitempty"`
	Items         []itemView   `json:"items"`
	Submit        string       `json:"submit,omitempty"`
}

type formView struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type themeView struct {
	Name    string `json:"name,omitempty"`
	Variant string `json:"variant,omitempty"`
	CSSVars string `json:"cssVars,omitempty"`
}

type surfaceView struct {
	Width  string `json:"width"`
	Height string `json:"height"`
}

type itemView struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Group    string   `json:"group,omitempty"`
	Style    string   `json:"style,omitempty"`
	Selected bool     `json:"selected,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	HTML     string   `json:"html"`

	order int
}

type fieldView struct {
	ID          string       `json:"id"`
	ElementID   string       `json:"elementId"`
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	InputType   string       `json:"inputType"`
	Placeholder string       `json:"placeholder,omitempty"`
	Help        string       `json:"help,omitempty"`
	Required    bool         `json:"required,omitempty"`
	Invalid     bool         `json:"invalid,omitempty"`
	Value       string       `json:"value,omitempty"`
	Checked     bool         `json:"checked,omitempty"`
	Options     []optionView `json:"options,omitempty"`
	Min         string       `json:"min,omitempty"`
	Max         string       `json:"max,omitempty"`
	MinLength   string       `json:"minLength,omitempty"`
	MaxLength   string       `json:"maxLength,omitempty"`
	Pattern     string       `json:"pattern,omitempty"`
}

type optionView struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Checked bool   `json:"checked,omitempty"`
}

type blockView struct {
	Content string `json:"content"`
}

func (r *Renderer) buildPage(ctx context.Context, form model.FormModel, options render.RenderOptions) (pageView, error) {
	if err := ctx.Err(); err != nil {
		return pageView{}, err
	}

	page := pageView{
		Form: formView{
			ID:          form.FormID,
			Title:       form.Title,
			Description: form.Description,
		},
		Layout:     r.layout,
		Action:     options.Action,
		FormErrors: options.FormErrors,
	}

	partials := DefaultPartials()
	if cfg := options.Theme; cfg != nil {
		for key, value := range cfg.Partials {
			partials[key] = value
		}
		page.Theme = themeView{Name: cfg.Theme, Variant: cfg.Variant, CSSVars: cssVarsStyle(cfg.CSSVars)}
		if cfg.AssetURL != nil {
			page.StylesheetURL = cfg.AssetURL("stylesheet")
		}
	}
	if page.StylesheetURL == "" {
		page.Stylesheet = Stylesheet()
	}

	selected := make(map[string]bool, len(options.Selected))
	for _, id := range options.Selected {
		selected[id] = true
	}

	items := make([]itemView, 0, len(form.Fields)+len(form.Blocks))
	for _, block := range form.Blocks {
		item := r.newItem(block.ElementID, block.Kind, block.Metadata, selected)
		html, err := r.renderPartial(partials, "blocks."+blockKind(block.Kind), map[string]any{
			"block": blockView{Content: sanitize.Content(block.Content)},
		})
		if err != nil {
			return pageView{}, fmt.Errorf("block %s: %w", block.ElementID, err)
		}
		item.HTML = html
		items = append(items, item)
	}
	for _, field := range form.Fields {
		widget, ok := r.widgets.Resolve(field)
		if !ok {
			widget = widgets.WidgetInput
		}
		item := r.newItem(field.ElementID, widget, field.Metadata, selected)
		item.Errors = options.Errors[field.Name]

		view := buildFieldView(field, options.Values[field.Name])
		view.Invalid = len(item.Errors) > 0
		html, err := r.renderPartial(partials, "forms."+widget, map[string]any{"field": view})
		if err != nil {
			return pageView{}, fmt.Errorf("field %s: %w", field.Name, err)
		}
		item.HTML = html
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].order < items[j].order })
	page.Items = items

	switch r.layout {
	case LayoutCanvas:
		width, height := metaInt(form.Metadata, "layout.width"), metaInt(form.Metadata, "layout.height")
		if width > 0 && height > 0 {
			page.Surface = &surfaceView{Width: strconv.Itoa(width), Height: strconv.Itoa(height)}
		}
	case LayoutFlow:
		page.Submit = r.submit
	}
	return page, nil
}

func (r *Renderer) newItem(id, kind string, meta map[string]string, selected map[string]bool) itemView {
	item := itemView{
		ID:    id,
		Type:  kind,
		Group: meta["layout.group"],
		order: metaInt(meta, "layout.order"),
	}
	if r.layout == LayoutCanvas {
		item.Selected = selected[id]
		item.Style = fmt.Sprintf("left: %dpx; top: %dpx; width: %dpx; height: %dpx",
			metaInt(meta, "layout.x"),
			metaInt(meta, "layout.y"),
			metaInt(meta, "layout.width"),
			metaInt(meta, "layout.height"),
		)
	}
	return item
}

// renderPartial renders the template registered under key, falling back to
// the built-in partial when a theme points at a template that cannot be
// loaded.
func (r *Renderer) renderPartial(partials map[string]string, key string, data map[string]any) (string, error) {
	defaults := DefaultPartials()
	candidates := []string{partials[key], defaults[key]}
	if strings.HasPrefix(key, "forms.") {
		candidates = append(candidates, defaults["forms."+widgets.WidgetInput])
	}
	for _, path := range candidates {
		if path == "" || !r.templates.Exists(path) {
			continue
		}
		return r.templates.RenderTemplate(path, data)
	}
	return "", fmt.Errorf("no template for %q", key)
}

func buildFieldView(field model.Field, value any) fieldView {
	id := field.ElementID
	if id == "" {
		id = field.Name
	}
	view := fieldView{
		ID:          "field-" + id,
		ElementID:   id,
		Name:        field.Name,
		Label:       field.Label,
		InputType:   inputType(field),
		Placeholder: field.Placeholder,
		Help:        field.Description,
		Required:    field.Required,
	}

	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleMin:
			view.Min = rule.Params["value"]
		case model.ValidationRuleMax:
			view.Max = rule.Params["value"]
		case model.ValidationRuleMinLength:
			view.MinLength = rule.Params["value"]
		case model.ValidationRuleMaxLength:
			view.MaxLength = rule.Params["value"]
		case model.ValidationRulePattern:
			view.Pattern = rule.Params["pattern"]
		}
	}

	chosen := chosenValues(value)
	enum := field.Enum
	if field.Items != nil {
		enum = field.Items.Enum
	}
	for _, option := range enum {
		label := fmt.Sprint(option)
		view.Options = append(view.Options, optionView{Value: label, Label: label, Checked: chosen[label]})
	}

	switch v := value.(type) {
	case bool:
		view.Checked = v
	case string:
		view.Value = v
		view.Checked = v == "true" || v == "on"
	case nil, []string, []any:
	default:
		view.Value = fmt.Sprint(v)
	}
	return view
}

func inputType(field model.Field) string {
	switch {
	case field.Type == model.FieldTypeNumber:
		return "number"
	case field.Format == "email":
		return "email"
	case field.Format == "date":
		return "date"
	default:
		return "text"
	}
}

func chosenValues(value any) map[string]bool {
	out := make(map[string]bool)
	switch v := value.(type) {
	case string:
		out[v] = true
	case []string:
		for _, item := range v {
			out[item] = true
		}
	case []any:
		for _, item := range v {
			out[fmt.Sprint(item)] = true
		}
	}
	return out
}

func blockKind(kind string) string {
	if kind == "header" {
		return "header"
	}
	return "paragraph"
}

func metaInt(meta map[string]string, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(meta[key]))
	if err != nil {
		return 0
	}
	return n
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}
