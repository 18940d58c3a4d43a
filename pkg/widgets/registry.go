package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/model"
)

// Built-in widget identifiers exposed by the registry. Each one names a
// partial in the preview templates.
const (
	WidgetInput      = "input"
	WidgetTextarea   = "textarea"
	WidgetSelect     = "select"
	WidgetRadioGroup = "radio-group"
	WidgetChoiceList = "choice-list"
	WidgetToggle     = "toggle"
	WidgetFile       = "file"
)

// Matcher decides whether a widget renderer should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widget renderers for fields based on explicit hints or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence. Callers should avoid duplicate names; the
// latest registration wins during resolution.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit
// Metadata["widget"] is honoured before matcher evaluation.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if field.Metadata != nil {
		if widget := strings.TrimSpace(field.Metadata["widget"]); widget != "" {
			return widget, true
		}
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate implements model.Decorator, recording the resolved widget in
// Metadata["widget"] for every field that does not carry one yet.
func (r *Registry) Decorate(form *model.FormModel) error {
	if r == nil || form == nil {
		return nil
	}
	for idx := range form.Fields {
		field := &form.Fields[idx]
		widget, ok := r.Resolve(*field)
		if !ok || widget == "" {
			continue
		}
		if field.Metadata == nil {
			field.Metadata = make(map[string]string)
		}
		field.Metadata["widget"] = widget
	}
	return nil
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetChoiceList, 90, func(field model.Field) bool {
		return field.Type == model.FieldTypeArray && field.Items != nil && len(field.Items.Enum) > 0
	})

	r.Register(WidgetToggle, 80, func(field model.Field) bool {
		return field.Type == model.FieldTypeBoolean
	})

	r.Register(WidgetRadioGroup, 70, func(field model.Field) bool {
		return field.Widget == string(canvas.TypeRadio) && len(field.Enum) > 0
	})

	r.Register(WidgetSelect, 60, func(field model.Field) bool {
		return field.Type != model.FieldTypeArray && len(field.Enum) > 0
	})

	r.Register(WidgetTextarea, 50, func(field model.Field) bool {
		return field.Widget == string(canvas.TypeTextarea)
	})

	r.Register(WidgetFile, 40, func(field model.Field) bool {
		return field.Format == "binary"
	})

	r.Register(WidgetInput, 0, func(model.Field) bool {
		return true
	})
}
