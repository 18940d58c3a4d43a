package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
)

var errFormIDMissing = errors.New("model builder: form id is required")

// Form is the builder input: a named canvas layout.
type Form struct {
	ID          string
	Title       string
	Description string
	Elements    []canvas.Element
}

// Builder converts canvas layouts into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Namer != nil {
		opts.Namer = options.Namer
	}
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	return &Builder{opts: opts}
}

// Build validates the layout and transforms it into a FormModel. Elements are
// visited in reading order so field order matches what users see on the
// canvas, not the order they were dropped in.
func (b *Builder) Build(form Form) (FormModel, error) {
	if strings.TrimSpace(form.ID) == "" {
		return FormModel{}, errFormIDMissing
	}
	if err := canvas.Validate(form.Elements); err != nil {
		return FormModel{}, fmt.Errorf("model builder: %w", err)
	}

	out := FormModel{
		FormID:      form.ID,
		Title:       form.Title,
		Description: form.Description,
		Fields:      []Field{},
		Metadata:    map[string]string{},
	}

	names := make(map[string]struct{})
	width, height := 0, 0
	for order, element := range readingOrder(form.Elements) {
		width = max(width, element.Position.X+element.Size.Width)
		height = max(height, element.Bottom())
		layout := layoutMetadata(element, order)

		if element.Block != nil {
			out.Blocks = append(out.Blocks, Block{
				ElementID: element.ID,
				Kind:      string(element.Type),
				Content:   element.Block.Content,
				Metadata:  layout,
			})
			continue
		}

		field := b.field(element)
		field.Name = uniqueName(names, field.Name)
		if field.Label == "" {
			field.Label = b.opts.Labeler(field.Name)
		}
		field.Metadata = layout
		out.Fields = append(out.Fields, field)
	}

	out.Metadata["layout.width"] = strconv.Itoa(width)
	out.Metadata["layout.height"] = strconv.Itoa(height)
	out.Metadata["layout.elements"] = strconv.Itoa(len(form.Elements))
	return out, nil
}

func (b *Builder) field(element canvas.Element) Field {
	props := element.Field
	name := b.opts.Namer(props.Label)
	if name == "" {
		name = b.opts.Namer(string(element.Type) + " field")
	}

	field := Field{
		Name:        name,
		ElementID:   element.ID,
		Widget:      string(element.Type),
		Type:        FieldTypeString,
		Required:    props.Required,
		Label:       props.Label,
		Placeholder: props.Placeholder,
		Description: props.HelpText,
	}

	switch element.Type {
	case canvas.TypeNumber:
		field.Type = FieldTypeNumber
	case canvas.TypeEmail:
		field.Format = "email"
	case canvas.TypeDate:
		field.Format = "date"
	case canvas.TypeFile:
		field.Format = "binary"
	case canvas.TypeSelect, canvas.TypeRadio:
		field.Enum = enumValues(props.Options)
	case canvas.TypeCheckbox:
		if len(props.Options) == 0 {
			field.Type = FieldTypeBoolean
			break
		}
		field.Type = FieldTypeArray
		field.Items = &Field{
			Name: "item",
			Type: FieldTypeString,
			Enum: enumValues(props.Options),
		}
	}

	field.Validations = validationRules(props.Validation)
	if props.Validation != nil && field.Format == "" {
		switch props.Validation.Kind {
		case canvas.ValidationEmail:
			field.Format = "email"
		case canvas.ValidationDate:
			field.Format = "date"
		}
	}
	return field
}

func validationRules(rule *canvas.Validation) []ValidationRule {
	if rule == nil {
		return nil
	}

	var rules []ValidationRule
	add := func(kind string, params map[string]string) {
		if rule.Message != "" {
			params["message"] = rule.Message
		}
		rules = append(rules, ValidationRule{Kind: kind, Params: params})
	}

	switch rule.Kind {
	case canvas.ValidationEmail, canvas.ValidationDate:
		add(ValidationRuleFormat, map[string]string{"value": string(rule.Kind)})
	case canvas.ValidationNumber:
		if rule.Min != nil {
			add(ValidationRuleMin, map[string]string{"value": strconv.Itoa(*rule.Min)})
		}
		if rule.Max != nil {
			add(ValidationRuleMax, map[string]string{"value": strconv.Itoa(*rule.Max)})
		}
	case canvas.ValidationLength:
		if rule.Min != nil && *rule.Min > 0 {
			add(ValidationRuleMinLength, map[string]string{"value": strconv.Itoa(*rule.Min)})
		}
		if rule.Max != nil {
			add(ValidationRuleMaxLength, map[string]string{"value": strconv.Itoa(*rule.Max)})
		}
	case canvas.ValidationRegex:
		add(ValidationRulePattern, map[string]string{"pattern": rule.Pattern})
	case canvas.ValidationCustom:
		add(ValidationRuleCustom, map[string]string{})
	}
	return rules
}

func layoutMetadata(element canvas.Element, order int) map[string]string {
	meta := map[string]string{
		"layout.x":      strconv.Itoa(element.Position.X),
		"layout.y":      strconv.Itoa(element.Position.Y),
		"layout.width":  strconv.Itoa(element.Size.Width),
		"layout.height": strconv.Itoa(element.Size.Height),
		"layout.order":  strconv.Itoa(order),
	}
	if element.GroupID != "" {
		meta["layout.group"] = element.GroupID
	}
	return meta
}

// readingOrder sorts a copy of elements top to bottom, then left to right,
// with the id as a final tie-break so output is deterministic.
func readingOrder(elements []canvas.Element) []canvas.Element {
	out := append([]canvas.Element(nil), elements...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Position.Y != b.Position.Y {
			return a.Position.Y < b.Position.Y
		}
		if a.Position.X != b.Position.X {
			return a.Position.X < b.Position.X
		}
		return a.ID < b.ID
	})
	return out
}

func uniqueName(seen map[string]struct{}, name string) string {
	candidate := name
	for n := 2; ; n++ {
		if _, taken := seen[candidate]; !taken {
			break
		}
		candidate = name + "_" + strconv.Itoa(n)
	}
	seen[candidate] = struct{}{}
	return candidate
}

func enumValues(options []string) []any {
	if len(options) == 0 {
		return nil
	}
	out := make([]any, 0, len(options))
	for _, option := range options {
		out = append(out, option)
	}
	return out
}
