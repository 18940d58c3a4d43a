package canvas

import "strings"

// ElementType tags the kind of element placed on the canvas.
type ElementType string

const (
	TypeHeader    ElementType = "header"
	TypeParagraph ElementType = "paragraph"
	TypeText      ElementType = "text"
	TypeEmail     ElementType = "email"
	TypeNumber    ElementType = "number"
	TypeTextarea  ElementType = "textarea"
	TypeSelect    ElementType = "select"
	TypeCheckbox  ElementType = "checkbox"
	TypeRadio     ElementType = "radio"
	TypeDate      ElementType = "date"
	TypeFile      ElementType = "file"
)

// ElementTypes lists the built-in element types in palette order.
func ElementTypes() []ElementType {
	return []ElementType{
		TypeHeader, TypeParagraph, TypeText, TypeEmail, TypeNumber, TypeTextarea,
		TypeSelect, TypeCheckbox, TypeRadio, TypeDate, TypeFile,
	}
}

// ParseElementType normalises raw input into an ElementType. Unknown values
// are preserved so the factory can apply generic defaults.
func ParseElementType(raw string) ElementType {
	return ElementType(strings.ToLower(strings.TrimSpace(raw)))
}

// Known reports whether t is one of the built-in types.
func (t ElementType) Known() bool {
	switch t {
	case TypeHeader, TypeParagraph, TypeText, TypeEmail, TypeNumber, TypeTextarea,
		TypeSelect, TypeCheckbox, TypeRadio, TypeDate, TypeFile:
		return true
	}
	return false
}

// IsBlock reports whether t is a static content block rather than an input.
func (t ElementType) IsBlock() bool {
	return t == TypeHeader || t == TypeParagraph
}

// HasOptions reports whether elements of type t carry an options list.
func (t ElementType) HasOptions() bool {
	return t == TypeSelect || t == TypeRadio || t == TypeCheckbox
}

// Point is a canvas-local pixel coordinate.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Size is an element's pixel footprint.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// ValidationKind discriminates Validation variants.
type ValidationKind string

const (
	ValidationEmail  ValidationKind = "email"
	ValidationNumber ValidationKind = "number"
	ValidationLength ValidationKind = "length"
	ValidationRegex  ValidationKind = "regex"
	ValidationDate   ValidationKind = "date"
	ValidationCustom ValidationKind = "custom"
)

// Validation describes the input rule attached to a field. Min and Max apply
// to number and length rules, Pattern to regex rules. Custom rules only carry
// a message and are enforced by the form owner.
type Validation struct {
	Kind    ValidationKind `json:"kind" yaml:"kind"`
	Min     *int           `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *int           `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern string         `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Message string         `json:"message,omitempty" yaml:"message,omitempty"`
}

func (v *Validation) clone() *Validation {
	if v == nil {
		return nil
	}
	out := *v
	if v.Min != nil {
		min := *v.Min
		out.Min = &min
	}
	if v.Max != nil {
		max := *v.Max
		out.Max = &max
	}
	return &out
}

// FieldProps is the payload carried by input elements.
type FieldProps struct {
	Label       string      `json:"label" yaml:"label"`
	Placeholder string      `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText    string      `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Required    bool        `json:"required" yaml:"required"`
	Options     []string    `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// BlockProps is the payload carried by header and paragraph elements.
type BlockProps struct {
	Content string `json:"content" yaml:"content"`
}

// Element is a single placeable unit on the canvas. Exactly one of Field or
// Block is set, depending on Type. An empty GroupID means the element is not
// grouped.
type Element struct {
	ID       string      `json:"id" yaml:"id"`
	Type     ElementType `json:"type" yaml:"type"`
	Position Point       `json:"position" yaml:"position"`
	Size     Size        `json:"size" yaml:"size"`
	GroupID  string      `json:"groupId,omitempty" yaml:"groupId,omitempty"`
	Field    *FieldProps `json:"field,omitempty" yaml:"field,omitempty"`
	Block    *BlockProps `json:"block,omitempty" yaml:"block,omitempty"`
}

// Bounds returns the element's bounding box.
func (e Element) Bounds() Rect {
	return Rect{X: e.Position.X, Y: e.Position.Y, Width: e.Size.Width, Height: e.Size.Height}
}

// Bottom is the y coordinate just below the element.
func (e Element) Bottom() int {
	return e.Position.Y + e.Size.Height
}

// Label returns the field label, or the block content for headers and
// paragraphs.
func (e Element) Label() string {
	switch {
	case e.Field != nil:
		return e.Field.Label
	case e.Block != nil:
		return e.Block.Content
	}
	return ""
}

// Grouped reports whether the element belongs to a group.
func (e Element) Grouped() bool {
	return e.GroupID != ""
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	out := e
	if e.Field != nil {
		field := *e.Field
		if len(e.Field.Options) > 0 {
			field.Options = append([]string(nil), e.Field.Options...)
		}
		field.Validation = e.Field.Validation.clone()
		out.Field = &field
	}
	if e.Block != nil {
		block := *e.Block
		out.Block = &block
	}
	return out
}

func cloneElements(elements []Element) []Element {
	if len(elements) == 0 {
		return nil
	}
	out := make([]Element, len(elements))
	for idx, element := range elements {
		out[idx] = element.Clone()
	}
	return out
}
