package canvas

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Suggestion is a field proposed by an external generator, typically a
// language model asked to draft a form.
type Suggestion struct {
	Type        string   `json:"type" yaml:"type"`
	Label       string   `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText    string   `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Content     string   `json:"content,omitempty" yaml:"content,omitempty"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
}

type suggestionEnvelope struct {
	Fields []Suggestion `yaml:"fields"`
}

// ParseSuggestions decodes a suggestion list from JSON or YAML. Markdown code
// fences around the payload are ignored, and both a bare list and an object
// with a "fields" list are accepted.
func ParseSuggestions(data []byte) ([]Suggestion, error) {
	payload := stripFences(string(data))
	if payload == "" {
		return nil, errors.New("canvas: suggestions payload is empty")
	}

	var list []Suggestion
	if err := yaml.Unmarshal([]byte(payload), &list); err == nil {
		return filterSuggestions(list), nil
	}

	var envelope suggestionEnvelope
	if err := yaml.Unmarshal([]byte(payload), &envelope); err != nil {
		return nil, fmt.Errorf("canvas: parse suggestions: %w", err)
	}
	return filterSuggestions(envelope.Fields), nil
}

// Import places each suggestion through the placement resolver, anchored at
// origin, so the batch stacks below the existing layout. Ids carry a random
// suffix since the whole batch is created within the same instant. Unknown
// types are skipped. The last imported element becomes the selection.
func (b *Board) Import(suggestions []Suggestion, origin Point) []Element {
	if len(suggestions) == 0 {
		return nil
	}

	b.mu.Lock()
	created := make([]Element, 0, len(suggestions))
	for _, suggestion := range suggestions {
		t := ParseElementType(suggestion.Type)
		if !t.Known() {
			continue
		}
		pos := ResolvePosition(origin, t, b.elements)
		element := b.factory.CreateBatch(t, pos, b.elements)
		for b.indexOf(element.ID) >= 0 {
			element.ID = b.factory.BatchID(t)
		}
		suggestion.applyTo(&element)
		b.elements = append(b.elements, element)
		created = append(created, element.Clone())
	}
	if len(created) > 0 {
		b.selected = map[string]struct{}{created[len(created)-1].ID: {}}
	}
	b.mu.Unlock()

	if len(created) == 0 {
		return nil
	}
	ids := make([]string, 0, len(created))
	for _, element := range created {
		ids = append(ids, element.ID)
	}
	b.notify(LevelSuccess, fmt.Sprintf("Imported %d fields", len(created)), ids...)
	return created
}

func (s Suggestion) applyTo(element *Element) {
	if element.Block != nil {
		if content := strings.TrimSpace(s.Content); content != "" {
			element.Block.Content = content
		} else if label := strings.TrimSpace(s.Label); label != "" {
			element.Block.Content = label
		}
		return
	}
	field := element.Field
	if label := strings.TrimSpace(s.Label); label != "" {
		field.Label = label
	}
	if placeholder := strings.TrimSpace(s.Placeholder); placeholder != "" {
		field.Placeholder = placeholder
	}
	if help := strings.TrimSpace(s.HelpText); help != "" {
		field.HelpText = help
	}
	field.Required = s.Required
	if element.Type.HasOptions() {
		if options := cleanOptions(s.Options); len(options) > 0 {
			field.Options = options
		}
	}
}

func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), "```") {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func filterSuggestions(in []Suggestion) []Suggestion {
	out := make([]Suggestion, 0, len(in))
	for _, suggestion := range in {
		if strings.TrimSpace(suggestion.Type) == "" {
			continue
		}
		out = append(out, suggestion)
	}
	return out
}

func cleanOptions(options []string) []string {
	var out []string
	for _, option := range options {
		if trimmed := strings.TrimSpace(option); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
