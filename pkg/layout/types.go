package layout

import (
	"sort"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/model"
)

// Form is a named canvas layout.
type Form struct {
	ID          string           `json:"-" yaml:"-"`
	Title       string           `json:"title,omitempty" yaml:"title,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Theme       string           `json:"theme,omitempty" yaml:"theme,omitempty"`
	Variant     string           `json:"variant,omitempty" yaml:"variant,omitempty"`
	Elements    []canvas.Element `json:"elements" yaml:"elements"`
	Source      string           `json:"-" yaml:"-"`
}

// Model converts the layout into model builder input.
func (f Form) Model() model.Form {
	return model.Form{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Elements:    f.Elements,
	}
}

// Store keeps the parsed forms from layout documents. It is safe for
// concurrent readers when treated as immutable after construction.
type Store struct {
	forms map[string]Form
}

// Form returns a copy of the layout with the supplied id.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[id]
	if !ok {
		return Form{}, false
	}
	form.Elements = cloneElements(form.Elements)
	return form, true
}

// IDs lists the form ids in lexical order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

func cloneElements(elements []canvas.Element) []canvas.Element {
	out := make([]canvas.Element, len(elements))
	for idx, element := range elements {
		out[idx] = element.Clone()
	}
	return out
}
