// Package storage persists canvas forms and their submissions.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/model"
)

var (
	ErrNotFound = errors.New("storage: not found")
	ErrConflict = errors.New("storage: already exists")
	ErrStale    = errors.New("storage: version mismatch")
)

// Form is a stored canvas layout. Version starts at 1 and increases on every
// save.
type Form struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Theme       string           `json:"theme,omitempty"`
	Variant     string           `json:"variant,omitempty"`
	Elements    []canvas.Element `json:"elements"`
	Version     int              `json:"version"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Model converts the stored layout into the model builder input.
func (f Form) Model() model.Form {
	return model.Form{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Elements:    cloneElements(f.Elements),
	}
}

// Submission is an accepted response to a form.
type Submission struct {
	ID        string         `json:"id"`
	FormID    string         `json:"formId"`
	Values    map[string]any `json:"values"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Repository is implemented by the in-memory and SQLite stores.
type Repository interface {
	// CreateForm stores a new form. An empty ID is replaced by a generated
	// one; an existing ID fails with ErrConflict.
	CreateForm(ctx context.Context, form Form) (Form, error)
	GetForm(ctx context.Context, id string) (Form, error)
	// ListForms returns every form ordered by id, without elements.
	ListForms(ctx context.Context) ([]Form, error)
	// SaveForm replaces a stored form. A non-zero Version must match the
	// stored one or ErrStale is returned.
	SaveForm(ctx context.Context, form Form) (Form, error)
	// DeleteForm removes a form and its submissions.
	DeleteForm(ctx context.Context, id string) error
	AddSubmission(ctx context.Context, submission Submission) (Submission, error)
	ListSubmissions(ctx context.Context, formID string) ([]Submission, error)
	Close() error
}

func cloneElements(elements []canvas.Element) []canvas.Element {
	if elements == nil {
		return nil
	}
	out := make([]canvas.Element, len(elements))
	for i, element := range elements {
		out[i] = element.Clone()
	}
	return out
}
