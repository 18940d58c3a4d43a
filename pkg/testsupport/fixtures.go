package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
)

// ContactElements returns a small contact form laid out on the canvas: a
// header, a required name field, an email field, a topic select and a
// message textarea, stacked in one column. Callers get a fresh copy.
func ContactElements() []canvas.Element {
	minLen, maxLen := 2, 120
	maxMessage := 1000
	return []canvas.Element{
		{
			ID:       "header-1",
			Type:     canvas.TypeHeader,
			Position: canvas.Point{X: 100, Y: 50},
			Size:     canvas.SizeFor(canvas.TypeHeader),
			Block:    &canvas.BlockProps{Content: "Contact us"},
		},
		{
			ID:       "text-1",
			Type:     canvas.TypeText,
			Position: canvas.Point{X: 100, Y: 135},
			Size:     canvas.SizeFor(canvas.TypeText),
			Field: &canvas.FieldProps{
				Label:      "Full Name",
				Required:   true,
				Validation: &canvas.Validation{Kind: canvas.ValidationLength, Min: &minLen, Max: &maxLen},
			},
		},
		{
			ID:       "email-1",
			Type:     canvas.TypeEmail,
			Position: canvas.Point{X: 100, Y: 240},
			Size:     canvas.SizeFor(canvas.TypeEmail),
			Field: &canvas.FieldProps{
				Label:       "Email Address",
				Placeholder: "example@domain.com",
				Required:    true,
				Validation:  &canvas.Validation{Kind: canvas.ValidationEmail},
			},
		},
		{
			ID:       "select-1",
			Type:     canvas.TypeSelect,
			Position: canvas.Point{X: 100, Y: 345},
			Size:     canvas.SizeFor(canvas.TypeSelect),
			Field: &canvas.FieldProps{
				Label:   "Topic",
				Options: []string{"Sales", "Support"},
			},
		},
		{
			ID:       "textarea-1",
			Type:     canvas.TypeTextarea,
			Position: canvas.Point{X: 100, Y: 450},
			Size:     canvas.SizeFor(canvas.TypeTextarea),
			Field: &canvas.FieldProps{
				Label:      "Additional Details",
				Validation: &canvas.Validation{Kind: canvas.ValidationLength, Max: &maxMessage},
			},
		},
	}
}

// MustLoadElements reads a JSON element list fixture.
func MustLoadElements(t *testing.T, path string) []canvas.Element {
	t.Helper()

	elements, err := LoadElements(path)
	if err != nil {
		t.Fatalf("load elements: %v", err)
	}
	return elements
}

// LoadElements reads a JSON element list, returning an error for callers
// managing setup outside of *testing.T.
func LoadElements(path string) ([]canvas.Element, error) {
	if path == "" {
		return nil, errors.New("testsupport: elements path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read elements: %w", err)
	}
	var out []canvas.Element
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal elements: %w", err)
	}
	return out, nil
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
