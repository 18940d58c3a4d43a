package widgets

import (
	"testing"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/model"
	"github.com/goliatone/go-formcanvas/pkg/testsupport"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	field := model.Field{
		Type: model.FieldTypeBoolean,
		Metadata: map[string]string{
			"widget": "custom-toggle",
		},
	}

	if got, ok := reg.Resolve(field); !ok || got != "custom-toggle" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		field  model.Field
		expect string
	}{
		{
			name:   "checkbox group",
			field:  model.Field{Type: model.FieldTypeArray, Items: &model.Field{Enum: []any{"a"}}},
			expect: WidgetChoiceList,
		},
		{
			name:   "single checkbox",
			field:  model.Field{Type: model.FieldTypeBoolean},
			expect: WidgetToggle,
		},
		{
			name:   "radio",
			field:  model.Field{Type: model.FieldTypeString, Widget: "radio", Enum: []any{"a"}},
			expect: WidgetRadioGroup,
		},
		{
			name:   "select",
			field:  model.Field{Type: model.FieldTypeString, Widget: "select", Enum: []any{"a"}},
			expect: WidgetSelect,
		},
		{
			name:   "textarea",
			field:  model.Field{Type: model.FieldTypeString, Widget: "textarea"},
			expect: WidgetTextarea,
		},
		{
			name:   "file",
			field:  model.Field{Type: model.FieldTypeString, Widget: "file", Format: "binary"},
			expect: WidgetFile,
		},
		{
			name:   "plain input",
			field:  model.Field{Type: model.FieldTypeNumber, Widget: "number"},
			expect: WidgetInput,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, ok := reg.Resolve(tc.field)
			if !ok || got != tc.expect {
				t.Fatalf("expected %q, got %q (ok=%v)", tc.expect, got, ok)
			}
		})
	}
}

func TestResolve_PriorityAndEmptyRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("stars", 100, func(field model.Field) bool {
		return field.Type == model.FieldTypeNumber
	})
	if got, _ := reg.Resolve(model.Field{Type: model.FieldTypeNumber}); got != "stars" {
		t.Fatalf("expected higher priority matcher to win, got %q", got)
	}

	empty := &Registry{}
	if _, ok := empty.Resolve(model.Field{}); ok {
		t.Fatalf("empty registry should not resolve")
	}
}

func TestDecorate_SetsWidgetMetadata(t *testing.T) {
	form, err := model.NewBuilder(model.WithDecorators(NewRegistry())).Build(model.Form{
		ID:       "contact",
		Elements: testsupport.ContactElements(),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := map[string]string{
		"full_name":          WidgetInput,
		"email_address":      WidgetInput,
		"topic":              WidgetSelect,
		"additional_details": WidgetTextarea,
	}
	for name, widget := range want {
		field, ok := form.Field(name)
		if !ok {
			t.Fatalf("field %s missing", name)
		}
		if field.Metadata["widget"] != widget {
			t.Errorf("%s widget = %q, want %q", name, field.Metadata["widget"], widget)
		}
	}
}

func TestPalette(t *testing.T) {
	entries := Palette()
	if len(entries) != len(canvas.ElementTypes()) {
		t.Fatalf("expected one entry per element type, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.Title == "" || entry.Icon == "" {
			t.Errorf("%s palette entry incomplete: %+v", entry.Type, entry)
		}
	}

	radio, ok := Lookup("RADIO")
	if !ok || radio.Category != CategoryChoices || radio.Height != 100 {
		t.Fatalf("unexpected radio entry: %+v", radio)
	}
	if header, _ := Lookup(canvas.TypeHeader); header.Category != CategoryLayout {
		t.Fatalf("header should be a layout entry: %+v", header)
	}
}
