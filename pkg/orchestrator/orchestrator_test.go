package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcanvas/pkg/model"
	"github.com/goliatone/go-formcanvas/pkg/orchestrator"
	"github.com/goliatone/go-formcanvas/pkg/render"
	"github.com/goliatone/go-formcanvas/pkg/storage"
	"github.com/goliatone/go-formcanvas/pkg/testsupport"
)

func newRepo(t *testing.T) storage.Repository {
	t.Helper()
	repo := storage.NewMemory()
	_, err := repo.CreateForm(context.Background(), storage.Form{
		ID:       "contact",
		Title:    "Contact",
		Theme:    "paper",
		Elements: testsupport.ContactElements(),
	})
	if err != nil {
		t.Fatalf("create form: %v", err)
	}
	return repo
}

func TestGenerate_DefaultsToFlowRenderer(t *testing.T) {
	gen, err := orchestrator.New(newRepo(t))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	res, err := gen.Generate(context.Background(), orchestrator.Request{FormID: "contact"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(res.Body)
	for _, fragment := range []string{
		`class="fc-form fc-layout-flow"`,
		`action="/forms/contact/responses"`,
		`data-theme="paper"`,
	} {
		if !strings.Contains(html, fragment) {
			t.Errorf("output missing %q", fragment)
		}
	}
	if res.ContentType != "text/html; charset=utf-8" || res.Form.ID != "contact" {
		t.Fatalf("unexpected result metadata %q %q", res.ContentType, res.Form.ID)
	}
}

func TestGenerate_CanvasWithThemeOverride(t *testing.T) {
	gen, err := orchestrator.New(newRepo(t), orchestrator.WithDefaultRenderer("canvas"))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	res, err := gen.Generate(context.Background(), orchestrator.Request{
		FormID:        "contact",
		Theme:         "canvas",
		Variant:       "dark",
		RenderOptions: render.RenderOptions{Selected: []string{"select-1"}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(res.Body)
	for _, fragment := range []string{`fc-layout-canvas`, `data-theme="canvas"`, `is-selected" data-element-id="select-1"`} {
		if !strings.Contains(html, fragment) {
			t.Errorf("output missing %q", fragment)
		}
	}
}

func TestGenerate_Errors(t *testing.T) {
	gen, err := orchestrator.New(newRepo(t))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	ctx := context.Background()

	if _, err := gen.Generate(ctx, orchestrator.Request{FormID: "missing"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := gen.Generate(ctx, orchestrator.Request{FormID: "contact", Renderer: "pdf"}); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
	if _, err := gen.Generate(ctx, orchestrator.Request{FormID: "contact", Theme: "neon"}); !errors.Is(err, render.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	if _, err := gen.Generate(ctx, orchestrator.Request{}); err == nil {
		t.Fatalf("expected missing form id error")
	}
}

func TestPresetTransformer(t *testing.T) {
	files := fstest.MapFS{"presets/contact.yaml": {Data: []byte(`
title: Talk to us
metadata:
  layout.width: "700"
fields:
  full_name:
    label: Your name
    rename: name
    metadata: {widget: textarea}
`)}}
	preset, err := orchestrator.NewPresetTransformerFromFS(files, "presets/contact.yaml")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}

	var order []string
	trace := orchestrator.TransformerFunc(func(_ context.Context, form *model.FormModel) error {
		order = append(order, form.Fields[0].Name)
		return nil
	})
	gen, err := orchestrator.New(newRepo(t), orchestrator.WithTransformers(preset, trace))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	_, built, err := gen.Model(context.Background(), "contact")
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	field, ok := built.Field("name")
	if !ok {
		t.Fatalf("renamed field missing: %+v", built.Fields)
	}
	got := []string{built.Title, built.Metadata["layout.width"], field.Label, field.Metadata["widget"]}
	want := []string{"Talk to us", "700", "Your name", "textarea"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("preset mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name"}, order); diff != "" {
		t.Fatalf("transformers ran out of order (-want +got):\n%s", diff)
	}

	bad, err := orchestrator.NewPresetTransformer([]byte(`{"fields": {"nope": {"label": "x"}}}`))
	if err != nil {
		t.Fatalf("parse json preset: %v", err)
	}
	gen, err = orchestrator.New(newRepo(t), orchestrator.WithTransformers(bad))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	if _, _, err := gen.Model(context.Background(), "contact"); err == nil || !strings.Contains(err.Error(), `"nope"`) {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}
