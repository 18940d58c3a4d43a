package render_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-formcanvas/pkg/model"
	"github.com/goliatone/go-formcanvas/pkg/render"
)

type stubRenderer struct {
	name string
	got  render.RenderOptions
}

func (s *stubRenderer) Name() string        { return s.name }
func (s *stubRenderer) ContentType() string { return "text/plain" }
func (s *stubRenderer) Render(_ context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	s.got = opts
	return []byte(s.name + ":" + form.FormID), nil
}

func TestRegistry_DefaultsToFirstRegistered(t *testing.T) {
	first := &stubRenderer{name: "canvas"}
	second := &stubRenderer{name: "form"}
	registry := render.NewRegistry(first, second)

	out, contentType, err := registry.Render(context.Background(), "", model.FormModel{FormID: "contact"}, render.RenderOptions{Action: "/x"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "canvas:contact" || contentType != "text/plain" {
		t.Fatalf("unexpected output %q (%s)", out, contentType)
	}
	if first.got.Action != "/x" {
		t.Fatalf("options not forwarded: %+v", first.got)
	}

	if err := registry.Register(&stubRenderer{name: "form"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, _, err := registry.Render(context.Background(), "pdf", model.FormModel{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected missing renderer error")
	}
	if got := registry.List(); len(got) != 2 || got[0] != "canvas" || got[1] != "form" {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestRenderOptions_WithErrors(t *testing.T) {
	opts := render.RenderOptions{FormErrors: []string{"Session expired"}}.WithErrors(render.ErrorMapping{
		Fields: map[string][]string{"email": {"Invalid"}},
		Form:   []string{"Session expired", "Try again"},
	})
	if len(opts.FormErrors) != 2 || opts.Errors["email"][0] != "Invalid" {
		t.Fatalf("unexpected options %+v", opts)
	}
}
