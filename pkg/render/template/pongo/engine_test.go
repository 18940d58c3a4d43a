package pongo_test

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-formcanvas/pkg/render/template/pongo"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	var buf bytes.Buffer
	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "Hello Ada!\n"; result != want || buf.String() != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q (writer %q)", want, result, buf.String())
	}
	if !engine.Exists("hello") || engine.Exists("missing") {
		t.Fatalf("Exists should only report loadable templates")
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, err := engine.RenderTemplate("use-global.tpl", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "env=staging\n" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}

	result, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "ADA!\n" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEngine_StructDataUsesJSONKeys(t *testing.T) {
	engine := newEngine(t)
	type box struct {
		Left  string `json:"left"`
		Width int    `json:"width"`
		Label string `json:"label"`
	}

	result, err := engine.RenderTemplate("box", map[string]any{
		"box": box{Left: "100", Width: 500, Label: "  Name  "},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<div style="left: 100px; width: 500px">Name</div>` + "\n"
	if result != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestEngine_RenderString(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Render("{{ greeting }}, {{ name }}", map[string]any{"greeting": "Hi", "name": "Grace"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "Hi, Grace" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without a template source")
	}
}

func newEngine(t *testing.T) *pongo.Engine {
	t.Helper()
	sub, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := pongo.New(pongo.WithFS(sub))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
