package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formcanvas/pkg/render"
)

func acmeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
			"ink":   "#000000",
		},
		Templates: map[string]string{
			"forms.input": "themes/acme/input.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				"stylesheet": "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Templates: map[string]string{
					"forms.toggle": "themes/acme/dark/toggle.tpl",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						"stylesheet": "theme.dark.css",
					},
				},
			},
		},
	}
}

func TestManifestSelector_Select(t *testing.T) {
	selector, err := render.NewManifestSelector("acme", "dark", acmeManifest())
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select defaults: %v", err)
	}
	if selection.Theme != "acme" || selection.Variant != "dark" {
		t.Fatalf("unexpected default selection: %s/%s", selection.Theme, selection.Variant)
	}

	if _, err := selector.Select("missing", ""); !errors.Is(err, render.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	if _, err := selector.Select("acme", "sepia"); !errors.Is(err, render.ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
	if _, err := render.NewManifestSelector("nope", ""); !errors.Is(err, render.ErrThemeNotFound) {
		t.Fatalf("unknown default theme should be rejected, got %v", err)
	}
}

func TestThemeConfig_LayersTokensPartialsAndAssets(t *testing.T) {
	selector, err := render.NewManifestSelector("acme", "", acmeManifest())
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	selection, err := selector.Select("acme", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	cfg := render.ThemeConfig(selection, map[string]string{
		"forms.input":    "templates/widgets/input.tpl",
		"forms.textarea": "templates/widgets/textarea.tpl",
	})

	wantPartials := map[string]string{
		"forms.input":    "themes/acme/input.tpl",
		"forms.textarea": "templates/widgets/textarea.tpl",
		"forms.toggle":   "themes/acme/dark/toggle.tpl",
	}
	if diff := cmp.Diff(wantPartials, cfg.Partials); diff != "" {
		t.Fatalf("partials mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"--brand": "#654321", "--ink": "#000000"}, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/theme.dark.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unknown asset should resolve empty, got %q", got)
	}

	base := render.ThemeConfig(&theme.Selection{Theme: "acme", Manifest: acmeManifest()}, nil)
	if got := base.AssetURL("stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected base stylesheet url %q", got)
	}
}

func TestDefaultSelector_ServesBuiltInThemes(t *testing.T) {
	selector, err := render.DefaultSelector()
	if err != nil {
		t.Fatalf("default selector: %v", err)
	}
	if diff := cmp.Diff([]string{"canvas", "paper"}, selector.Themes()); diff != "" {
		t.Fatalf("themes mismatch (-want +got):\n%s", diff)
	}

	selection, err := selector.Select("", "dark")
	if err != nil {
		t.Fatalf("select dark: %v", err)
	}
	cfg := render.ThemeConfig(selection, nil)
	if cfg.Tokens["surface"] != "#0f172a" || cfg.Tokens["danger"] != "#dc2626" {
		t.Fatalf("dark tokens not layered over base: %v", cfg.Tokens)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/formcanvas.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
}

func TestParseManifest_RequiresName(t *testing.T) {
	if _, err := render.ParseManifest([]byte("version: 1.0.0\n")); err == nil {
		t.Fatalf("expected error for nameless manifest")
	}
}
