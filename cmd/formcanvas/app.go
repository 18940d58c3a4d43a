package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/goliatone/go-formcanvas/internal/config"
	"github.com/goliatone/go-formcanvas/pkg/layout"
	"github.com/goliatone/go-formcanvas/pkg/model"
	"github.com/goliatone/go-formcanvas/pkg/orchestrator"
	"github.com/goliatone/go-formcanvas/pkg/render"
	"github.com/goliatone/go-formcanvas/pkg/renderers/vanilla"
	"github.com/goliatone/go-formcanvas/pkg/storage"
	"github.com/goliatone/go-formcanvas/pkg/storage/sqlite"
	"github.com/goliatone/go-formcanvas/pkg/widgets"
)

// openRepository builds the configured store and seeds the starter layouts.
func openRepository(ctx context.Context, c *config.Config) (storage.Repository, error) {
	var repo storage.Repository
	switch c.Storage.Type {
	case "sqlite":
		store, err := sqlite.Open(c.Storage.Path)
		if err != nil {
			return nil, err
		}
		repo = store
	default:
		repo = storage.NewMemory()
	}

	if c.Layouts.Seed {
		if err := seed(ctx, c, repo); err != nil {
			repo.Close()
			return nil, err
		}
	}
	return repo, nil
}

func seed(ctx context.Context, c *config.Config, repo storage.Repository) error {
	sources := []*layout.Store{}
	starters, err := layout.LoadFS(layout.EmbeddedFS())
	if err != nil {
		return fmt.Errorf("load starter layouts: %w", err)
	}
	sources = append(sources, starters)
	if c.Layouts.Dir != "" {
		extra, err := layout.LoadFS(os.DirFS(c.Layouts.Dir))
		if err != nil {
			return fmt.Errorf("load layouts from %s: %w", c.Layouts.Dir, err)
		}
		sources = append(sources, extra)
	}

	for _, source := range sources {
		created, err := source.Seed(ctx, repo)
		if err != nil {
			return err
		}
		if len(created) > 0 {
			logger.Info("seeded layouts", zap.Strings("forms", created))
		}
	}
	return nil
}

// themeSelector serves the built-in themes plus any manifests in the
// configured directory, defaulting to the configured theme.
func themeSelector(c *config.Config) (*render.ManifestSelector, error) {
	manifests, err := render.BuiltinManifests()
	if err != nil {
		return nil, err
	}
	if c.Theme.Dir != "" {
		extra, err := render.LoadManifests(os.DirFS(c.Theme.Dir))
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, extra...)
	}
	return render.NewManifestSelector(c.Theme.Name, c.Theme.Variant, manifests...)
}

func newBuilder() model.Builder {
	return model.NewBuilder(model.WithDecorators(widgets.NewRegistry()))
}

func htmlRenderers() (*render.Registry, error) {
	flow, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	preview, err := vanilla.NewCanvas()
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(flow, preview), nil
}

// newOrchestrator renders stored forms with the configured themes. Preset
// files, when given, relabel fields before rendering.
func newOrchestrator(c *config.Config, repo storage.Repository, presets ...string) (*orchestrator.Orchestrator, error) {
	selector, err := themeSelector(c)
	if err != nil {
		return nil, err
	}
	renderers, err := htmlRenderers()
	if err != nil {
		return nil, err
	}
	options := []orchestrator.Option{
		orchestrator.WithThemes(selector),
		orchestrator.WithRegistry(renderers),
		orchestrator.WithModelBuilder(newBuilder()),
	}
	for _, path := range presets {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		preset, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		options = append(options, orchestrator.WithTransformers(preset))
	}
	return orchestrator.New(repo, options...)
}
