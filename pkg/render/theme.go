package render

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

//go:embed themes/*.yaml
var embeddedThemes embed.FS

var (
	ErrThemeNotFound   = errors.New("render: theme not found")
	ErrVariantNotFound = errors.New("render: theme variant not found")
)

// ThemeSelector resolves a theme name and variant to a manifest selection.
// *ManifestSelector satisfies it; so does any go-theme selector.
type ThemeSelector interface {
	Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error)
}

// ManifestSelector selects from an in-memory set of manifests.
type ManifestSelector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests and remembers the defaults used
// when Select receives empty names.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	if s.defaultTheme != "" {
		if _, ok := s.manifests[s.defaultTheme]; !ok {
			return nil, fmt.Errorf("%w: default %q", ErrThemeNotFound, s.defaultTheme)
		}
	}
	return s, nil
}

// Register adds or replaces a manifest.
func (s *ManifestSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("render: theme manifest needs a name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[manifest.Name] = manifest
	return nil
}

// Select returns the named theme and variant. An empty name picks the
// default theme. An empty variant picks the default variant when the theme
// declares it and the base theme otherwise.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	if name == "" {
		name = s.defaultTheme
	}

	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}

	if variant == "" {
		if _, ok := manifest.Variants[s.defaultVariant]; ok {
			variant = s.defaultVariant
		}
	} else if _, ok := manifest.Variants[variant]; !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrVariantNotFound, name, variant)
	}

	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// Themes lists registered theme names.
func (s *ManifestSelector) Themes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeConfig flattens a selection into renderer configuration. Variant
// tokens override base tokens, every token is also exposed as a "--name" CSS
// variable, and partials layer as fallbacks, then manifest templates, then
// variant templates. AssetURL prefers variant files over base files.
func ThemeConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Partials: make(map[string]string, len(fallbacks)),
		Tokens:   make(map[string]string),
		CSSVars:  make(map[string]string),
	}
	for key, value := range fallbacks {
		cfg.Partials[key] = value
	}
	if selection == nil || selection.Manifest == nil {
		cfg.AssetURL = func(string) string { return "" }
		return cfg
	}

	manifest := selection.Manifest
	variant, hasVariant := manifest.Variants[selection.Variant]
	cfg.Theme = selection.Theme
	cfg.Variant = selection.Variant

	layers := []theme.Variant{{Tokens: manifest.Tokens, Templates: manifest.Templates}}
	if hasVariant {
		layers = append(layers, variant)
	}
	for _, layer := range layers {
		for key, value := range layer.Tokens {
			cfg.Tokens[key] = value
		}
		for key, value := range layer.Templates {
			cfg.Partials[key] = value
		}
	}
	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}

	base := manifest.Assets
	var overlay theme.Assets
	if hasVariant {
		overlay = variant.Assets
	}
	cfg.AssetURL = func(key string) string {
		for _, assets := range []theme.Assets{overlay, base} {
			file, ok := assets.Files[key]
			if !ok || file == "" {
				continue
			}
			prefix := assets.Prefix
			if prefix == "" {
				prefix = base.Prefix
			}
			if prefix == "" || strings.Contains(file, "://") {
				return file
			}
			return path.Join(prefix, file)
		}
		return ""
	}
	return cfg
}

type manifestFile struct {
	Name      string                 `yaml:"name"`
	Version   string                 `yaml:"version"`
	Tokens    map[string]string      `yaml:"tokens"`
	Templates map[string]string      `yaml:"templates"`
	Assets    assetsFile             `yaml:"assets"`
	Variants  map[string]variantFile `yaml:"variants"`
}

type variantFile struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

// ParseManifest decodes a YAML theme manifest.
func ParseManifest(data []byte) (*theme.Manifest, error) {
	var raw manifestFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("render: parse theme manifest: %w", err)
	}
	if strings.TrimSpace(raw.Name) == "" {
		return nil, errors.New("render: theme manifest needs a name")
	}

	manifest := &theme.Manifest{
		Name:      strings.TrimSpace(raw.Name),
		Version:   raw.Version,
		Tokens:    raw.Tokens,
		Templates: raw.Templates,
		Assets:    theme.Assets{Prefix: raw.Assets.Prefix, Files: raw.Assets.Files},
	}
	if len(raw.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(raw.Variants))
		for name, v := range raw.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    v.Tokens,
				Templates: v.Templates,
				Assets:    theme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
			}
		}
	}
	return manifest, nil
}

// LoadManifests parses every .yaml and .yml file at the root of fsys.
func LoadManifests(fsys fs.FS) ([]*theme.Manifest, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("render: read themes: %w", err)
	}
	var out []*theme.Manifest
	for _, entry := range entries {
		ext := path.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("render: read theme %s: %w", entry.Name(), err)
		}
		manifest, err := ParseManifest(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		out = append(out, manifest)
	}
	return out, nil
}

// BuiltinManifests returns the embedded "canvas" and "paper" themes.
func BuiltinManifests() ([]*theme.Manifest, error) {
	sub, err := fs.Sub(embeddedThemes, "themes")
	if err != nil {
		return nil, err
	}
	return LoadManifests(sub)
}

// DefaultSelector serves the built-in themes with "canvas" as the default.
func DefaultSelector() (*ManifestSelector, error) {
	manifests, err := BuiltinManifests()
	if err != nil {
		return nil, err
	}
	return NewManifestSelector("canvas", "", manifests...)
}
