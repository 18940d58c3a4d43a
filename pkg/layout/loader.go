package layout

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/sanitize"
)

// Supported document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type documentFile struct {
	Forms map[string]Form `json:"forms" yaml:"forms"`
}

// LoadFS walks the provided filesystem and parses JSON/YAML layout files.
// When fsys is nil or no layout files are present, the returned store is
// empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || FormatFromPath(path) == "" {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("layout: read %s: %w", path, err)
		}
		forms, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, form := range forms {
			if existing, exists := store.forms[form.ID]; exists {
				return fmt.Errorf("%w: %q in %s (first defined in %s)", ErrDuplicateForm, form.ID, path, existing.Source)
			}
			store.forms[form.ID] = form
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Parse decodes a single layout document. Forms are returned in id order.
func Parse(data []byte, source string) ([]Form, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		if yamlErr := yaml.Unmarshal(data, &doc); yamlErr != nil {
			return nil, fmt.Errorf("layout: parse %s: invalid JSON or YAML: %w", source, yamlErr)
		}
	}

	ids := make([]string, 0, len(doc.Forms))
	for id := range doc.Forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	forms := make([]Form, 0, len(ids))
	for _, rawID := range ids {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return nil, fmt.Errorf("layout: file %s defines an empty form id", source)
		}
		form, err := normaliseForm(doc.Forms[rawID], id, source)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// Encode serialises forms into a single document in the given format.
func Encode(format string, forms ...Form) ([]byte, error) {
	doc := documentFile{Forms: make(map[string]Form, len(forms))}
	for _, form := range forms {
		doc.Forms[form.ID] = form
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("layout: encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML, "yml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("layout: encode yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FormatFromPath infers the document format from a file extension, returning
// an empty string for unsupported files.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}

func normaliseForm(raw Form, id, source string) (Form, error) {
	form := raw
	form.ID = id
	form.Source = source
	form.Title = sanitize.Text(raw.Title)
	form.Description = sanitize.Text(raw.Description)

	elements := make([]canvas.Element, len(raw.Elements))
	for idx, element := range raw.Elements {
		element.Type = canvas.ParseElementType(string(element.Type))
		if element.Size == (canvas.Size{}) {
			element.Size = canvas.SizeFor(element.Type)
		}
		elements[idx] = sanitize.Element(element)
	}
	if err := canvas.Validate(elements); err != nil {
		return Form{}, fmt.Errorf("layout: form %q (file %s): %w", id, source, err)
	}
	form.Elements = elements
	return form, nil
}
