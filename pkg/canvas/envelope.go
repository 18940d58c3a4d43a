package canvas

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Envelope is the JSON form of an Intent: a "kind" discriminator plus the
// fields that kind uses.
//
//	{"kind":"drop","type":"email","position":{"x":100,"y":200}}
//	{"kind":"delete","id":"email-1","cascade":true}
//	{"kind":"import","text":"```json\n[...]\n```","origin":{"x":100,"y":100}}
type Envelope struct {
	Kind        IntentKind   `json:"kind" yaml:"kind"`
	ID          string       `json:"id,omitempty" yaml:"id,omitempty"`
	IDs         []string     `json:"ids,omitempty" yaml:"ids,omitempty"`
	Type        string       `json:"type,omitempty" yaml:"type,omitempty"`
	Position    *Point       `json:"position,omitempty" yaml:"position,omitempty"`
	Multi       bool         `json:"multi,omitempty" yaml:"multi,omitempty"`
	Cascade     *bool        `json:"cascade,omitempty" yaml:"cascade,omitempty"`
	Patch       *Patch       `json:"patch,omitempty" yaml:"patch,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	// Text holds raw generator output, parsed with ParseSuggestions.
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
	Origin *Point `json:"origin,omitempty" yaml:"origin,omitempty"`
}

// DefaultImportOrigin anchors imports that do not name an origin.
var DefaultImportOrigin = Point{X: 4 * GridUnit, Y: 4 * GridUnit}

// DecodeIntent parses a JSON envelope into an Intent.
func DecodeIntent(data []byte) (Intent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("canvas: decode intent: %w", err)
	}
	return env.Intent()
}

// Intent converts the envelope. A delete without an explicit cascade flag
// leaves the board confirmer in charge.
func (e Envelope) Intent() (Intent, error) {
	kind := IntentKind(strings.ToLower(strings.TrimSpace(string(e.Kind))))
	switch kind {
	case IntentDrop:
		if e.Position == nil || strings.TrimSpace(e.Type) == "" {
			return nil, fmt.Errorf("canvas: drop needs type and position")
		}
		return DropIntent{Type: ParseElementType(e.Type), Position: *e.Position}, nil
	case IntentSelect:
		if e.ID == "" {
			return nil, fmt.Errorf("canvas: select needs id")
		}
		return SelectIntent{ID: e.ID, Multi: e.Multi}, nil
	case IntentClearSelection:
		return ClearSelectionIntent{}, nil
	case IntentMove:
		if e.ID == "" || e.Position == nil {
			return nil, fmt.Errorf("canvas: move needs id and position")
		}
		return MoveIntent{ID: e.ID, Position: *e.Position}, nil
	case IntentGroup:
		return GroupIntent{IDs: e.IDs}, nil
	case IntentUngroup:
		return UngroupIntent{IDs: e.idsOrID()}, nil
	case IntentDuplicate:
		if e.ID == "" {
			return nil, fmt.Errorf("canvas: duplicate needs id")
		}
		return DuplicateIntent{ID: e.ID}, nil
	case IntentDuplicateGroup:
		return DuplicateGroupIntent{IDs: e.idsOrID()}, nil
	case IntentDelete:
		if e.ID == "" {
			return nil, fmt.Errorf("canvas: delete needs id")
		}
		intent := DeleteIntent{ID: e.ID}
		if e.Cascade != nil {
			intent.Confirmer = NeverConfirm
			if *e.Cascade {
				intent.Confirmer = AlwaysConfirm
			}
		}
		return intent, nil
	case IntentUpdate:
		if e.ID == "" || e.Patch == nil {
			return nil, fmt.Errorf("canvas: update needs id and patch")
		}
		return UpdateIntent{ID: e.ID, Patch: *e.Patch}, nil
	case IntentImport:
		suggestions := e.Suggestions
		if strings.TrimSpace(e.Text) != "" {
			parsed, err := ParseSuggestions([]byte(e.Text))
			if err != nil {
				return nil, err
			}
			suggestions = append(suggestions, parsed...)
		}
		origin := DefaultImportOrigin
		if e.Origin != nil {
			origin = *e.Origin
		}
		return ImportIntent{Suggestions: suggestions, Origin: origin}, nil
	case "":
		return nil, fmt.Errorf("%w: missing kind", ErrUnknownIntent)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntent, kind)
	}
}

func (e Envelope) idsOrID() []string {
	if len(e.IDs) > 0 || e.ID == "" {
		return e.IDs
	}
	return []string{e.ID}
}
