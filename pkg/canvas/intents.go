package canvas

import (
	"context"
	"fmt"
)

// IntentKind names a discrete canvas action.
type IntentKind string

const (
	IntentDrop           IntentKind = "drop"
	IntentSelect         IntentKind = "select"
	IntentClearSelection IntentKind = "clear-selection"
	IntentMove           IntentKind = "move"
	IntentGroup          IntentKind = "group"
	IntentUngroup        IntentKind = "ungroup"
	IntentDuplicate      IntentKind = "duplicate"
	IntentDuplicateGroup IntentKind = "duplicate-group"
	IntentDelete         IntentKind = "delete"
	IntentUpdate         IntentKind = "update"
	IntentImport         IntentKind = "import"
)

// Intent is a transport-neutral request to change the board. Input layers
// translate their events into intents and hand them to Board.Apply.
type Intent interface {
	Kind() IntentKind
}

// DropIntent places a new element.
type DropIntent struct {
	Type     ElementType
	Position Point
}

// SelectIntent updates the selection.
type SelectIntent struct {
	ID    string
	Multi bool
}

// ClearSelectionIntent empties the selection.
type ClearSelectionIntent struct{}

// MoveIntent moves an element (and its group).
type MoveIntent struct {
	ID       string
	Position Point
}

// GroupIntent groups IDs, or the current selection when IDs is empty.
type GroupIntent struct {
	IDs []string
}

// UngroupIntent dissolves the group anchored at IDs[0], or at the first
// selected element when IDs is empty.
type UngroupIntent struct {
	IDs []string
}

// DuplicateIntent clones a single element.
type DuplicateIntent struct {
	ID string
}

// DuplicateGroupIntent clones the groups touched by IDs and the selection.
type DuplicateGroupIntent struct {
	IDs []string
}

// DeleteIntent removes an element. Confirmer overrides the board confirmer
// for this call when set.
type DeleteIntent struct {
	ID        string
	Confirmer Confirmer
}

// UpdateIntent edits the content fields of an element.
type UpdateIntent struct {
	ID    string
	Patch Patch
}

// ImportIntent places a batch of suggested fields.
type ImportIntent struct {
	Suggestions []Suggestion
	Origin      Point
}

func (DropIntent) Kind() IntentKind           { return IntentDrop }
func (SelectIntent) Kind() IntentKind         { return IntentSelect }
func (ClearSelectionIntent) Kind() IntentKind { return IntentClearSelection }
func (MoveIntent) Kind() IntentKind           { return IntentMove }
func (GroupIntent) Kind() IntentKind          { return IntentGroup }
func (UngroupIntent) Kind() IntentKind        { return IntentUngroup }
func (DuplicateIntent) Kind() IntentKind      { return IntentDuplicate }
func (DuplicateGroupIntent) Kind() IntentKind { return IntentDuplicateGroup }
func (DeleteIntent) Kind() IntentKind         { return IntentDelete }
func (UpdateIntent) Kind() IntentKind         { return IntentUpdate }
func (ImportIntent) Kind() IntentKind         { return IntentImport }

// Patch lists optional edits to an element's content. Nil fields are left
// untouched.
type Patch struct {
	Label       *string     `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder *string     `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText    *string     `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Required    *bool       `json:"required,omitempty" yaml:"required,omitempty"`
	Options     *[]string   `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
	Content     *string     `json:"content,omitempty" yaml:"content,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Label == nil && p.Placeholder == nil && p.HelpText == nil &&
		p.Required == nil && p.Options == nil && p.Validation == nil && p.Content == nil
}

func (p Patch) apply(element *Element) {
	if element.Block != nil && p.Content != nil {
		element.Block.Content = *p.Content
	}
	field := element.Field
	if field == nil {
		return
	}
	if p.Label != nil {
		field.Label = *p.Label
	}
	if p.Placeholder != nil {
		field.Placeholder = *p.Placeholder
	}
	if p.HelpText != nil {
		field.HelpText = *p.HelpText
	}
	if p.Required != nil {
		field.Required = *p.Required
	}
	if p.Options != nil {
		field.Options = append([]string(nil), (*p.Options)...)
	}
	if p.Validation != nil {
		field.Validation = p.Validation.clone()
	}
}

// Result reports what an applied intent changed.
type Result struct {
	Created []Element `json:"created,omitempty"`
	Changed []string  `json:"changed,omitempty"`
	Removed []string  `json:"removed,omitempty"`
	GroupID string    `json:"groupId,omitempty"`
}

// Mutated reports whether the board's elements changed.
func (r Result) Mutated() bool {
	return len(r.Created) > 0 || len(r.Changed) > 0 || len(r.Removed) > 0
}

// Apply dispatches an intent to the matching board operation.
func (b *Board) Apply(ctx context.Context, intent Intent) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	switch in := intent.(type) {
	case DropIntent:
		return Result{Created: []Element{b.Drop(in.Type, in.Position)}}, nil
	case SelectIntent:
		b.Select(in.ID, in.Multi)
		return Result{}, nil
	case ClearSelectionIntent:
		b.ClearSelection()
		return Result{}, nil
	case MoveIntent:
		return Result{Changed: b.Move(in.ID, in.Position)}, nil
	case GroupIntent:
		groupID, err := b.Group(b.targets(in.IDs))
		if err != nil {
			return Result{}, err
		}
		return Result{Changed: b.GroupMembers(groupID), GroupID: groupID}, nil
	case UngroupIntent:
		cleared, err := b.Ungroup(b.targets(in.IDs))
		if err != nil {
			return Result{}, err
		}
		return Result{Changed: cleared}, nil
	case DuplicateIntent:
		clone, ok := b.Duplicate(in.ID)
		if !ok {
			return Result{}, nil
		}
		return Result{Created: []Element{clone}}, nil
	case DuplicateGroupIntent:
		clones := b.DuplicateGroup(in.IDs)
		res := Result{Created: clones}
		if len(clones) > 0 {
			res.GroupID = clones[0].GroupID
		}
		return res, nil
	case DeleteIntent:
		confirmer := in.Confirmer
		if confirmer == nil {
			confirmer = b.confirmer
		}
		return Result{Removed: b.delete(ctx, in.ID, confirmer)}, nil
	case UpdateIntent:
		if in.Patch.Empty() {
			return Result{}, nil
		}
		if _, ok := b.Element(in.ID); !ok {
			return Result{}, nil
		}
		if err := b.Update(in.ID, in.Patch.apply); err != nil {
			return Result{}, err
		}
		return Result{Changed: []string{in.ID}}, nil
	case ImportIntent:
		return Result{Created: b.Import(in.Suggestions, in.Origin)}, nil
	case nil:
		return Result{}, fmt.Errorf("%w: nil", ErrUnknownIntent)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownIntent, intent.Kind())
	}
}

// targets falls back to the current selection when ids is empty.
func (b *Board) targets(ids []string) []string {
	if len(ids) > 0 {
		return ids
	}
	return b.Selection()
}
