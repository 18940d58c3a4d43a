package canvas

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Option configures a Board.
type Option func(*Board)

// WithFactory injects the element factory used by Drop, Duplicate and Import.
func WithFactory(factory *Factory) Option {
	return func(b *Board) {
		if factory != nil {
			b.factory = factory
		}
	}
}

// WithNotifier registers the receiver of user-facing notifications.
func WithNotifier(notifier Notifier) Option {
	return func(b *Board) {
		if notifier != nil {
			b.notifier = notifier
		}
	}
}

// WithConfirmer registers the prompt consulted before cascading a delete to a
// whole group. Without one, cascades are declined.
func WithConfirmer(confirmer Confirmer) Option {
	return func(b *Board) {
		if confirmer != nil {
			b.confirmer = confirmer
		}
	}
}

// WithGroupIDSource overrides how new group ids are generated.
func WithGroupIDSource(next func() string) Option {
	return func(b *Board) {
		if next != nil {
			b.groupID = next
		}
	}
}

// Snapshot is a detached copy of the board state for rendering.
type Snapshot struct {
	Elements []Element `json:"elements"`
	Selected []string  `json:"selected"`
}

// Board is the in-memory element store plus selection and group manager.
// Element order is insertion order. Operations referencing unknown ids are
// no-ops so stale references from a previous render never fail.
type Board struct {
	mu        sync.RWMutex
	elements  []Element
	selected  map[string]struct{}
	factory   *Factory
	notifier  Notifier
	confirmer Confirmer
	groupID   func() string
}

// NewBoard constructs an empty board.
func NewBoard(options ...Option) *Board {
	b := &Board{
		selected:  make(map[string]struct{}),
		factory:   NewFactory(),
		notifier:  discardNotifier{},
		confirmer: NeverConfirm,
		groupID:   newGroupID,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Load replaces the board contents with a persisted element list after
// validating it. The selection is cleared.
func (b *Board) Load(elements []Element) error {
	if err := Validate(elements); err != nil {
		return fmt.Errorf("canvas: load: %w", err)
	}
	b.mu.Lock()
	b.elements = cloneElements(elements)
	b.selected = make(map[string]struct{})
	b.mu.Unlock()
	return nil
}

// Elements returns a copy of the elements in store order.
func (b *Board) Elements() []Element {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneElements(b.elements)
}

// Element returns a copy of the element with the given id.
func (b *Board) Element(id string) (Element, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	idx := b.indexOf(id)
	if idx < 0 {
		return Element{}, false
	}
	return b.elements[idx].Clone(), true
}

// Len reports the number of elements on the board.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.elements)
}

// Selection returns the selected ids in store order.
func (b *Board) Selection() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selectionLocked()
}

// IsSelected reports whether id is part of the selection.
func (b *Board) IsSelected(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.selected[id]
	return ok
}

// Snapshot returns a detached copy of elements and selection.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{
		Elements: cloneElements(b.elements),
		Selected: b.selectionLocked(),
	}
}

// Preview computes the ghost rectangle for a drag of type t over p without
// changing the board.
func (b *Board) Preview(t ElementType, p Point) Rect {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Preview(p, t, b.elements)
}

// Drop places a new element of type t near p, selects it and returns it.
func (b *Board) Drop(t ElementType, p Point) Element {
	b.mu.Lock()
	pos := ResolvePosition(p, t, b.elements)
	element := b.factory.Create(t, pos, b.elements)
	if b.indexOf(element.ID) >= 0 {
		element.ID = b.factory.BatchID(t)
	}
	b.elements = append(b.elements, element)
	b.selected = map[string]struct{}{element.ID: {}}
	out := element.Clone()
	b.mu.Unlock()

	b.notify(LevelSuccess, fmt.Sprintf("Added %s", describe(out)), out.ID)
	return out
}

// Select updates the selection. With multi set, id is toggled. Otherwise the
// selection becomes {id}, or empty when id was already the only selection.
func (b *Board) Select(id string, multi bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.indexOf(id) < 0 {
		return
	}
	_, isSelected := b.selected[id]
	if multi {
		if isSelected {
			delete(b.selected, id)
		} else {
			b.selected[id] = struct{}{}
		}
		return
	}
	if isSelected && len(b.selected) == 1 {
		b.selected = make(map[string]struct{})
		return
	}
	b.selected = map[string]struct{}{id: {}}
}

// GroupMembers returns the ids sharing groupID in store order.
func (b *Board) GroupMembers(groupID string) []string {
	if groupID == "" {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []string
	for _, idx := range b.groupIndexes(groupID) {
		out = append(out, b.elements[idx].ID)
	}
	return out
}

// ClearSelection empties the selection.
func (b *Board) ClearSelection() {
	b.mu.Lock()
	b.selected = make(map[string]struct{})
	b.mu.Unlock()
}

// Move snaps p to the grid and moves the element there. Grouped elements
// carry every member of their group by the same delta, whether selected or
// not. The delta is clamped so no member leaves the canvas. Move returns the
// ids that changed position.
func (b *Board) Move(id string, p Point) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.indexOf(id)
	if idx < 0 {
		return nil
	}
	target := SnapPoint(p)
	current := b.elements[idx].Position
	dx, dy := target.X-current.X, target.Y-current.Y

	members := []int{idx}
	if groupID := b.elements[idx].GroupID; groupID != "" {
		members = b.groupIndexes(groupID)
	}

	minX, minY := current.X, current.Y
	for _, m := range members {
		pos := b.elements[m].Position
		minX = min(minX, pos.X)
		minY = min(minY, pos.Y)
	}
	dx = max(dx, -minX)
	dy = max(dy, -minY)
	if dx == 0 && dy == 0 {
		return nil
	}

	moved := make([]string, 0, len(members))
	for _, m := range members {
		b.elements[m].Position = b.elements[m].Position.Add(dx, dy)
		moved = append(moved, b.elements[m].ID)
	}
	return moved
}

// Group assigns a fresh group id to the elements named by ids. Fewer than two
// known elements is rejected with ErrGroupTooSmall and a warning.
func (b *Board) Group(ids []string) (string, error) {
	b.mu.Lock()
	indexes := b.indexesOf(ids)
	if len(indexes) < 2 {
		b.mu.Unlock()
		b.notify(LevelWarning, "Select at least 2 elements to group")
		return "", ErrGroupTooSmall
	}
	groupID := b.groupID()
	grouped := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		b.elements[idx].GroupID = groupID
		grouped = append(grouped, b.elements[idx].ID)
	}
	b.mu.Unlock()

	b.notify(LevelSuccess, fmt.Sprintf("Grouped %d elements", len(grouped)), grouped...)
	return groupID, nil
}

// Ungroup dissolves the group of the anchor element, the first known id in
// ids. An anchor without a group is rejected with ErrNotGrouped and a
// warning. Ungroup returns the ids whose group was cleared.
func (b *Board) Ungroup(ids []string) ([]string, error) {
	b.mu.Lock()
	indexes := b.indexesOf(ids)
	if len(indexes) == 0 || b.elements[indexes[0]].GroupID == "" {
		b.mu.Unlock()
		b.notify(LevelWarning, "Selected element is not part of a group")
		return nil, ErrNotGrouped
	}
	groupID := b.elements[indexes[0]].GroupID
	var cleared []string
	for _, idx := range b.groupIndexes(groupID) {
		b.elements[idx].GroupID = ""
		cleared = append(cleared, b.elements[idx].ID)
	}
	b.mu.Unlock()

	b.notify(LevelSuccess, fmt.Sprintf("Ungrouped %d elements", len(cleared)), cleared...)
	return cleared, nil
}

// Duplicate clones the element offset by DuplicateOffset on both axes. The
// clone never joins the source group and becomes the selection.
func (b *Board) Duplicate(id string) (Element, bool) {
	b.mu.Lock()
	idx := b.indexOf(id)
	if idx < 0 {
		b.mu.Unlock()
		return Element{}, false
	}
	clone := b.cloneLocked(b.elements[idx], "")
	b.elements = append(b.elements, clone)
	b.selected = map[string]struct{}{clone.ID: {}}
	out := clone.Clone()
	b.mu.Unlock()

	b.notify(LevelSuccess, fmt.Sprintf("Duplicated %s", describe(out)), out.ID)
	return out, true
}

// DuplicateGroup clones every member of the groups touched by ids and the
// current selection. All clones share a single new group id, are offset by
// DuplicateOffset and become the selection. Ungrouped elements are ignored;
// when no group is involved nothing happens.
func (b *Board) DuplicateGroup(ids []string) []Element {
	b.mu.Lock()
	groups := make(map[string]struct{})
	for _, idx := range b.indexesOf(ids) {
		if groupID := b.elements[idx].GroupID; groupID != "" {
			groups[groupID] = struct{}{}
		}
	}
	for id := range b.selected {
		if idx := b.indexOf(id); idx >= 0 && b.elements[idx].GroupID != "" {
			groups[b.elements[idx].GroupID] = struct{}{}
		}
	}
	if len(groups) == 0 {
		b.mu.Unlock()
		return nil
	}

	groupID := b.groupID()
	var clones []Element
	for _, element := range b.elements {
		if _, ok := groups[element.GroupID]; !ok {
			continue
		}
		clones = append(clones, b.cloneLocked(element, groupID))
	}
	b.elements = append(b.elements, clones...)
	b.selected = make(map[string]struct{}, len(clones))
	ids = make([]string, 0, len(clones))
	for _, clone := range clones {
		b.selected[clone.ID] = struct{}{}
		ids = append(ids, clone.ID)
	}
	out := cloneElements(clones)
	b.mu.Unlock()

	b.notify(LevelSuccess, fmt.Sprintf("Duplicated group of %d elements", len(out)), ids...)
	return out
}

// Delete removes the element. When it belongs to a group with other members
// the Confirmer decides whether the whole group goes; declining removes only
// this element and leaves the remaining members grouped. Delete returns the
// removed ids.
func (b *Board) Delete(ctx context.Context, id string) []string {
	return b.delete(ctx, id, b.confirmer)
}

func (b *Board) delete(ctx context.Context, id string, confirmer Confirmer) []string {
	b.mu.RLock()
	idx := b.indexOf(id)
	if idx < 0 {
		b.mu.RUnlock()
		return nil
	}
	groupID := b.elements[idx].GroupID
	members := 1
	if groupID != "" {
		members = len(b.groupIndexes(groupID))
	}
	b.mu.RUnlock()

	cascade := false
	if members > 1 {
		cascade = confirmer.Confirm(ctx, ConfirmRequest{
			ElementID: id,
			GroupID:   groupID,
			Members:   members,
			Message:   fmt.Sprintf("This element is part of a group of %d. Delete the entire group?", members),
		})
	}

	b.mu.Lock()
	var removed []string
	kept := b.elements[:0]
	for _, element := range b.elements {
		if element.ID == id || (cascade && element.GroupID == groupID) {
			removed = append(removed, element.ID)
			delete(b.selected, element.ID)
			continue
		}
		kept = append(kept, element)
	}
	b.elements = kept
	b.mu.Unlock()

	switch {
	case len(removed) == 0:
	case cascade:
		b.notify(LevelSuccess, fmt.Sprintf("Deleted group of %d elements", len(removed)), removed...)
	default:
		b.notify(LevelSuccess, "Element deleted", removed...)
	}
	return removed
}

// Update applies a direct edit to the element's content fields. Id, type,
// position, size and group stay owned by the board and are restored after
// edit runs. Edits that break the element invariants are rejected.
func (b *Board) Update(id string, edit func(*Element)) error {
	if edit == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.indexOf(id)
	if idx < 0 {
		return nil
	}
	current := b.elements[idx]
	next := current.Clone()
	edit(&next)
	next.ID = current.ID
	next.Type = current.Type
	next.Position = current.Position
	next.Size = current.Size
	next.GroupID = current.GroupID
	if err := ValidateElement(next); err != nil {
		return fmt.Errorf("canvas: update %s: %w", id, err)
	}
	b.elements[idx] = next
	return nil
}

func (b *Board) cloneLocked(src Element, groupID string) Element {
	clone := src.Clone()
	clone.ID = b.factory.BatchID(src.Type)
	for b.indexOf(clone.ID) >= 0 {
		clone.ID = b.factory.BatchID(src.Type)
	}
	clone.Position = src.Position.Add(DuplicateOffset, DuplicateOffset)
	clone.GroupID = groupID
	return clone
}

func (b *Board) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for idx := range b.elements {
		if b.elements[idx].ID == id {
			return idx
		}
	}
	return -1
}

// indexesOf resolves ids to store indexes, preserving the order of ids and
// dropping unknown or repeated entries.
func (b *Board) indexesOf(ids []string) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		idx := b.indexOf(id)
		if idx < 0 {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	return out
}

func (b *Board) groupIndexes(groupID string) []int {
	var out []int
	for idx := range b.elements {
		if b.elements[idx].GroupID == groupID {
			out = append(out, idx)
		}
	}
	return out
}

func (b *Board) selectionLocked() []string {
	out := make([]string, 0, len(b.selected))
	for _, element := range b.elements {
		if _, ok := b.selected[element.ID]; ok {
			out = append(out, element.ID)
		}
	}
	return out
}

func (b *Board) notify(level Level, message string, ids ...string) {
	b.notifier.Notify(Notification{Level: level, Message: message, Elements: ids})
}

func describe(element Element) string {
	if element.Field != nil && element.Field.Label != "" {
		return element.Field.Label
	}
	return string(element.Type)
}

func newGroupID() string {
	return "group-" + uuid.NewString()
}
