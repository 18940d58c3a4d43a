package canvas_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
)

type recorder struct {
	notes []canvas.Notification
}

func (r *recorder) Notify(n canvas.Notification) {
	r.notes = append(r.notes, n)
}

func (r *recorder) levels() []canvas.Level {
	out := make([]canvas.Level, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, n.Level)
	}
	return out
}

func newTestBoard(t *testing.T, rec *recorder, options ...canvas.Option) *canvas.Board {
	t.Helper()
	n := 0
	base := []canvas.Option{
		canvas.WithFactory(fixedFactory()),
		canvas.WithGroupIDSource(func() string {
			n++
			return fmt.Sprintf("g%d", n)
		}),
	}
	if rec != nil {
		base = append(base, canvas.WithNotifier(rec))
	}
	return canvas.NewBoard(append(base, options...)...)
}

func loadBoard(t *testing.T, board *canvas.Board, elements ...canvas.Element) {
	t.Helper()
	if err := board.Load(elements); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestBoard_SelectSemantics(t *testing.T) {
	board := newTestBoard(t, nil)
	loadBoard(t, board,
		field("a", canvas.TypeText, 0, 0, 80),
		field("b", canvas.TypeText, 0, 100, 80),
		field("c", canvas.TypeText, 0, 200, 80),
	)

	board.Select("a", false)
	assertSelection(t, board, "a")

	board.Select("b", false)
	assertSelection(t, board, "b")

	board.Select("b", false)
	assertSelection(t, board)

	board.Select("a", true)
	board.Select("c", true)
	assertSelection(t, board, "a", "c")

	board.Select("a", true)
	assertSelection(t, board, "c")

	board.Select("missing", false)
	assertSelection(t, board, "c")

	board.Select("b", true)
	board.Select("c", false)
	assertSelection(t, board, "c")
}

func TestBoard_DropSelectsAndNotifies(t *testing.T) {
	rec := &recorder{}
	board := newTestBoard(t, rec)

	first := board.Drop(canvas.TypeHeader, canvas.Point{X: 100, Y: 50})
	second := board.Drop(canvas.TypeText, canvas.Point{X: 110, Y: 60})

	if second.Position != (canvas.Point{X: 100, Y: 135}) {
		t.Fatalf("second drop should stack below the header, got %+v", second.Position)
	}
	if first.ID == second.ID {
		t.Fatalf("ids must be unique")
	}
	assertSelection(t, board, second.ID)
	if diff := cmp.Diff([]canvas.Level{canvas.LevelSuccess, canvas.LevelSuccess}, rec.levels()); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestBoard_GroupAndUngroup(t *testing.T) {
	rec := &recorder{}
	board := newTestBoard(t, rec)
	loadBoard(t, board,
		field("a", canvas.TypeText, 0, 0, 80),
		field("b", canvas.TypeText, 0, 100, 80),
	)
	board.Select("a", true)
	board.Select("b", true)

	groupID, err := board.Group(board.Selection())
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	a, _ := board.Element("a")
	b, _ := board.Element("b")
	if groupID == "" || a.GroupID != groupID || b.GroupID != groupID {
		t.Fatalf("group not applied symmetrically: %q %q %q", groupID, a.GroupID, b.GroupID)
	}

	cleared, err := board.Ungroup([]string{"b"})
	if err != nil {
		t.Fatalf("ungroup: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, cleared); diff != "" {
		t.Fatalf("cleared mismatch (-want +got):\n%s", diff)
	}
	a, _ = board.Element("a")
	b, _ = board.Element("b")
	if a.GroupID != "" || b.GroupID != "" {
		t.Fatalf("ungroup should clear every member: %q %q", a.GroupID, b.GroupID)
	}
}

func TestBoard_GroupingPolicyViolations(t *testing.T) {
	rec := &recorder{}
	board := newTestBoard(t, rec)
	loadBoard(t, board, field("a", canvas.TypeText, 0, 0, 80))

	if _, err := board.Group([]string{"a"}); !errors.Is(err, canvas.ErrGroupTooSmall) {
		t.Fatalf("expected ErrGroupTooSmall, got %v", err)
	}
	if _, err := board.Group([]string{"a", "missing"}); !errors.Is(err, canvas.ErrGroupTooSmall) {
		t.Fatalf("unknown ids must not count towards group size, got %v", err)
	}
	if _, err := board.Ungroup([]string{"a"}); !errors.Is(err, canvas.ErrNotGrouped) {
		t.Fatalf("expected ErrNotGrouped, got %v", err)
	}
	if _, err := board.Ungroup(nil); !errors.Is(err, canvas.ErrNotGrouped) {
		t.Fatalf("expected ErrNotGrouped for empty selection, got %v", err)
	}

	want := []canvas.Level{canvas.LevelWarning, canvas.LevelWarning, canvas.LevelWarning, canvas.LevelWarning}
	if diff := cmp.Diff(want, rec.levels()); diff != "" {
		t.Fatalf("expected warnings (-want +got):\n%s", diff)
	}
	a, _ := board.Element("a")
	if a.GroupID != "" {
		t.Fatalf("rejected group must be a no-op")
	}
}

func TestBoard_MoveCarriesWholeGroup(t *testing.T) {
	board := newTestBoard(t, nil)
	loadBoard(t, board,
		withGroup(field("a", canvas.TypeText, 100, 100, 80), "g"),
		withGroup(field("b", canvas.TypeText, 100, 200, 80), "g"),
		field("c", canvas.TypeText, 700, 100, 80),
	)
	// Only "a" is selected; "b" follows through group membership.
	board.Select("a", false)

	moved := board.Move("a", canvas.Point{X: 152, Y: 148})
	if diff := cmp.Diff([]string{"a", "b"}, moved); diff != "" {
		t.Fatalf("moved ids mismatch (-want +got):\n%s", diff)
	}
	assertPosition(t, board, "a", 150, 150)
	assertPosition(t, board, "b", 150, 250)
	assertPosition(t, board, "c", 700, 100)
}

func TestBoard_MoveClampsGroupDeltaAtOrigin(t *testing.T) {
	board := newTestBoard(t, nil)
	loadBoard(t, board,
		withGroup(field("a", canvas.TypeText, 100, 100, 80), "g"),
		withGroup(field("b", canvas.TypeText, 50, 200, 80), "g"),
	)

	board.Move("a", canvas.Point{X: 0, Y: 100})
	assertPosition(t, board, "a", 50, 100)
	assertPosition(t, board, "b", 0, 200)

	if moved := board.Move("missing", canvas.Point{X: 10, Y: 10}); moved != nil {
		t.Fatalf("unknown id should be a no-op, got %v", moved)
	}
}

func TestBoard_DuplicateOffsetsAndDetachesGroup(t *testing.T) {
	rec := &recorder{}
	board := newTestBoard(t, rec)
	loadBoard(t, board,
		withGroup(field("a", canvas.TypeSelect, 100, 100, 80), "g"),
		withGroup(field("b", canvas.TypeText, 100, 200, 80), "g"),
	)

	clone, ok := board.Duplicate("a")
	if !ok {
		t.Fatalf("duplicate failed")
	}
	source, _ := board.Element("a")
	if clone.ID == source.ID {
		t.Fatalf("clone must have a distinct id")
	}
	if clone.Position != source.Position.Add(20, 20) {
		t.Fatalf("clone position = %+v, want source + (20,20)", clone.Position)
	}
	if clone.GroupID != "" {
		t.Fatalf("clone must not join the source group, got %q", clone.GroupID)
	}
	if diff := cmp.Diff(source.Field, clone.Field); diff != "" {
		t.Fatalf("clone content mismatch (-want +got):\n%s", diff)
	}
	assertSelection(t, board, clone.ID)

	if _, ok := board.Duplicate("missing"); ok {
		t.Fatalf("duplicating an unknown id should report false")
	}
	if len(rec.notes) != 1 {
		t.Fatalf("expected a single notification, got %d", len(rec.notes))
	}
}

func TestBoard_DuplicateGroup(t *testing.T) {
	board := newTestBoard(t, nil)
	loadBoard(t, board,
		field("a", canvas.TypeText, 100, 100, 80),
		field("b", canvas.TypeEmail, 100, 200, 80),
	)
	board.Select("a", true)
	board.Select("b", true)
	original, err := board.Group(board.Selection())
	if err != nil {
		t.Fatalf("group: %v", err)
	}

	clones := board.DuplicateGroup(nil)
	if len(clones) != 2 {
		t.Fatalf("expected 2 clones, got %d", len(clones))
	}
	shared := clones[0].GroupID
	if shared == "" || shared == original || clones[1].GroupID != shared {
		t.Fatalf("clones should share one new group: %q %q (original %q)", clones[0].GroupID, clones[1].GroupID, original)
	}
	sources := map[string]canvas.Point{"a": {X: 100, Y: 100}, "b": {X: 100, Y: 200}}
	for idx, src := range []string{"a", "b"} {
		if clones[idx].Position != sources[src].Add(20, 20) {
			t.Fatalf("clone of %s at %+v, want offset (20,20)", src, clones[idx].Position)
		}
	}
	assertSelection(t, board, clones[0].ID, clones[1].ID)
	if board.Len() != 4 {
		t.Fatalf("expected 4 elements, got %d", board.Len())
	}
}

func TestBoard_DuplicateGroupMergesIDsAndSelection(t *testing.T) {
	board := newTestBoard(t, nil)
	loadBoard(t, board,
		field("a", canvas.TypeText, 0, 0, 80),
		field("c", canvas.TypeText, 0, 100, 80),
		field("d", canvas.TypeEmail, 0, 200, 80),
		field("e", canvas.TypeEmail, 0, 300, 80),
	)
	groupA, err := board.Group([]string{"a", "c"})
	if err != nil {
		t.Fatalf("group a: %v", err)
	}
	groupB, err := board.Group([]string{"d", "e"})
	if err != nil {
		t.Fatalf("group b: %v", err)
	}
	board.Select("a", false)

	clones := board.DuplicateGroup([]string{"d"})
	if len(clones) != 4 {
		t.Fatalf("expected 4 clones, got %d", len(clones))
	}
	got := make(map[string]int)
	for _, clone := range clones {
		got[clone.GroupID]++
	}
	if diff := cmp.Diff(map[string]int{"g3": 4}, got); diff != "" {
		t.Fatalf("clones should share one new group (-want +got):\n%s", diff)
	}
	if got[groupA] != 0 || got[groupB] != 0 {
		t.Fatalf("clones must not join source groups %q/%q", groupA, groupB)
	}
	if board.Len() != 8 {
		t.Fatalf("expected 8 elements, got %d", board.Len())
	}
}

func TestBoard_DuplicateGroupIgnoresUngrouped(t *testing.T) {
	board := newTestBoard(t, nil)
	loadBoard(t, board, field("a", canvas.TypeText, 0, 0, 80))

	if clones := board.DuplicateGroup([]string{"a"}); clones != nil {
		t.Fatalf("expected no clones, got %d", len(clones))
	}
}

func TestBoard_DeleteCascadeRequiresConfirmation(t *testing.T) {
	members := func() []canvas.Element {
		return []canvas.Element{
			withGroup(field("a", canvas.TypeText, 0, 0, 80), "g"),
			withGroup(field("b", canvas.TypeText, 0, 100, 80), "g"),
			withGroup(field("c", canvas.TypeText, 0, 200, 80), "g"),
			field("d", canvas.TypeText, 0, 300, 80),
		}
	}

	t.Run("confirmed", func(t *testing.T) {
		board := newTestBoard(t, nil, canvas.WithConfirmer(canvas.AlwaysConfirm))
		loadBoard(t, board, members()...)

		removed := board.Delete(context.Background(), "b")
		if diff := cmp.Diff([]string{"a", "b", "c"}, removed); diff != "" {
			t.Fatalf("removed mismatch (-want +got):\n%s", diff)
		}
		if board.Len() != 1 {
			t.Fatalf("expected only d to remain, got %d elements", board.Len())
		}
	})

	t.Run("declined", func(t *testing.T) {
		var asked canvas.ConfirmRequest
		board := newTestBoard(t, nil, canvas.WithConfirmer(canvas.ConfirmFunc(func(_ context.Context, req canvas.ConfirmRequest) bool {
			asked = req
			return false
		})))
		loadBoard(t, board, members()...)

		removed := board.Delete(context.Background(), "b")
		if diff := cmp.Diff([]string{"b"}, removed); diff != "" {
			t.Fatalf("removed mismatch (-want +got):\n%s", diff)
		}
		if asked.Members != 3 || asked.GroupID != "g" || asked.ElementID != "b" {
			t.Fatalf("unexpected confirm request: %+v", asked)
		}
		for _, id := range []string{"a", "c"} {
			element, ok := board.Element(id)
			if !ok || element.GroupID != "g" {
				t.Fatalf("%s should keep its group after a declined cascade", id)
			}
		}
	})

	t.Run("ungrouped skips confirmation", func(t *testing.T) {
		board := newTestBoard(t, nil, canvas.WithConfirmer(canvas.ConfirmFunc(func(context.Context, canvas.ConfirmRequest) bool {
			t.Fatalf("confirmer must not be consulted")
			return true
		})))
		loadBoard(t, board, members()...)
		board.Select("d", false)

		if removed := board.Delete(context.Background(), "d"); len(removed) != 1 {
			t.Fatalf("expected d removed, got %v", removed)
		}
		assertSelection(t, board)
		if removed := board.Delete(context.Background(), "d"); removed != nil {
			t.Fatalf("second delete should be a no-op, got %v", removed)
		}
	})
}

func TestBoard_UpdateKeepsOwnedFields(t *testing.T) {
	board := newTestBoard(t, nil)
	loadBoard(t, board, withGroup(field("a", canvas.TypeSelect, 100, 100, 80), "g"))

	err := board.Update("a", func(element *canvas.Element) {
		element.ID = "hijacked"
		element.Position = canvas.Point{X: 999, Y: 999}
		element.Field.Label = "Country"
		element.Field.Required = true
		element.Field.Options = []string{"AR", "ES"}
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got, ok := board.Element("a")
	if !ok {
		t.Fatalf("element id must not change")
	}
	if got.Position != (canvas.Point{X: 100, Y: 100}) || got.GroupID != "g" {
		t.Fatalf("owned fields changed: %+v", got)
	}
	if got.Field.Label != "Country" || !got.Field.Required || len(got.Field.Options) != 2 {
		t.Fatalf("edit not applied: %+v", got.Field)
	}

	err = board.Update("a", func(element *canvas.Element) {
		element.Field = nil
		element.Block = &canvas.BlockProps{Content: "oops"}
	})
	if !errors.Is(err, canvas.ErrInvalidElement) {
		t.Fatalf("expected ErrInvalidElement, got %v", err)
	}
}

func TestBoard_LoadRejectsInvalidElements(t *testing.T) {
	board := newTestBoard(t, nil)

	cases := map[string][]canvas.Element{
		"duplicate id":    {field("a", canvas.TypeText, 0, 0, 80), field("a", canvas.TypeText, 0, 100, 80)},
		"negative":        {field("a", canvas.TypeText, -25, 0, 80)},
		"bad width":       {{ID: "a", Type: canvas.TypeText, Size: canvas.Size{Width: 10, Height: 80}, Field: &canvas.FieldProps{}}},
		"wrong variant":   {{ID: "h", Type: canvas.TypeHeader, Size: canvas.SizeFor(canvas.TypeHeader), Field: &canvas.FieldProps{}}},
		"options on text": {{ID: "t", Type: canvas.TypeText, Size: canvas.SizeFor(canvas.TypeText), Field: &canvas.FieldProps{Options: []string{"x"}}}},
	}
	for name, elements := range cases {
		if err := board.Load(elements); !errors.Is(err, canvas.ErrInvalidElement) {
			t.Errorf("%s: expected ErrInvalidElement, got %v", name, err)
		}
	}
}

func TestBoard_SnapshotIsDetached(t *testing.T) {
	board := newTestBoard(t, nil)
	loadBoard(t, board, field("a", canvas.TypeSelect, 0, 0, 80))

	snap := board.Snapshot()
	snap.Elements[0].Field.Label = "changed"

	element, _ := board.Element("a")
	if element.Field.Label != "a" {
		t.Fatalf("snapshot must not alias board state")
	}
}

func assertSelection(t *testing.T, board *canvas.Board, want ...string) {
	t.Helper()
	if want == nil {
		want = []string{}
	}
	if diff := cmp.Diff(want, board.Selection()); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
}

func assertPosition(t *testing.T, board *canvas.Board, id string, x, y int) {
	t.Helper()
	element, ok := board.Element(id)
	if !ok {
		t.Fatalf("element %s missing", id)
	}
	if element.Position != (canvas.Point{X: x, Y: y}) {
		t.Fatalf("%s at %+v, want (%d,%d)", id, element.Position, x, y)
	}
}

func withGroup(element canvas.Element, groupID string) canvas.Element {
	element.GroupID = groupID
	return element
}
