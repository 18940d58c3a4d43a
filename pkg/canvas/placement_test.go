package canvas_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
)

func TestSnap(t *testing.T) {
	cases := map[int]int{
		-40: 0,
		0:   0,
		12:  0,
		13:  25,
		103: 100,
		207: 200,
		112: 100,
		113: 125,
		250: 250,
	}
	for in, want := range cases {
		if got := canvas.Snap(in); got != want {
			t.Errorf("Snap(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestResolvePosition_EmptyCanvasAlwaysGridAligned(t *testing.T) {
	for x := -30; x <= 260; x += 7 {
		for y := -30; y <= 260; y += 11 {
			got := canvas.ResolvePosition(canvas.Point{X: x, Y: y}, canvas.TypeText, nil)
			if got.X%canvas.GridUnit != 0 || got.Y%canvas.GridUnit != 0 {
				t.Fatalf("ResolvePosition(%d,%d) = %+v, not grid aligned", x, y, got)
			}
			if got.X < 0 || got.Y < 0 {
				t.Fatalf("ResolvePosition(%d,%d) = %+v, negative", x, y, got)
			}
		}
	}
}

func TestResolvePosition_DropOnEmptyCanvas(t *testing.T) {
	board := canvas.NewBoard()
	element := board.Drop(canvas.TypeText, canvas.Point{X: 103, Y: 207})

	if diff := cmp.Diff(canvas.Point{X: 100, Y: 200}, element.Position); diff != "" {
		t.Fatalf("position mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(canvas.Size{Width: 500, Height: 80}, element.Size); diff != "" {
		t.Fatalf("size mismatch (-want +got):\n%s", diff)
	}
}

func TestResolvePosition_OverlapStacksBelowDominantColumn(t *testing.T) {
	existing := []canvas.Element{
		block("h1", canvas.TypeHeader, 100, 50, 60),
	}

	got := canvas.ResolvePosition(canvas.Point{X: 120, Y: 60}, canvas.TypeText, existing)
	if diff := cmp.Diff(canvas.Point{X: 100, Y: 135}, got); diff != "" {
		t.Fatalf("fallback mismatch (-want +got):\n%s", diff)
	}
}

func TestResolvePosition_TouchingEdgeIsNotOverlap(t *testing.T) {
	existing := []canvas.Element{
		field("t1", canvas.TypeText, 100, 100, 80),
	}

	// 180 snaps to 175, which would cut 5px into t1.
	below := canvas.ResolvePosition(canvas.Point{X: 100, Y: 180}, canvas.TypeText, existing)
	if diff := cmp.Diff(canvas.Point{X: 100, Y: 205}, below); diff != "" {
		t.Fatalf("snapped overlap should fall back (-want +got):\n%s", diff)
	}

	flush := canvas.ResolvePosition(canvas.Point{X: 100, Y: 200}, canvas.TypeText, []canvas.Element{
		field("t1", canvas.TypeText, 100, 100, 100),
	})
	if diff := cmp.Diff(canvas.Point{X: 100, Y: 200}, flush); diff != "" {
		t.Fatalf("adjacent placement should be kept (-want +got):\n%s", diff)
	}

	beside := canvas.ResolvePosition(canvas.Point{X: 600, Y: 100}, canvas.TypeText, existing)
	if diff := cmp.Diff(canvas.Point{X: 600, Y: 100}, beside); diff != "" {
		t.Fatalf("horizontally adjacent placement should be kept (-want +got):\n%s", diff)
	}
}

func TestResolvePosition_NeverOverlaps(t *testing.T) {
	existing := []canvas.Element{
		block("h1", canvas.TypeHeader, 100, 50, 60),
		field("t1", canvas.TypeText, 100, 135, 80),
		field("c1", canvas.TypeCheckbox, 650, 300, 100),
		field("f1", canvas.TypeFile, 100, 240, 120),
	}

	for _, typ := range canvas.ElementTypes() {
		for x := 0; x <= 900; x += 37 {
			for y := 0; y <= 500; y += 23 {
				pos := canvas.ResolvePosition(canvas.Point{X: x, Y: y}, typ, existing)
				box := canvas.Rect{X: pos.X, Y: pos.Y, Width: canvas.ElementWidth, Height: canvas.HeightFor(typ)}
				for _, element := range existing {
					if box.Overlaps(element.Bounds()) {
						t.Fatalf("%s at (%d,%d) resolved to %+v overlapping %s", typ, x, y, pos, element.ID)
					}
				}
			}
		}
	}
}

func TestResolvePosition_Idempotent(t *testing.T) {
	existing := []canvas.Element{
		block("h1", canvas.TypeHeader, 100, 50, 60),
		field("t1", canvas.TypeText, 100, 135, 80),
	}
	before := append([]canvas.Element(nil), existing...)

	first := canvas.ResolvePosition(canvas.Point{X: 130, Y: 140}, canvas.TypeEmail, existing)
	second := canvas.ResolvePosition(canvas.Point{X: 130, Y: 140}, canvas.TypeEmail, existing)
	if first != second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	if diff := cmp.Diff(before, existing); diff != "" {
		t.Fatalf("existing elements mutated (-want +got):\n%s", diff)
	}
}

func TestResolvePosition_DominantColumnTieUsesLargestX(t *testing.T) {
	existing := []canvas.Element{
		field("a", canvas.TypeText, 100, 0, 80),
		field("b", canvas.TypeText, 650, 0, 80),
	}

	got := canvas.ResolvePosition(canvas.Point{X: 100, Y: 0}, canvas.TypeText, existing)
	if diff := cmp.Diff(canvas.Point{X: 650, Y: 105}, got); diff != "" {
		t.Fatalf("tie-break mismatch (-want +got):\n%s", diff)
	}

	reversed := []canvas.Element{existing[1], existing[0]}
	if again := canvas.ResolvePosition(canvas.Point{X: 100, Y: 0}, canvas.TypeText, reversed); again != got {
		t.Fatalf("tie-break depends on order: %+v vs %+v", got, again)
	}
}

func TestPreview_UsesTypeHeight(t *testing.T) {
	got := canvas.Preview(canvas.Point{X: 10, Y: 10}, canvas.TypeTextarea, nil)
	want := canvas.Rect{X: 0, Y: 0, Width: 500, Height: 120}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("preview mismatch (-want +got):\n%s", diff)
	}
}

func field(id string, typ canvas.ElementType, x, y, height int) canvas.Element {
	return canvas.Element{
		ID:       id,
		Type:     typ,
		Position: canvas.Point{X: x, Y: y},
		Size:     canvas.Size{Width: canvas.ElementWidth, Height: height},
		Field:    &canvas.FieldProps{Label: id},
	}
}

func block(id string, typ canvas.ElementType, x, y, height int) canvas.Element {
	return canvas.Element{
		ID:       id,
		Type:     typ,
		Position: canvas.Point{X: x, Y: y},
		Size:     canvas.Size{Width: canvas.ElementWidth, Height: height},
		Block:    &canvas.BlockProps{Content: id},
	}
}
