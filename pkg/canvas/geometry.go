package canvas

const (
	// GridUnit is the snapping step for committed positions.
	GridUnit = 25
	// ElementWidth is shared by every element type.
	ElementWidth = 500
	// DuplicateOffset shifts clones right and down from their source.
	DuplicateOffset = 20

	defaultHeight = 80
)

// Rect is an axis-aligned bounding box.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Overlaps reports whether r and o intersect with positive area. Rectangles
// that only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.Width &&
		r.X+r.Width > o.X &&
		r.Y < o.Y+o.Height &&
		r.Y+r.Height > o.Y
}

// HeightFor returns the fixed height assigned to elements of type t.
func HeightFor(t ElementType) int {
	switch t {
	case TypeHeader, TypeParagraph:
		return 60
	case TypeCheckbox, TypeRadio:
		return 100
	case TypeTextarea, TypeFile:
		return 120
	}
	return defaultHeight
}

// SizeFor returns the footprint of a new element of type t.
func SizeFor(t ElementType) Size {
	return Size{Width: ElementWidth, Height: HeightFor(t)}
}

// Snap rounds v to the nearest multiple of GridUnit. Negative values clamp to
// zero.
func Snap(v int) int {
	if v <= 0 {
		return 0
	}
	return ((v + GridUnit/2) / GridUnit) * GridUnit
}

// SnapPoint snaps both coordinates of p.
func SnapPoint(p Point) Point {
	return Point{X: Snap(p.X), Y: Snap(p.Y)}
}

// Aligned reports whether p sits on the grid.
func Aligned(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X%GridUnit == 0 && p.Y%GridUnit == 0
}
