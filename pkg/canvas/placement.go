package canvas

// ResolvePosition computes where an element of type t dropped at p lands.
//
// The drop point is snapped to the grid and the resulting box is tested
// against every existing element. When it is free the snapped point is
// returned. Otherwise the element is stacked below everything: x aligns with
// the dominant existing column and y sits one grid unit under the lowest
// element bottom.
//
// ResolvePosition never mutates existing and returns the same output for the
// same input, so it is safe to call on every drag-over event.
func ResolvePosition(p Point, t ElementType, existing []Element) Point {
	snapped := SnapPoint(p)
	if len(existing) == 0 {
		return snapped
	}

	candidate := Rect{X: snapped.X, Y: snapped.Y, Width: ElementWidth, Height: HeightFor(t)}
	if !collides(candidate, existing) {
		return snapped
	}
	return stackBelow(p, existing)
}

// Preview returns the ghost rectangle shown while dragging an element of type
// t over p.
func Preview(p Point, t ElementType, existing []Element) Rect {
	pos := ResolvePosition(p, t, existing)
	return Rect{X: pos.X, Y: pos.Y, Width: ElementWidth, Height: HeightFor(t)}
}

func collides(candidate Rect, existing []Element) bool {
	for _, element := range existing {
		if candidate.Overlaps(element.Bounds()) {
			return true
		}
	}
	return false
}

func stackBelow(p Point, existing []Element) Point {
	x, ok := dominantColumn(existing)
	if !ok {
		x = p.X
	}
	lowest := 0
	for _, element := range existing {
		if bottom := element.Bottom(); bottom > lowest {
			lowest = bottom
		}
	}
	if x < 0 {
		x = 0
	}
	return Point{X: x, Y: lowest + GridUnit}
}

// dominantColumn returns the x coordinate shared by the most elements. Ties
// resolve to the largest x so the result does not depend on element order.
func dominantColumn(elements []Element) (int, bool) {
	if len(elements) == 0 {
		return 0, false
	}
	counts := make(map[int]int, len(elements))
	for _, element := range elements {
		counts[element.Position.X]++
	}
	best, bestCount := 0, 0
	for x, count := range counts {
		if count > bestCount || (count == bestCount && x > best) {
			best, bestCount = x, count
		}
	}
	return best, true
}
