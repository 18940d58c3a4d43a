package canvas

import "strings"

var nameLabels = map[string]struct{}{
	"name":       {},
	"full name":  {},
	"your name":  {},
	"first name": {},
	"last name":  {},
}

// contextualLabel picks a label for a new element of type t from the element
// directly above pos. It reports false when no rule applies.
func contextualLabel(t ElementType, pos Point, existing []Element) (string, bool) {
	prev, ok := nearestAbove(pos, existing)
	if !ok || prev.Field == nil {
		return "", false
	}
	prevLabel := strings.ToLower(strings.TrimSpace(prev.Field.Label))

	switch {
	case t == TypeEmail && prev.Type == TypeText && isNameLabel(prevLabel):
		return "Email Address", true
	case t == TypeEmail && prev.Type == TypeEmail:
		return "Confirm Email", true
	case (t == TypeText || t == TypeNumber) && prev.Type == TypeEmail:
		return "Phone Number", true
	case t == TypeDate && prev.Type == TypeText && isNameLabel(prevLabel):
		return "Date of Birth", true
	case t == TypeTextarea && (prev.Type == TypeSelect || prev.Type == TypeRadio):
		return "Additional Details", true
	}
	return "", false
}

// nearestAbove returns the element with the greatest y strictly less than
// pos.Y. Earlier elements win ties.
func nearestAbove(pos Point, existing []Element) (Element, bool) {
	var (
		best  Element
		found bool
	)
	for _, element := range existing {
		if element.Position.Y >= pos.Y {
			continue
		}
		if !found || element.Position.Y > best.Position.Y {
			best = element
			found = true
		}
	}
	return best, found
}

func isNameLabel(label string) bool {
	_, ok := nameLabels[label]
	return ok
}
