package canvas

import (
	"fmt"
	"strings"
)

// Validate checks a persisted element list before it is loaded into a Board:
// ids are present and unique, positions are non-negative, sizes use the shared
// width and a positive height, and every element carries the payload matching
// its type.
func Validate(elements []Element) error {
	seen := make(map[string]struct{}, len(elements))
	for idx, element := range elements {
		if err := ValidateElement(element); err != nil {
			return fmt.Errorf("element %d: %w", idx, err)
		}
		if _, dup := seen[element.ID]; dup {
			return fmt.Errorf("element %d: %w: duplicate id %q", idx, ErrInvalidElement, element.ID)
		}
		seen[element.ID] = struct{}{}
	}
	return nil
}

// ValidateElement checks a single element record.
func ValidateElement(element Element) error {
	if strings.TrimSpace(element.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidElement)
	}
	if strings.TrimSpace(string(element.Type)) == "" {
		return fmt.Errorf("%w: %s has no type", ErrInvalidElement, element.ID)
	}
	if element.Position.X < 0 || element.Position.Y < 0 {
		return fmt.Errorf("%w: %s has negative position (%d,%d)", ErrInvalidElement, element.ID, element.Position.X, element.Position.Y)
	}
	if element.Size.Width != ElementWidth {
		return fmt.Errorf("%w: %s width %d, want %d", ErrInvalidElement, element.ID, element.Size.Width, ElementWidth)
	}
	if element.Size.Height <= 0 {
		return fmt.Errorf("%w: %s height must be positive", ErrInvalidElement, element.ID)
	}

	if element.Type.IsBlock() {
		if element.Block == nil || element.Field != nil {
			return fmt.Errorf("%w: %s of type %s must carry block content only", ErrInvalidElement, element.ID, element.Type)
		}
		return nil
	}

	if element.Field == nil || element.Block != nil {
		return fmt.Errorf("%w: %s of type %s must carry field properties only", ErrInvalidElement, element.ID, element.Type)
	}
	if len(element.Field.Options) > 0 && !element.Type.HasOptions() {
		return fmt.Errorf("%w: %s of type %s cannot define options", ErrInvalidElement, element.ID, element.Type)
	}
	return validateRule(element.ID, element.Field.Validation)
}

func validateRule(id string, rule *Validation) error {
	if rule == nil {
		return nil
	}
	switch rule.Kind {
	case ValidationEmail, ValidationDate, ValidationCustom:
	case ValidationNumber, ValidationLength:
		if rule.Min != nil && rule.Max != nil && *rule.Min > *rule.Max {
			return fmt.Errorf("%w: %s %s rule min %d exceeds max %d", ErrInvalidElement, id, rule.Kind, *rule.Min, *rule.Max)
		}
	case ValidationRegex:
		if strings.TrimSpace(rule.Pattern) == "" {
			return fmt.Errorf("%w: %s regex rule requires a pattern", ErrInvalidElement, id)
		}
	default:
		return fmt.Errorf("%w: %s has unknown validation kind %q", ErrInvalidElement, id, rule.Kind)
	}
	return nil
}
