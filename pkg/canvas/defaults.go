package canvas

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var defaultOptions = []string{"Option 1", "Option 2", "Option 3"}

var defaultLabels = map[ElementType]string{
	TypeText:     "Text Field",
	TypeEmail:    "Email",
	TypeNumber:   "Number",
	TypeTextarea: "Message",
	TypeSelect:   "Select an Option",
	TypeCheckbox: "Checkboxes",
	TypeRadio:    "Multiple Choice",
	TypeDate:     "Date",
	TypeFile:     "File Upload",
}

var defaultPlaceholders = map[ElementType]string{
	TypeText:     "Enter text...",
	TypeEmail:    "example@domain.com",
	TypeNumber:   "0",
	TypeTextarea: "Type your message here...",
	TypeSelect:   "Choose an option",
}

var defaultHelpText = map[ElementType]string{
	TypeFile: "Maximum file size: 10MB",
}

var defaultContent = map[ElementType]string{
	TypeHeader:    "Form Title",
	TypeParagraph: "Add a description for your form here.",
}

// defaultValidation returns a fresh rule for t, or nil when t has none.
func defaultValidation(t ElementType) *Validation {
	switch t {
	case TypeEmail:
		return &Validation{Kind: ValidationEmail}
	case TypeNumber:
		return &Validation{Kind: ValidationNumber, Min: intPtr(0), Max: intPtr(100)}
	case TypeText:
		return &Validation{Kind: ValidationLength, Min: intPtr(0), Max: intPtr(255)}
	case TypeTextarea:
		return &Validation{Kind: ValidationLength, Min: intPtr(0), Max: intPtr(1000)}
	case TypeDate:
		return &Validation{Kind: ValidationDate}
	}
	return nil
}

func staticLabel(t ElementType) string {
	if label, ok := defaultLabels[t]; ok {
		return label
	}
	name := strings.TrimSpace(string(t))
	if name == "" {
		return "Field"
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:] + " Field"
}

func intPtr(v int) *int {
	return &v
}
