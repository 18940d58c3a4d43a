package widgets

import (
	"strings"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/sanitize"
)

// Palette categories.
const (
	CategoryLayout  = "layout"
	CategoryInputs  = "inputs"
	CategoryChoices = "choices"
)

// PaletteEntry describes a draggable element type.
type PaletteEntry struct {
	Type     canvas.ElementType `json:"type"`
	Title    string             `json:"title"`
	Category string             `json:"category"`
	Height   int                `json:"height"`
	Icon     string             `json:"icon,omitempty"`
}

const iconOpen = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" width="16" height="16" fill="none" stroke="currentColor" stroke-width="2" aria-hidden="true">`

var paletteIcons = map[canvas.ElementType]string{
	canvas.TypeHeader:    `<path d="M6 4v16M18 4v16M6 12h12"/>`,
	canvas.TypeParagraph: `<path d="M4 6h16M4 12h16M4 18h10"/>`,
	canvas.TypeText:      `<rect x="3" y="7" width="18" height="10" rx="2"/>`,
	canvas.TypeEmail:     `<rect x="3" y="5" width="18" height="14" rx="2"/><polyline points="3,7 12,13 21,7"/>`,
	canvas.TypeNumber:    `<path d="M9 4L7 20M17 4l-2 16M4 9h16M3 15h16"/>`,
	canvas.TypeTextarea:  `<rect x="3" y="4" width="18" height="16" rx="2"/><line x1="7" y1="9" x2="17" y2="9"/>`,
	canvas.TypeSelect:    `<rect x="3" y="7" width="18" height="10" rx="2"/><polyline points="14,11 16,13 18,11"/>`,
	canvas.TypeCheckbox:  `<rect x="4" y="4" width="16" height="16" rx="2"/><polyline points="8,12 11,15 16,9"/>`,
	canvas.TypeRadio:     `<circle cx="12" cy="12" r="8"/><circle cx="12" cy="12" r="3"/>`,
	canvas.TypeDate:      `<rect x="3" y="5" width="18" height="16" rx="2"/><line x1="3" y1="10" x2="21" y2="10"/>`,
	canvas.TypeFile:      `<path d="M14 3H6v18h12V7z"/><polyline points="14,3 14,7 18,7"/>`,
}

var paletteTitles = map[canvas.ElementType]string{
	canvas.TypeHeader:    "Heading",
	canvas.TypeParagraph: "Paragraph",
	canvas.TypeText:      "Short Text",
	canvas.TypeEmail:     "Email",
	canvas.TypeNumber:    "Number",
	canvas.TypeTextarea:  "Long Text",
	canvas.TypeSelect:    "Dropdown",
	canvas.TypeCheckbox:  "Checkboxes",
	canvas.TypeRadio:     "Multiple Choice",
	canvas.TypeDate:      "Date",
	canvas.TypeFile:      "File Upload",
}

// Palette lists every built-in element type in palette order with its
// footprint and a sanitised inline icon.
func Palette() []PaletteEntry {
	types := canvas.ElementTypes()
	out := make([]PaletteEntry, 0, len(types))
	for _, t := range types {
		out = append(out, PaletteEntry{
			Type:     t,
			Title:    paletteTitles[t],
			Category: category(t),
			Height:   canvas.HeightFor(t),
			Icon:     sanitize.Icon(iconOpen + paletteIcons[t] + "</svg>"),
		})
	}
	return out
}

// Lookup returns the palette entry for t.
func Lookup(t canvas.ElementType) (PaletteEntry, bool) {
	for _, entry := range Palette() {
		if strings.EqualFold(string(entry.Type), string(t)) {
			return entry, true
		}
	}
	return PaletteEntry{}, false
}

func category(t canvas.ElementType) string {
	switch {
	case t.IsBlock():
		return CategoryLayout
	case t.HasOptions():
		return CategoryChoices
	default:
		return CategoryInputs
	}
}
