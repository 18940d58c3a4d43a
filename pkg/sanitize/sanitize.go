// Package sanitize cleans user supplied markup before it reaches the canvas
// store or the preview renderer.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy

	contentOnce   sync.Once
	contentPolicy *bluemonday.Policy

	iconOnce   sync.Once
	iconPolicy *bluemonday.Policy
)

// Text strips every tag and returns plain text. The result is unescaped so it
// can be stored as-is and escaped again by the template engine.
func Text(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict().Sanitize(trimmed)))
}

// Content keeps inline formatting (emphasis, links, line breaks) in block
// content and drops everything else. The output is safe to render unescaped.
func Content(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(content().Sanitize(trimmed))
}

// Icon sanitises inline SVG markup used for palette icons.
func Icon(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(icon().Sanitize(trimmed))
}

// Element returns a copy of element with its user facing strings cleaned.
func Element(element canvas.Element) canvas.Element {
	out := element.Clone()
	if out.Block != nil {
		out.Block.Content = Content(out.Block.Content)
	}
	if field := out.Field; field != nil {
		field.Label = Text(field.Label)
		field.Placeholder = Text(field.Placeholder)
		field.HelpText = Text(field.HelpText)
		if len(field.Options) > 0 {
			options := make([]string, 0, len(field.Options))
			for _, option := range field.Options {
				if cleaned := Text(option); cleaned != "" {
					options = append(options, cleaned)
				}
			}
			field.Options = options
		}
		if field.Validation != nil {
			field.Validation.Message = Text(field.Validation.Message)
		}
	}
	return out
}

// Elements applies Element to every entry.
func Elements(elements []canvas.Element) []canvas.Element {
	if elements == nil {
		return nil
	}
	out := make([]canvas.Element, len(elements))
	for i, element := range elements {
		out[i] = Element(element)
	}
	return out
}

func strict() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

func content() *bluemonday.Policy {
	contentOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "strong", "i", "em", "u", "br", "small", "span")
		policy.AllowStandardURLs()
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		contentPolicy = policy
	})
	return contentPolicy
}

func icon() *bluemonday.Policy {
	iconOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements(
			"svg", "g", "path", "circle", "rect", "line", "polyline", "polygon",
			"ellipse", "title", "desc",
		)
		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "stroke-linecap", "stroke-linejoin", "aria-hidden",
			"role", "focusable", "class",
		).OnElements("svg")
		for _, el := range []string{"path", "circle", "rect", "line", "polyline", "polygon", "ellipse"} {
			policy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
				"points", "rx", "ry", "fill", "stroke", "stroke-width",
				"stroke-linecap", "stroke-linejoin",
			).OnElements(el)
		}
		iconPolicy = policy
	})
	return iconPolicy
}
