package render

import (
	"errors"
	"strconv"
	"strings"

	"github.com/goliatone/go-formcanvas/pkg/model"
	"github.com/goliatone/go-formcanvas/pkg/schema"
)

// ErrorMapping splits validation feedback into field-level and form-level
// messages. Field keys are field names from the form model.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapValidationError converts a *schema.ValidationError into an ErrorMapping.
// Any other error becomes a single form-level message; nil maps to an empty
// mapping.
func MapValidationError(form model.FormModel, err error) ErrorMapping {
	if err == nil {
		return ErrorMapping{}
	}
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		return ErrorMapping{Form: normalizeMessages([]string{err.Error()})}
	}

	payload := make(map[string][]string, len(verr.Errors))
	for _, fe := range verr.Errors {
		payload[fe.Field] = append(payload[fe.Field], fe.Message)
	}
	return MapErrorPayload(form, payload)
}

// MapErrorPayload normalises error payloads keyed by JSON pointer, dotted
// path, field name or element id. Unknown paths are treated as form-level
// errors so messages are not lost.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	names := fieldIndex(form)
	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		name, ok := mapErrorPath(rawPath, names)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[name] = append(mapping.Fields[name], normalized...)
	}

	for name, messages := range mapping.Fields {
		mapping.Fields[name] = normalizeMessages(messages)
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// fieldIndex maps field names and element ids to field names.
func fieldIndex(form model.FormModel) map[string]string {
	out := make(map[string]string, len(form.Fields)*2)
	for _, field := range form.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = name
		if id := strings.TrimSpace(field.ElementID); id != "" {
			out[id] = name
		}
	}
	return out
}

func mapErrorPath(raw string, names map[string]string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}
	if name, ok := names[trimmed]; ok {
		return name, true
	}

	for _, segment := range dropWrapperSegments(parsePathSegments(trimmed)) {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		name, ok := names[segment]
		return name, ok
	}
	return "", false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimPrefix(clean, "#")
		clean = strings.TrimPrefix(clean, "/")
		clean = strings.TrimPrefix(clean, ".")
		clean = strings.TrimPrefix(clean, "$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	for len(segments) > 0 {
		switch strings.ToLower(segments[0]) {
		case "body", "request", "payload", "data", "values":
			segments = segments[1:]
			continue
		}
		break
	}
	return segments
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors":
		return true
	default:
		return false
	}
}
