package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/model"
)

// ErrOperationNotFound is returned when the requested operation is missing or
// has no JSON request body.
var ErrOperationNotFound = errors.New("schema: operation not found")

// longTextThreshold is the maxLength above which strings become textareas.
const longTextThreshold = 255

// SuggestionsFromOpenAPI reads an OpenAPI 3 document and converts the JSON
// request body of operationID into canvas suggestions, ready for
// Board.Import. An empty operationID picks the first operation (by path and
// method) that has a request body. Required properties come first, then the
// rest, each in name order; nested objects are skipped.
func SuggestionsFromOpenAPI(ctx context.Context, data []byte, operationID string) ([]canvas.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("schema: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}

	body := requestSchema(doc, operationID)
	if body == nil {
		if operationID == "" {
			return nil, fmt.Errorf("%w: no operation with a request body", ErrOperationNotFound)
		}
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}
	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if required[names[i]] != required[names[j]] {
			return required[names[i]]
		}
		return names[i] < names[j]
	})

	var out []canvas.Suggestion
	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		suggestion, ok := suggestionFor(name, ref.Value)
		if !ok {
			continue
		}
		suggestion.Required = required[name]
		out = append(out, suggestion)
	}
	return out, nil
}

func requestSchema(doc *openapi3.T, operationID string) *openapi3.Schema {
	if doc.Paths == nil {
		return nil
	}
	paths := make([]string, 0, doc.Paths.Len())
	for path := range doc.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := doc.Paths.Value(path)
		if item == nil {
			continue
		}
		methods := item.Operations()
		keys := make([]string, 0, len(methods))
		for method := range methods {
			keys = append(keys, method)
		}
		sort.Strings(keys)
		for _, method := range keys {
			op := methods[method]
			if operationID != "" && op.OperationID != operationID {
				continue
			}
			if schema := jsonBody(op); schema != nil {
				return schema
			}
		}
	}
	return nil
}

func jsonBody(op *openapi3.Operation) *openapi3.Schema {
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func suggestionFor(name string, s *openapi3.Schema) (canvas.Suggestion, bool) {
	suggestion := canvas.Suggestion{
		Label:    s.Title,
		HelpText: s.Description,
	}
	if suggestion.Label == "" {
		suggestion.Label = model.FieldLabel(name)
	}

	switch {
	case s.Type.Is(openapi3.TypeObject):
		return canvas.Suggestion{}, false
	case s.Type.Is(openapi3.TypeArray):
		suggestion.Type = string(canvas.TypeCheckbox)
		if s.Items != nil && s.Items.Value != nil {
			suggestion.Options = enumStrings(s.Items.Value.Enum)
		}
	case s.Type.Is(openapi3.TypeBoolean):
		suggestion.Type = string(canvas.TypeCheckbox)
	case s.Type.Is(openapi3.TypeInteger), s.Type.Is(openapi3.TypeNumber):
		suggestion.Type = string(canvas.TypeNumber)
	case len(s.Enum) > 0:
		suggestion.Type = string(canvas.TypeSelect)
		suggestion.Options = enumStrings(s.Enum)
	case s.Format == "email":
		suggestion.Type = string(canvas.TypeEmail)
	case s.Format == "date" || s.Format == "date-time":
		suggestion.Type = string(canvas.TypeDate)
	case s.Format == "binary":
		suggestion.Type = string(canvas.TypeFile)
	case s.MaxLength != nil && *s.MaxLength > longTextThreshold:
		suggestion.Type = string(canvas.TypeTextarea)
	default:
		suggestion.Type = string(canvas.TypeText)
	}
	return suggestion, true
}

func enumStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, fmt.Sprint(value))
	}
	return out
}
