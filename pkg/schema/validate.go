package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formcanvas/pkg/model"
)

// FieldError reports a single rejected value. Field is empty for errors that
// concern the submission as a whole.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationError collects every problem found in a submission.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		if fe.Field == "" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "schema: invalid submission: " + strings.Join(parts, "; ")
}

// ValidateSubmission checks payload against the submission schema of form.
// Empty strings for optional fields count as absent. Failures are returned
// as a *ValidationError; rules carrying a custom message report that message
// instead of the generic one.
func ValidateSubmission(form model.FormModel, payload map[string]any) error {
	value, err := normalise(form, payload)
	if err != nil {
		return err
	}

	verr := SubmissionSchema(form).VisitJSON(value, openapi3.MultiErrors())
	if verr == nil {
		return nil
	}

	out := &ValidationError{}
	for _, item := range flatten(verr) {
		out.Errors = append(out.Errors, fieldError(form, item))
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out
}

// normalise drops empty optional values and round-trips the payload through
// JSON so numbers and nested values use the types the validator expects.
func normalise(form model.FormModel, payload map[string]any) (map[string]any, error) {
	cleaned := make(map[string]any, len(payload))
	for key, value := range payload {
		if text, ok := value.(string); ok && strings.TrimSpace(text) == "" {
			if field, known := form.Field(key); known && !field.Required {
				continue
			}
		}
		cleaned[key] = value
	}

	data, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("schema: encode submission: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("schema: decode submission: %w", err)
	}
	return out, nil
}

func flatten(err error) []error {
	multi, ok := err.(openapi3.MultiError)
	if !ok {
		return []error{err}
	}
	var out []error
	for _, item := range multi {
		out = append(out, flatten(item)...)
	}
	return out
}

func fieldError(form model.FormModel, err error) FieldError {
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return FieldError{Message: err.Error()}
	}

	fe := FieldError{Message: schemaErr.Reason}
	if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
		fe.Field = pointer[0]
	}
	if fe.Field == "" {
		return fe
	}
	if field, ok := form.Field(fe.Field); ok {
		for _, rule := range field.Validations {
			if message := rule.Params["message"]; message != "" {
				fe.Message = message
				break
			}
		}
	}
	return fe
}
