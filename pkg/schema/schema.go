package schema

import (
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formcanvas/pkg/model"
)

// Patterns enforced alongside the email and date formats so validation does
// not depend on which string formats are registered globally.
const (
	EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
	DatePattern  = `^\d{4}-\d{2}-\d{2}$`
)

// SubmissionSchema builds the object schema a submission of form must
// satisfy. Unknown properties are rejected. Required text inputs must be
// non-empty, required checkbox groups need one choice and a required single
// checkbox must be ticked.
func SubmissionSchema(form model.FormModel) *openapi3.Schema {
	root := openapi3.NewObjectSchema()
	root.Title = form.Title
	root.Description = form.Description
	root.AdditionalProperties = openapi3.AdditionalProperties{Has: openapi3.BoolPtr(false)}

	for _, field := range form.Fields {
		root.WithProperty(field.Name, fieldSchema(field))
		if field.Required {
			root.Required = append(root.Required, field.Name)
		}
	}
	return root
}

func fieldSchema(field model.Field) *openapi3.Schema {
	var s *openapi3.Schema
	switch field.Type {
	case model.FieldTypeNumber:
		s = openapi3.NewFloat64Schema()
	case model.FieldTypeBoolean:
		s = openapi3.NewBoolSchema()
		if field.Required {
			s.WithEnum(true)
		}
	case model.FieldTypeArray:
		item := openapi3.NewStringSchema()
		if field.Items != nil && len(field.Items.Enum) > 0 {
			item.WithEnum(field.Items.Enum...)
		}
		s = openapi3.NewArraySchema().WithItems(item)
		s.UniqueItems = true
		if field.Required {
			s.WithMinItems(1)
		}
	default:
		s = openapi3.NewStringSchema()
		if field.Format != "" {
			s.WithFormat(field.Format)
		}
		switch field.Format {
		case "email":
			s.WithPattern(EmailPattern)
		case "date":
			s.WithPattern(DatePattern)
		}
		if len(field.Enum) > 0 {
			s.WithEnum(field.Enum...)
		}
		if field.Required {
			s.WithMinLength(1)
		}
	}

	s.Title = field.Label
	s.Description = field.Description
	applyRules(s, field.Validations)
	return s
}

func applyRules(s *openapi3.Schema, rules []model.ValidationRule) {
	for _, rule := range rules {
		value := rule.Params["value"]
		switch rule.Kind {
		case model.ValidationRuleMin:
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				s.WithMin(n)
			}
		case model.ValidationRuleMax:
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				s.WithMax(n)
			}
		case model.ValidationRuleMinLength:
			if n, err := strconv.ParseInt(value, 10, 64); err == nil && int64(s.MinLength) < n {
				s.WithMinLength(n)
			}
		case model.ValidationRuleMaxLength:
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				s.WithMaxLength(n)
			}
		case model.ValidationRulePattern:
			if s.Pattern == "" {
				s.WithPattern(rule.Params["pattern"])
			}
		}
	}
}
