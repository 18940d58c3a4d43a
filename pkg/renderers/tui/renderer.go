// Package tui renders a form as a sequence of terminal prompts and returns
// the collected response.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/model"
	"github.com/goliatone/go-formcanvas/pkg/render"
	"github.com/goliatone/go-formcanvas/pkg/schema"
	prompt "github.com/goliatone/go-formcanvas/pkg/tui"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

// Renderer implements render.Renderer for terminal sessions. Render prompts
// for every field and returns the response serialized in the configured
// format.
type Renderer struct {
	driver            prompt.PromptDriver
	out               io.Writer
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{outputFormat: OutputFormatJSON}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = prompt.NewSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for each field in reading order, pre-filled from
// opts.Values. Per-field rules are checked as answers arrive; the complete
// response is then validated against the submission schema and any field it
// rejects is asked again.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if form.Title != "" {
		_ = r.driver.Info(ctx, form.Title)
	}
	for _, msg := range opts.FormErrors {
		_ = r.driver.Info(ctx, "! "+msg)
	}

	values := make(map[string]any, len(form.Fields))
	for key, value := range opts.Values {
		values[key] = value
	}
	pending := form.Fields
	for len(pending) > 0 {
		for _, field := range pending {
			for _, msg := range opts.Errors[field.Name] {
				_ = r.driver.Info(ctx, fmt.Sprintf("%s: %s", displayLabel(field), msg))
			}
			if err := r.promptField(ctx, field, values); err != nil {
				return nil, err
			}
		}
		pending = nil
		opts.Errors = nil

		err := schema.ValidateSubmission(form, values)
		var invalid *schema.ValidationError
		if err == nil {
			break
		}
		if !errors.As(err, &invalid) {
			return nil, err
		}
		opts.Errors = map[string][]string{}
		for _, fe := range invalid.Errors {
			field, ok := form.Field(fe.Field)
			if !ok {
				return nil, err
			}
			if _, seen := opts.Errors[field.Name]; !seen {
				pending = append(pending, field)
			}
			opts.Errors[field.Name] = append(opts.Errors[field.Name], fe.Message)
		}
	}

	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, values map[string]any) error {
	switch field.Type {
	case model.FieldTypeBoolean:
		return r.promptBoolean(ctx, field, values)
	case model.FieldTypeNumber:
		return r.promptNumber(ctx, field, values)
	case model.FieldTypeArray:
		return r.promptChoices(ctx, field, values)
	default:
		if len(field.Enum) > 0 {
			return r.promptEnum(ctx, field, values)
		}
		return r.promptString(ctx, field, values)
	}
}

func (r *Renderer) promptString(ctx context.Context, field model.Field, values map[string]any) error {
	label := displayLabel(field)
	rules := collectValidationRules(field)
	current, _ := values[field.Name].(string)

	for {
		var (
			response string
			err      error
		)
		if field.Widget == string(canvas.TypeTextarea) {
			response, err = r.driver.TextArea(ctx, prompt.TextAreaConfig{Message: label, Default: current, Help: field.Description})
		} else {
			response, err = r.driver.Input(ctx, prompt.InputConfig{Message: label, Default: current, Help: field.Description})
		}
		if err != nil {
			return err
		}

		if !rules.required && strings.TrimSpace(response) == "" {
			delete(values, field.Name)
			return nil
		}
		if err := rules.validateString(response); err != nil {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", label, err))
			continue
		}
		values[field.Name] = response
		return nil
	}
}

func (r *Renderer) promptBoolean(ctx context.Context, field model.Field, values map[string]any) error {
	label := displayLabel(field)
	current, _ := values[field.Name].(bool)
	for {
		resp, err := r.driver.Confirm(ctx, prompt.ConfirmConfig{Message: label, Default: current, Help: field.Description})
		if err != nil {
			return err
		}
		if field.Required && !resp {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: must be checked", label))
			continue
		}
		values[field.Name] = resp
		return nil
	}
}

func (r *Renderer) promptNumber(ctx context.Context, field model.Field, values map[string]any) error {
	label := displayLabel(field)
	rules := collectValidationRules(field)
	current := ""
	if v, ok := values[field.Name]; ok && v != nil {
		current = fmt.Sprint(v)
	}

	for {
		input, err := r.driver.Input(ctx, prompt.InputConfig{Message: label, Default: current, Help: field.Description})
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			if rules.required {
				_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: required", label))
				continue
			}
			delete(values, field.Name)
			return nil
		}
		parsed, err := strconv.ParseFloat(input, 64)
		if err != nil {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: not a number", label))
			continue
		}
		if err := rules.validateNumber(parsed); err != nil {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", label, err))
			continue
		}
		values[field.Name] = parsed
		return nil
	}
}

func (r *Renderer) promptEnum(ctx context.Context, field model.Field, values map[string]any) error {
	label := displayLabel(field)
	options := stringifyEnum(field.Enum)
	if !field.Required {
		options = append([]string{skipOption}, options...)
	}
	current, _ := values[field.Name].(string)

	for {
		idx, err := r.driver.Select(ctx, prompt.SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: prompt.IndexOf(options, current),
			Help:         field.Description,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s selection", label))
			continue
		}
		if options[idx] == skipOption {
			delete(values, field.Name)
			return nil
		}
		values[field.Name] = options[idx]
		return nil
	}
}

func (r *Renderer) promptChoices(ctx context.Context, field model.Field, values map[string]any) error {
	label := displayLabel(field)
	var enum []any
	if field.Items != nil {
		enum = field.Items.Enum
	}
	options := stringifyEnum(enum)
	defaults := prompt.IndicesOf(options, stringifySlice(values[field.Name]))

	for {
		indices, err := r.driver.MultiSelect(ctx, prompt.SelectConfig{
			Message:  label,
			Options:  options,
			Defaults: defaults,
			Help:     field.Description,
		})
		if err != nil {
			return err
		}
		if field.Required && len(indices) == 0 {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: choose at least one", label))
			continue
		}
		selected := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(options) {
				selected = append(selected, options[idx])
			}
		}
		values[field.Name] = selected
		return nil
	}
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

const skipOption = "(skip)"

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func stringifyEnum(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func stringifySlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return nil
}

type validationRules struct {
	required bool
	min      *float64
	max      *float64
	minLen   *int
	maxLen   *int
	pattern  *regexp.Regexp
	message  string
}

func collectValidationRules(field model.Field) validationRules {
	rules := validationRules{required: field.Required}
	for _, v := range field.Validations {
		if msg := v.Params["message"]; msg != "" {
			rules.message = msg
		}
		switch v.Kind {
		case model.ValidationRuleMin:
			if val, err := strconv.ParseFloat(v.Params["value"], 64); err == nil {
				rules.min = &val
			}
		case model.ValidationRuleMax:
			if val, err := strconv.ParseFloat(v.Params["value"], 64); err == nil {
				rules.max = &val
			}
		case model.ValidationRuleMinLength:
			if val, err := strconv.Atoi(v.Params["value"]); err == nil {
				rules.minLen = &val
			}
		case model.ValidationRuleMaxLength:
			if val, err := strconv.Atoi(v.Params["value"]); err == nil {
				rules.maxLen = &val
			}
		case model.ValidationRulePattern:
			if expr := v.Params["pattern"]; expr != "" {
				if re, err := regexp.Compile(expr); err == nil {
					rules.pattern = re
				}
			}
		}
	}
	return rules
}

func (v validationRules) fail(format string, args ...any) error {
	if v.message != "" {
		return errors.New(v.message)
	}
	return fmt.Errorf(format, args...)
}

func (v validationRules) validateString(s string) error {
	if v.required && strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	length := len([]rune(s))
	if v.minLen != nil && length < *v.minLen {
		return v.fail("length must be >= %d", *v.minLen)
	}
	if v.maxLen != nil && length > *v.maxLen {
		return v.fail("length must be <= %d", *v.maxLen)
	}
	if v.pattern != nil && !v.pattern.MatchString(s) {
		return v.fail("must match %s", v.pattern.String())
	}
	return nil
}

func (v validationRules) validateNumber(n float64) error {
	if v.min != nil && n < *v.min {
		return v.fail("must be >= %v", *v.min)
	}
	if v.max != nil && n > *v.max {
		return v.fail("must be <= %v", *v.max)
	}
	return nil
}

func flattenForm(values map[string]any) string {
	out := url.Values{}
	for key, value := range values {
		switch v := value.(type) {
		case []any:
			for _, item := range v {
				out.Add(key, fmt.Sprint(item))
			}
		default:
			out.Set(key, fmt.Sprint(v))
		}
	}
	return out.Encode()
}

func prettyPrint(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		switch v := values[key].(type) {
		case []any:
			for idx, item := range v {
				fmt.Fprintf(&b, "%s[%d]=%v\n", key, idx, item)
			}
		default:
			fmt.Fprintf(&b, "%s=%v\n", key, v)
		}
	}
	return b.String()
}
