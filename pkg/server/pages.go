package server

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/goliatone/go-formcanvas/pkg/model"
	"github.com/goliatone/go-formcanvas/pkg/render"
	"github.com/goliatone/go-formcanvas/pkg/renderers/vanilla"
	"github.com/goliatone/go-formcanvas/pkg/schema"
	"github.com/goliatone/go-formcanvas/pkg/storage"
)

// loadModel builds the form model for id. When an editing session is live
// its unsaved selection is returned with it.
func (s *Server) loadModel(c fiber.Ctx, id string) (storage.Form, model.FormModel, []string, error) {
	form, err := s.repo.GetForm(c.Context(), id)
	if err != nil {
		return storage.Form{}, model.FormModel{}, nil, err
	}
	var selected []string
	if sess, ok := s.sessions.peek(id); ok {
		sess.mu.Lock()
		selected = sess.board.Selection()
		sess.mu.Unlock()
	}
	built, err := s.builder.Build(form.Model())
	if err != nil {
		return storage.Form{}, model.FormModel{}, nil, err
	}
	return form, built, selected, nil
}

// renderOptions resolves the theme from the query, then the stored form, then
// the selector default.
func (s *Server) renderOptions(c fiber.Ctx, form storage.Form) (render.RenderOptions, error) {
	name := c.Query("theme", form.Theme)
	variant := c.Query("variant", form.Variant)
	selection, err := s.themes.Select(name, variant)
	if err != nil {
		return render.RenderOptions{}, err
	}
	return render.RenderOptions{
		Action: schema.SubmissionPath(form.ID),
		Theme:  render.ThemeConfig(selection, vanilla.DefaultPartials()),
	}, nil
}

// renderForm serves the form page. ?renderer= picks a registered renderer;
// the canvas renderer also highlights the live selection.
func (s *Server) renderForm(c fiber.Ctx) error {
	form, built, selected, err := s.loadModel(c, c.Params("id"))
	if err != nil {
		return err
	}
	opts, err := s.renderOptions(c, form)
	if err != nil {
		return err
	}
	opts.Selected = selected
	return s.sendRendered(c, fiber.StatusOK, built, opts)
}

func (s *Server) sendRendered(c fiber.Ctx, status int, built model.FormModel, opts render.RenderOptions) error {
	name := c.Query("renderer")
	if name != "" && !s.renderers.Has(name) {
		return badRequest("unknown renderer "+strconv.Quote(name), nil)
	}
	out, contentType, err := s.renderers.Render(c.Context(), name, built, opts)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(status).Send(out)
}

func (s *Server) schemaDocument(c fiber.Ctx) error {
	_, built, _, err := s.loadModel(c, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(schema.Document(built))
}

// submit accepts a response as JSON or as an urlencoded/multipart form post.
// JSON callers get 201 or 422 with field errors; form posts are redirected
// back to the form, or see it again with errors.
func (s *Server) submit(c fiber.Ctx) error {
	id := c.Params("id")
	form, built, _, err := s.loadModel(c, id)
	if err != nil {
		return err
	}

	isJSON := strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON)
	var values map[string]any
	if isJSON {
		if err := json.Unmarshal(c.Body(), &values); err != nil {
			return badRequest("invalid submission payload", err)
		}
	} else {
		values = formValues(c, built)
	}

	if verr := schema.ValidateSubmission(built, values); verr != nil {
		var invalid *schema.ValidationError
		if !errors.As(verr, &invalid) {
			return verr
		}
		if isJSON {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(invalid)
		}
		opts, err := s.renderOptions(c, form)
		if err != nil {
			return err
		}
		opts.Values = values
		opts = opts.WithErrors(render.MapValidationError(built, invalid))
		return s.sendRendered(c, fiber.StatusUnprocessableEntity, built, opts)
	}

	sub, err := s.repo.AddSubmission(c.Context(), storage.Submission{FormID: id, Values: values})
	if err != nil {
		return err
	}
	if isJSON {
		return c.Status(fiber.StatusCreated).JSON(sub)
	}
	return c.Redirect().Status(fiber.StatusSeeOther).To("/forms/" + id + "?submitted=" + sub.ID)
}

// formValues reads posted values for the model's fields, converting numbers,
// toggles and multi-choice lists to the types the schema expects.
func formValues(c fiber.Ctx, form model.FormModel) map[string]any {
	args := c.Request().PostArgs()
	values := make(map[string]any, len(form.Fields))
	for _, field := range form.Fields {
		switch field.Type {
		case model.FieldTypeArray:
			raw := args.PeekMulti(field.Name)
			if len(raw) == 0 {
				continue
			}
			list := make([]any, 0, len(raw))
			for _, item := range raw {
				list = append(list, string(item))
			}
			values[field.Name] = list
		case model.FieldTypeBoolean:
			v := c.FormValue(field.Name)
			values[field.Name] = v == "true" || v == "on"
		case model.FieldTypeNumber:
			v := strings.TrimSpace(c.FormValue(field.Name))
			if v == "" {
				continue
			}
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				values[field.Name] = n
			} else {
				values[field.Name] = v
			}
		default:
			v := c.FormValue(field.Name)
			if v == "" && !field.Required {
				continue
			}
			values[field.Name] = v
		}
	}
	return values
}
