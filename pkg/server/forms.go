package server

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/sanitize"
	"github.com/goliatone/go-formcanvas/pkg/storage"
	"github.com/goliatone/go-formcanvas/pkg/widgets"
)

type formRequest struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Theme       string           `json:"theme"`
	Variant     string           `json:"variant"`
	Elements    []canvas.Element `json:"elements"`
	Version     int              `json:"version"`
}

func (r formRequest) form() (storage.Form, error) {
	elements := sanitize.Elements(r.Elements)
	if err := canvas.Validate(elements); err != nil {
		return storage.Form{}, err
	}
	return storage.Form{
		ID:          strings.TrimSpace(r.ID),
		Title:       sanitize.Text(r.Title),
		Description: sanitize.Text(r.Description),
		Theme:       strings.TrimSpace(r.Theme),
		Variant:     strings.TrimSpace(r.Variant),
		Elements:    elements,
		Version:     r.Version,
	}, nil
}

func decodeForm(c fiber.Ctx) (storage.Form, error) {
	var req formRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return storage.Form{}, badRequest("invalid form payload", err)
	}
	return req.form()
}

func (s *Server) palette(c fiber.Ctx) error {
	return c.JSON(widgets.Palette())
}

func (s *Server) listForms(c fiber.Ctx) error {
	forms, err := s.repo.ListForms(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(forms)
}

func (s *Server) createForm(c fiber.Ctx) error {
	form, err := decodeForm(c)
	if err != nil {
		return err
	}
	created, err := s.repo.CreateForm(c.Context(), form)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderLocation, "/api/forms/"+created.ID)
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) getForm(c fiber.Ctx) error {
	form, err := s.repo.GetForm(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(form)
}

// saveForm replaces a form wholesale and drops its editing session so the
// next intent starts from the saved elements.
func (s *Server) saveForm(c fiber.Ctx) error {
	form, err := decodeForm(c)
	if err != nil {
		return err
	}
	form.ID = c.Params("id")
	saved, err := s.repo.SaveForm(c.Context(), form)
	if err != nil {
		return err
	}
	s.sessions.forget(form.ID)
	return c.JSON(saved)
}

func (s *Server) deleteForm(c fiber.Ctx) error {
	id := c.Params("id")
	if err := s.repo.DeleteForm(c.Context(), id); err != nil {
		return err
	}
	s.sessions.forget(id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listResponses(c fiber.Ctx) error {
	subs, err := s.repo.ListSubmissions(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(subs)
}
