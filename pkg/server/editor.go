package server

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
)

type boardResponse struct {
	canvas.Snapshot
	Version int `json:"version"`
}

type intentResponse struct {
	Result        canvas.Result         `json:"result"`
	Notifications []canvas.Notification `json:"notifications"`
	Selected      []string              `json:"selected"`
	Version       int                   `json:"version"`
}

func (s *Server) board(c fiber.Ctx) error {
	sess, err := s.sessions.open(c.Context(), s.repo, c.Params("id"))
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return c.JSON(boardResponse{Snapshot: sess.board.Snapshot(), Version: sess.form.Version})
}

// preview reports where an element of ?type= dropped at ?x=&y= would land.
func (s *Server) preview(c fiber.Ctx) error {
	t := canvas.ParseElementType(c.Query("type"))
	if t == "" {
		return badRequest("type is required", nil)
	}
	x, errX := strconv.Atoi(c.Query("x", "0"))
	y, errY := strconv.Atoi(c.Query("y", "0"))
	if err := errors.Join(errX, errY); err != nil {
		return badRequest("invalid coordinates", err)
	}

	sess, err := s.sessions.open(c.Context(), s.repo, c.Params("id"))
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return c.JSON(sess.board.Preview(t, canvas.Point{X: x, Y: y}))
}

// applyIntent runs one envelope against the form's board and persists the
// elements when the intent changed them. Grouping policy violations answer
// 422 with the warning notification.
func (s *Server) applyIntent(c fiber.Ctx) error {
	intent, err := canvas.DecodeIntent(c.Body())
	if err != nil {
		if errors.Is(err, canvas.ErrUnknownIntent) {
			return err
		}
		return badRequest("invalid intent", err)
	}

	id := c.Params("id")
	sess, err := s.sessions.open(c.Context(), s.repo, id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	result, err := sess.board.Apply(c.Context(), intent)
	notes := sess.drain()
	status := fiber.StatusOK
	switch {
	case errors.Is(err, canvas.ErrGroupTooSmall), errors.Is(err, canvas.ErrNotGrouped):
		status = fiber.StatusUnprocessableEntity
	case err != nil:
		return err
	case result.Mutated():
		form := sess.form
		form.Elements = sess.board.Elements()
		saved, err := s.repo.SaveForm(c.Context(), form)
		if err != nil {
			// The board already holds the change; drop it so the next
			// request reloads the stored form.
			s.sessions.forget(id)
			return err
		}
		sess.form = saved
	}

	return c.Status(status).JSON(intentResponse{
		Result:        result,
		Notifications: notes,
		Selected:      sess.board.Selection(),
		Version:       sess.form.Version,
	})
}
