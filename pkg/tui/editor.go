package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/widgets"
)

// Editor actions in menu order.
const (
	ActionAdd            = "Add element"
	ActionSelect         = "Select element"
	ActionMove           = "Move element"
	ActionEdit           = "Edit element"
	ActionGroup          = "Group selection"
	ActionUngroup        = "Ungroup selection"
	ActionDuplicate      = "Duplicate element"
	ActionDuplicateGroup = "Duplicate group"
	ActionDelete         = "Delete element"
	ActionImport         = "Import suggestions"
	ActionShow           = "Show layout"
	ActionSave           = "Save"
	ActionQuit           = "Quit"
)

// Actions lists the editor menu.
func Actions() []string {
	return []string{
		ActionAdd, ActionSelect, ActionMove, ActionEdit, ActionGroup, ActionUngroup,
		ActionDuplicate, ActionDuplicateGroup, ActionDelete, ActionImport, ActionShow,
		ActionSave, ActionQuit,
	}
}

// SaveFunc persists the edited elements.
type SaveFunc func(ctx context.Context, elements []canvas.Element) error

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithSave sets the callback run by the Save action and on quit.
func WithSave(save SaveFunc) EditorOption {
	return func(e *Editor) {
		e.save = save
	}
}

// WithBoardOptions adds board options such as a fixed factory. The editor
// always installs its own notifier and confirmer; use WithNotifier to observe
// notifications.
func WithBoardOptions(options ...canvas.Option) EditorOption {
	return func(e *Editor) {
		e.boardOptions = append(e.boardOptions, options...)
	}
}

// WithNotifier forwards board notifications to notifier as well as the
// terminal.
func WithNotifier(notifier canvas.Notifier) EditorOption {
	return func(e *Editor) {
		e.forward = notifier
	}
}

// Editor drives a canvas board from terminal prompts. Board notifications are
// printed through the driver and cascading deletes ask for confirmation.
type Editor struct {
	driver       PromptDriver
	board        *canvas.Board
	save         SaveFunc
	forward      canvas.Notifier
	boardOptions []canvas.Option
	dirty        bool
	ctx          context.Context
}

// NewEditor loads elements into a new board.
func NewEditor(driver PromptDriver, elements []canvas.Element, options ...EditorOption) (*Editor, error) {
	if driver == nil {
		return nil, errors.New("tui: prompt driver is required")
	}
	e := &Editor{driver: driver, ctx: context.Background()}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}

	boardOptions := append(e.boardOptions,
		canvas.WithNotifier(canvas.NotifierFunc(e.notify)),
		canvas.WithConfirmer(canvas.ConfirmFunc(e.confirm)),
	)
	e.board = canvas.NewBoard(boardOptions...)
	if err := e.board.Load(elements); err != nil {
		return nil, err
	}
	return e, nil
}

// Board exposes the edited board.
func (e *Editor) Board() *canvas.Board {
	return e.board
}

// Run shows the action menu until the user quits. Ctrl+C returns ErrAborted
// without saving.
func (e *Editor) Run(ctx context.Context) error {
	e.ctx = ctx
	actions := Actions()
	for {
		idx, err := e.driver.Select(ctx, SelectConfig{
			Message:      fmt.Sprintf("Canvas (%d elements, %d selected)", e.board.Len(), len(e.board.Selection())),
			Options:      actions,
			DefaultIndex: -1,
			PageSize:     len(actions),
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			continue
		}

		action := actions[idx]
		if action == ActionQuit {
			return e.quit(ctx)
		}
		if err := e.perform(ctx, action); err != nil {
			if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
				return err
			}
			_ = e.driver.Info(ctx, "error: "+err.Error())
		}
	}
}

func (e *Editor) perform(ctx context.Context, action string) error {
	switch action {
	case ActionAdd:
		return e.add(ctx)
	case ActionSelect:
		id, ok, err := e.pick(ctx, "Select which element?")
		if err != nil || !ok {
			return err
		}
		multi, err := e.driver.Confirm(ctx, ConfirmConfig{Message: "Keep the current selection?"})
		if err != nil {
			return err
		}
		return e.apply(ctx, canvas.SelectIntent{ID: id, Multi: multi})
	case ActionMove:
		id, ok, err := e.pick(ctx, "Move which element?")
		if err != nil || !ok {
			return err
		}
		current, _ := e.board.Element(id)
		p, err := e.point(ctx, "Move to x,y", current.Position)
		if err != nil {
			return err
		}
		return e.apply(ctx, canvas.MoveIntent{ID: id, Position: p})
	case ActionEdit:
		return e.edit(ctx)
	case ActionGroup:
		return e.apply(ctx, canvas.GroupIntent{})
	case ActionUngroup:
		return e.apply(ctx, canvas.UngroupIntent{})
	case ActionDuplicate:
		id, ok, err := e.pick(ctx, "Duplicate which element?")
		if err != nil || !ok {
			return err
		}
		return e.apply(ctx, canvas.DuplicateIntent{ID: id})
	case ActionDuplicateGroup:
		return e.apply(ctx, canvas.DuplicateGroupIntent{})
	case ActionDelete:
		id, ok, err := e.pick(ctx, "Delete which element?")
		if err != nil || !ok {
			return err
		}
		return e.delete(ctx, id)
	case ActionImport:
		raw, err := e.driver.TextArea(ctx, TextAreaConfig{
			Message: "Paste suggested fields (JSON or YAML)",
			Help:    `A list like [{"type":"email","label":"Work Email"}]; code fences are ignored.`,
		})
		if err != nil || strings.TrimSpace(raw) == "" {
			return err
		}
		suggestions, err := canvas.ParseSuggestions([]byte(raw))
		if err != nil {
			return err
		}
		return e.apply(ctx, canvas.ImportIntent{Suggestions: suggestions, Origin: canvas.DefaultImportOrigin})
	case ActionShow:
		return e.driver.Info(ctx, Describe(e.board))
	case ActionSave:
		return e.persist(ctx)
	}
	return nil
}

func (e *Editor) add(ctx context.Context) error {
	palette := widgets.Palette()
	titles := make([]string, len(palette))
	for i, entry := range palette {
		titles[i] = entry.Title
	}
	idx, err := e.driver.Select(ctx, SelectConfig{Message: "Element type", Options: titles, DefaultIndex: -1})
	if err != nil || idx < 0 || idx >= len(palette) {
		return err
	}
	p, err := e.point(ctx, "Drop at x,y", canvas.DefaultImportOrigin)
	if err != nil {
		return err
	}
	return e.apply(ctx, canvas.DropIntent{Type: palette[idx].Type, Position: p})
}

func (e *Editor) edit(ctx context.Context) error {
	id, ok, err := e.pick(ctx, "Edit which element?")
	if err != nil || !ok {
		return err
	}
	element, _ := e.board.Element(id)

	var patch canvas.Patch
	if element.Block != nil {
		content, err := e.driver.TextArea(ctx, TextAreaConfig{Message: "Content", Default: element.Block.Content})
		if err != nil {
			return err
		}
		patch.Content = &content
		return e.apply(ctx, canvas.UpdateIntent{ID: id, Patch: patch})
	}
	if element.Field == nil {
		return nil
	}

	label, err := e.driver.Input(ctx, InputConfig{
		Message: "Label",
		Default: element.Field.Label,
		Validator: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("label is required")
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	placeholder, err := e.driver.Input(ctx, InputConfig{Message: "Placeholder", Default: element.Field.Placeholder})
	if err != nil {
		return err
	}
	required, err := e.driver.Confirm(ctx, ConfirmConfig{Message: "Required?", Default: element.Field.Required})
	if err != nil {
		return err
	}
	patch.Label, patch.Placeholder, patch.Required = &label, &placeholder, &required

	if element.Type.HasOptions() {
		raw, err := e.driver.TextArea(ctx, TextAreaConfig{
			Message: "Options, one per line",
			Default: strings.Join(element.Field.Options, "\n"),
		})
		if err != nil {
			return err
		}
		options := splitOptions(raw)
		patch.Options = &options
	}
	return e.apply(ctx, canvas.UpdateIntent{ID: id, Patch: patch})
}

func (e *Editor) apply(ctx context.Context, intent canvas.Intent) error {
	result, err := e.board.Apply(ctx, intent)
	switch {
	case errors.Is(err, canvas.ErrGroupTooSmall), errors.Is(err, canvas.ErrNotGrouped):
		// already reported as a warning
		return nil
	case err != nil:
		return err
	}
	if len(result.Created) > 0 || len(result.Changed) > 0 || len(result.Removed) > 0 {
		e.dirty = true
	}
	return nil
}

func (e *Editor) persist(ctx context.Context) error {
	if e.save == nil {
		return e.driver.Info(ctx, "Nothing to save to")
	}
	if err := e.save(ctx, e.board.Elements()); err != nil {
		return err
	}
	e.dirty = false
	return e.driver.Info(ctx, "Saved")
}

func (e *Editor) quit(ctx context.Context) error {
	if !e.dirty || e.save == nil {
		return nil
	}
	save, err := e.driver.Confirm(ctx, ConfirmConfig{Message: "Save changes before quitting?", Default: true})
	if err != nil || !save {
		return err
	}
	return e.persist(ctx)
}

// pick asks for one element. It reports false on an empty canvas.
func (e *Editor) pick(ctx context.Context, message string) (string, bool, error) {
	elements := e.board.Elements()
	if len(elements) == 0 {
		return "", false, e.driver.Info(ctx, "The canvas is empty")
	}
	options := make([]string, len(elements))
	for i, element := range elements {
		options[i] = describeLine(element, e.board.IsSelected(element.ID))
	}
	idx, err := e.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: -1, PageSize: 12})
	if err != nil {
		return "", false, err
	}
	if idx < 0 || idx >= len(elements) {
		return "", false, nil
	}
	return elements[idx].ID, true, nil
}

func (e *Editor) point(ctx context.Context, message string, def canvas.Point) (canvas.Point, error) {
	raw, err := e.driver.Input(ctx, InputConfig{
		Message: message,
		Default: fmt.Sprintf("%d,%d", def.X, def.Y),
		Validator: func(s string) error {
			_, err := ParsePoint(s)
			return err
		},
	})
	if err != nil {
		return canvas.Point{}, err
	}
	return ParsePoint(raw)
}

func (e *Editor) notify(n canvas.Notification) {
	if e.forward != nil {
		e.forward.Notify(n)
	}
	_ = e.driver.Info(e.ctx, fmt.Sprintf("[%s] %s", n.Level, n.Message))
}

// delete asks about the cascade before touching the board so an aborted
// prompt leaves the element in place.
func (e *Editor) delete(ctx context.Context, id string) error {
	element, ok := e.board.Element(id)
	if !ok {
		return nil
	}
	members := 1
	if element.GroupID != "" {
		members = len(e.board.GroupMembers(element.GroupID))
	}
	if members < 2 {
		return e.apply(ctx, canvas.DeleteIntent{ID: id})
	}

	cascade, err := e.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("This element is part of a group of %d. Delete the entire group?", members),
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return e.driver.Info(ctx, "Delete cancelled")
	}
	confirmer := canvas.NeverConfirm
	if cascade {
		confirmer = canvas.AlwaysConfirm
	}
	return e.apply(ctx, canvas.DeleteIntent{ID: id, Confirmer: confirmer})
}

func (e *Editor) confirm(ctx context.Context, req canvas.ConfirmRequest) bool {
	ok, err := e.driver.Confirm(ctx, ConfirmConfig{Message: req.Message})
	return err == nil && ok
}

// ParsePoint reads "x,y" or "x y".
func ParsePoint(raw string) (canvas.Point, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != 2 {
		return canvas.Point{}, fmt.Errorf("want x,y, got %q", raw)
	}
	x, errX := strconv.Atoi(fields[0])
	y, errY := strconv.Atoi(fields[1])
	if err := errors.Join(errX, errY); err != nil {
		return canvas.Point{}, fmt.Errorf("want x,y: %w", err)
	}
	return canvas.Point{X: x, Y: y}, nil
}

// Describe renders the board as one line per element in store order.
func Describe(board *canvas.Board) string {
	elements := board.Elements()
	if len(elements) == 0 {
		return "(empty canvas)"
	}
	lines := make([]string, len(elements))
	for i, element := range elements {
		lines[i] = describeLine(element, board.IsSelected(element.ID))
	}
	return strings.Join(lines, "\n")
}

func describeLine(element canvas.Element, selected bool) string {
	marker := " "
	if selected {
		marker = "*"
	}
	line := fmt.Sprintf("%s %-10s %-20q (%d,%d)", marker, element.Type, truncate(element.Label(), 18), element.Position.X, element.Position.Y)
	if element.GroupID != "" {
		line += " [" + element.GroupID + "]"
	}
	return line + "  " + element.ID
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func splitOptions(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
