package canvas

import "context"

// Level grades a Notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is the user-facing signal emitted by state-changing board
// operations. Elements lists the ids the operation touched.
type Notification struct {
	Level    Level    `json:"level"`
	Message  string   `json:"message"`
	Elements []string `json:"elements,omitempty"`
}

// Notifier receives board notifications. Implementations must not call back
// into the Board synchronously.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify implements Notifier.
func (fn NotifierFunc) Notify(n Notification) {
	if fn != nil {
		fn(n)
	}
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}

// ConfirmRequest describes a pending cascading delete.
type ConfirmRequest struct {
	ElementID string
	GroupID   string
	Members   int
	Message   string
}

// Confirmer answers cascading delete prompts. Returning false deletes only the
// requested element.
type Confirmer interface {
	Confirm(ctx context.Context, req ConfirmRequest) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, req ConfirmRequest) bool

// Confirm implements Confirmer.
func (fn ConfirmFunc) Confirm(ctx context.Context, req ConfirmRequest) bool {
	if fn == nil {
		return false
	}
	return fn(ctx, req)
}

var (
	// AlwaysConfirm accepts every cascade.
	AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, ConfirmRequest) bool { return true })
	// NeverConfirm declines every cascade.
	NeverConfirm Confirmer = ConfirmFunc(func(context.Context, ConfirmRequest) bool { return false })
)
