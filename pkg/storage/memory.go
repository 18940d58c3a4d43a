package storage

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Option configures a store.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDs overrides the generator used for form and submission ids.
func WithIDs(newID func() string) Option {
	return func(o *options) {
		if newID != nil {
			o.newID = newID
		}
	}
}

// ResolveOptions applies opts over the defaults: UTC wall clock and random
// UUIDs.
func ResolveOptions(opts ...Option) (now func() time.Time, newID func() string) {
	o := options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o.now, o.newID
}

// Memory is a Repository held in process memory.
type Memory struct {
	mu          sync.RWMutex
	forms       map[string]Form
	submissions map[string][]Submission
	now         func() time.Time
	newID       func() string
}

var _ Repository = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	now, newID := ResolveOptions(opts...)
	return &Memory{
		forms:       make(map[string]Form),
		submissions: make(map[string][]Submission),
		now:         now,
		newID:       newID,
	}
}

func (m *Memory) CreateForm(ctx context.Context, form Form) (Form, error) {
	if err := ctx.Err(); err != nil {
		return Form{}, err
	}
	form.ID = strings.TrimSpace(form.ID)
	if form.ID == "" {
		form.ID = m.newID()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.forms[form.ID]; exists {
		return Form{}, fmt.Errorf("%w: form %q", ErrConflict, form.ID)
	}
	stamp := m.now()
	form.Version = 1
	form.CreatedAt, form.UpdatedAt = stamp, stamp
	form.Elements = cloneElements(form.Elements)
	m.forms[form.ID] = form
	return copyForm(form), nil
}

func (m *Memory) GetForm(ctx context.Context, id string) (Form, error) {
	if err := ctx.Err(); err != nil {
		return Form{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	form, ok := m.forms[id]
	if !ok {
		return Form{}, fmt.Errorf("%w: form %q", ErrNotFound, id)
	}
	return copyForm(form), nil
}

func (m *Memory) ListForms(ctx context.Context) ([]Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]Form, 0, len(m.forms))
	for _, form := range m.forms {
		form.Elements = nil
		out = append(out, form)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveForm(ctx context.Context, form Form) (Form, error) {
	if err := ctx.Err(); err != nil {
		return Form{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.forms[form.ID]
	if !ok {
		return Form{}, fmt.Errorf("%w: form %q", ErrNotFound, form.ID)
	}
	if form.Version != 0 && form.Version != stored.Version {
		return Form{}, fmt.Errorf("%w: form %q is at version %d", ErrStale, form.ID, stored.Version)
	}
	form.Version = stored.Version + 1
	form.CreatedAt = stored.CreatedAt
	form.UpdatedAt = m.now()
	form.Elements = cloneElements(form.Elements)
	m.forms[form.ID] = form
	return copyForm(form), nil
}

func (m *Memory) DeleteForm(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.forms[id]; !ok {
		return fmt.Errorf("%w: form %q", ErrNotFound, id)
	}
	delete(m.forms, id)
	delete(m.submissions, id)
	return nil
}

func (m *Memory) AddSubmission(ctx context.Context, submission Submission) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.forms[submission.FormID]; !ok {
		return Submission{}, fmt.Errorf("%w: form %q", ErrNotFound, submission.FormID)
	}
	if submission.ID == "" {
		submission.ID = m.newID()
	}
	submission.CreatedAt = m.now()
	submission.Values = maps.Clone(submission.Values)
	m.submissions[submission.FormID] = append(m.submissions[submission.FormID], submission)
	return submission, nil
}

func (m *Memory) ListSubmissions(ctx context.Context, formID string) ([]Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.forms[formID]; !ok {
		return nil, fmt.Errorf("%w: form %q", ErrNotFound, formID)
	}
	stored := m.submissions[formID]
	out := make([]Submission, len(stored))
	for i, submission := range stored {
		submission.Values = maps.Clone(submission.Values)
		out[i] = submission
	}
	return out, nil
}

func (m *Memory) Close() error {
	return nil
}

func copyForm(form Form) Form {
	form.Elements = cloneElements(form.Elements)
	return form
}
