// Package storagetest holds the behaviour every storage.Repository must
// share, run against each implementation from its own tests.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcanvas/pkg/storage"
	"github.com/goliatone/go-formcanvas/pkg/testsupport"
)

// Factory builds a fresh, empty repository using the given options.
type Factory func(t *testing.T, opts ...storage.Option) storage.Repository

// Clock returns a deterministic time source advancing one second per call.
func Clock() func() time.Time {
	current := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

// Sequence returns an id generator producing prefix-1, prefix-2 and so on.
func Sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// Run exercises the Repository contract against repositories built by
// newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Run("create and get", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t, storage.WithClock(Clock()), storage.WithIDs(Sequence("form")))

		created, err := repo.CreateForm(ctx, storage.Form{Title: "Contact", Elements: testsupport.ContactElements()})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID != "form-1" || created.Version != 1 {
			t.Fatalf("unexpected identity %s v%d", created.ID, created.Version)
		}

		got, err := repo.GetForm(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if diff := cmp.Diff(testsupport.ContactElements(), got.Elements); diff != "" {
			t.Fatalf("elements mismatch (-want +got):\n%s", diff)
		}
		if !got.CreatedAt.Equal(time.Date(2024, 5, 1, 9, 0, 1, 0, time.UTC)) {
			t.Fatalf("unexpected created at %s", got.CreatedAt)
		}

		if _, err := repo.CreateForm(ctx, storage.Form{ID: created.ID}); !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if _, err := repo.GetForm(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("returned forms are detached", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		created, err := repo.CreateForm(ctx, storage.Form{ID: "contact", Elements: testsupport.ContactElements()})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		created.Elements[1].Field.Label = "Changed"

		got, err := repo.GetForm(ctx, "contact")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Elements[1].Field.Label != "Full Name" {
			t.Fatalf("stored form was mutated through a returned copy")
		}
	})

	t.Run("list orders by id without elements", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		for _, id := range []string{"signup", "contact"} {
			if _, err := repo.CreateForm(ctx, storage.Form{ID: id, Title: id, Elements: testsupport.ContactElements()}); err != nil {
				t.Fatalf("create %s: %v", id, err)
			}
		}

		forms, err := repo.ListForms(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(forms) != 2 || forms[0].ID != "contact" || forms[1].ID != "signup" {
			t.Fatalf("unexpected listing %+v", forms)
		}
		if len(forms[0].Elements) != 0 {
			t.Fatalf("listing should omit elements")
		}
	})

	t.Run("save bumps version and rejects stale writes", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t, storage.WithClock(Clock()))

		created, err := repo.CreateForm(ctx, storage.Form{ID: "contact", Title: "Contact"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		created.Title = "Get in touch"
		created.Elements = testsupport.ContactElements()[:2]
		saved, err := repo.SaveForm(ctx, created)
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		if saved.Version != 2 || saved.Title != "Get in touch" || len(saved.Elements) != 2 {
			t.Fatalf("unexpected saved form %+v", saved)
		}
		if !saved.UpdatedAt.After(saved.CreatedAt) {
			t.Fatalf("updated at should advance: %s vs %s", saved.UpdatedAt, saved.CreatedAt)
		}

		if _, err := repo.SaveForm(ctx, created); !errors.Is(err, storage.ErrStale) {
			t.Fatalf("expected ErrStale for version %d, got %v", created.Version, err)
		}
		created.Version = 0
		if forced, err := repo.SaveForm(ctx, created); err != nil || forced.Version != 3 {
			t.Fatalf("unversioned save should win: %+v %v", forced, err)
		}
		if _, err := repo.SaveForm(ctx, storage.Form{ID: "missing"}); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("submissions follow their form", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t, storage.WithClock(Clock()), storage.WithIDs(Sequence("id")))

		if _, err := repo.CreateForm(ctx, storage.Form{ID: "contact"}); err != nil {
			t.Fatalf("create: %v", err)
		}
		first, err := repo.AddSubmission(ctx, storage.Submission{FormID: "contact", Values: map[string]any{"full_name": "Ada"}})
		if err != nil {
			t.Fatalf("add submission: %v", err)
		}
		if first.ID == "" {
			t.Fatalf("submission id not assigned")
		}
		if _, err := repo.AddSubmission(ctx, storage.Submission{FormID: "contact", Values: map[string]any{"full_name": "Grace"}}); err != nil {
			t.Fatalf("add submission: %v", err)
		}
		if _, err := repo.AddSubmission(ctx, storage.Submission{FormID: "missing"}); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for unknown form, got %v", err)
		}

		subs, err := repo.ListSubmissions(ctx, "contact")
		if err != nil {
			t.Fatalf("list submissions: %v", err)
		}
		names := make([]any, 0, len(subs))
		for _, sub := range subs {
			names = append(names, sub.Values["full_name"])
		}
		if diff := cmp.Diff([]any{"Ada", "Grace"}, names); diff != "" {
			t.Fatalf("submissions mismatch (-want +got):\n%s", diff)
		}

		if err := repo.DeleteForm(ctx, "contact"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.ListSubmissions(ctx, "contact"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.DeleteForm(ctx, "contact"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}
