package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-formcanvas/pkg/storage"
	"github.com/goliatone/go-formcanvas/pkg/storage/storagetest"
)

func TestMemory_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T, opts ...storage.Option) storage.Repository {
		return storage.NewMemory(opts...)
	})
}

func TestMemory_HonoursCancelledContext(t *testing.T) {
	repo := storage.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.CreateForm(ctx, storage.Form{ID: "contact"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestForm_ModelCopiesElements(t *testing.T) {
	form := storage.Form{ID: "contact", Title: "Contact"}
	if got := form.Model(); got.ID != "contact" || got.Title != "Contact" || got.Elements != nil {
		t.Fatalf("unexpected model input %+v", got)
	}
}
