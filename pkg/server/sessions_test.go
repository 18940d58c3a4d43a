package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/storage"
	"github.com/goliatone/go-formcanvas/pkg/testsupport"
)

func TestSessions_ReuseAndExpire(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemory()
	if _, err := repo.CreateForm(ctx, storage.Form{ID: "contact", Elements: testsupport.ContactElements()}); err != nil {
		t.Fatalf("create: %v", err)
	}

	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	cache := newSessions(time.Minute, canvas.NeverConfirm, zap.NewNop())
	cache.now = func() time.Time { return clock }

	first, err := cache.open(ctx, repo, "contact")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	first.board.Select("email-1", false)

	clock = clock.Add(30 * time.Second)
	again, err := cache.open(ctx, repo, "contact")
	if err != nil || again != first {
		t.Fatalf("session should be reused: %v", err)
	}
	if !again.board.IsSelected("email-1") {
		t.Fatalf("selection should survive between requests")
	}

	clock = clock.Add(2 * time.Minute)
	if _, ok := cache.peek("contact"); ok {
		t.Fatalf("idle session should expire")
	}
	fresh, err := cache.open(ctx, repo, "contact")
	if err != nil || fresh == first {
		t.Fatalf("expired session should be reloaded: %v", err)
	}
	if fresh.board.IsSelected("email-1") {
		t.Fatalf("reloaded session starts without a selection")
	}
	if cache.len() != 1 {
		t.Fatalf("expected one live session, got %d", cache.len())
	}

	if _, err := cache.open(ctx, repo, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("open missing form: %v", err)
	}
}

func TestSessions_CollectNotifications(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemory()
	if _, err := repo.CreateForm(ctx, storage.Form{ID: "empty"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	cache := newSessions(0, canvas.NeverConfirm, zap.NewNop())

	sess, err := cache.open(ctx, repo, "empty")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sess.board.Drop(canvas.TypeText, canvas.Point{X: 100, Y: 100})
	_, _ = sess.board.Group(nil)

	notes := sess.drain()
	if len(notes) != 2 || notes[0].Level != canvas.LevelSuccess || notes[1].Level != canvas.LevelWarning {
		t.Fatalf("unexpected notifications %+v", notes)
	}
	if len(sess.drain()) != 0 {
		t.Fatalf("drain should empty the queue")
	}
}
