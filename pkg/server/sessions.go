package server

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formcanvas/internal/logging"
	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/storage"
)

// session is the live editing state of one form: the board with its
// selection and the stored record it was loaded from. Handlers hold mu for
// the whole request so notifications collected in pending belong to it.
type session struct {
	mu       sync.Mutex
	board    *canvas.Board
	form     storage.Form
	pending  []canvas.Notification
	lastUsed time.Time
}

func (s *session) drain() []canvas.Notification {
	out := s.pending
	s.pending = nil
	if out == nil {
		out = []canvas.Notification{}
	}
	return out
}

// sessions caches boards by form id and evicts them after ttl of inactivity.
type sessions struct {
	mu        sync.Mutex
	items     map[string]*session
	ttl       time.Duration
	now       func() time.Time
	confirmer canvas.Confirmer
	logger    *zap.Logger
}

func newSessions(ttl time.Duration, confirmer canvas.Confirmer, logger *zap.Logger) *sessions {
	return &sessions{
		items:     make(map[string]*session),
		ttl:       ttl,
		now:       time.Now,
		confirmer: confirmer,
		logger:    logger,
	}
}

// open returns the cached session for id, loading it from repo when absent
// or expired.
func (s *sessions) open(ctx context.Context, repo storage.Repository, id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	if sess, ok := s.items[id]; ok {
		sess.lastUsed = now
		return sess, nil
	}

	form, err := repo.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}
	sess := &session{form: form, lastUsed: now}
	collect := canvas.NotifierFunc(func(n canvas.Notification) {
		sess.pending = append(sess.pending, n)
	})
	sess.board = canvas.NewBoard(
		canvas.WithNotifier(logging.Fanout(
			logging.Notifier(s.logger, zap.String("form", id)),
			collect,
		)),
		canvas.WithConfirmer(s.confirmer),
	)
	if err := sess.board.Load(form.Elements); err != nil {
		return nil, err
	}
	s.items[id] = sess
	return sess, nil
}

// peek returns a live session without loading one.
func (s *sessions) peek(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	if ok && s.ttl > 0 && s.now().Sub(sess.lastUsed) > s.ttl {
		delete(s.items, id)
		return nil, false
	}
	return sess, ok
}

func (s *sessions) forget(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

func (s *sessions) sweepLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.items {
		if now.Sub(sess.lastUsed) > s.ttl {
			delete(s.items, id)
			s.logger.Debug("editing session expired", zap.String("form", id))
		}
	}
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
