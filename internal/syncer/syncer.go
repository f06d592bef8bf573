// Package syncer pushes profile updates to the social backend with
// per-user debouncing. Sync is strictly best-effort: rapid updates within
// the quiet period collapse to the latest value, failures are logged and
// swallowed, and local state is never rolled back.
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/thtnerdboi/arcstep/internal/domain"
	"github.com/thtnerdboi/arcstep/internal/social"
)

const syncTimeout = 15 * time.Second

// Backend is the remote profile API.
type Backend interface {
	UpsertProfile(ctx context.Context, user *social.User) error
}

// CodeRegenerator mints a fresh invite code for a user whose current code
// collided on the backend, returning the new code.
type CodeRegenerator func(ctx context.Context, userID string) (string, error)

type pendingSync struct {
	user  social.User
	timer *time.Timer
}

// Syncer debounces and delivers profile updates, one in-flight sync per
// user at most.
type Syncer struct {
	backend Backend
	regen   CodeRegenerator
	quiet   time.Duration

	mu      sync.Mutex
	pending map[string]*pendingSync
	wg      sync.WaitGroup
	closed  bool
}

// New creates a syncer. regen may be nil to disable collision recovery.
func New(backend Backend, regen CodeRegenerator, quiet time.Duration) *Syncer {
	if quiet <= 0 {
		quiet = 2 * time.Second
	}
	return &Syncer{
		backend: backend,
		regen:   regen,
		quiet:   quiet,
		pending: make(map[string]*pendingSync),
	}
}

// Enqueue schedules a profile for sync after the quiet period. A newer
// profile for the same user replaces the pending one and restarts the timer.
func (s *Syncer) Enqueue(user social.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	if p, ok := s.pending[user.ID]; ok {
		p.user = user
		p.timer.Reset(s.quiet)
		return
	}

	userID := user.ID
	p := &pendingSync{user: user}
	p.timer = time.AfterFunc(s.quiet, func() {
		s.deliver(userID)
	})
	s.pending[userID] = p
}

// deliver takes the latest pending profile for a user and pushes it.
func (s *Syncer) deliver(userID string) {
	s.mu.Lock()
	p, ok := s.pending[userID]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.pending, userID)
	user := p.user
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	s.push(user)
}

func (s *Syncer) push(user social.User) {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	err := s.backend.UpsertProfile(ctx, &user)
	if errors.Is(err, domain.ErrInviteCodeTaken) && s.regen != nil {
		code, rerr := s.regen(ctx, user.ID)
		if rerr != nil {
			slog.Warn("invite code regeneration failed", "user_id", user.ID, "error", rerr)
			return
		}
		user.InviteCode = code
		err = s.backend.UpsertProfile(ctx, &user)
	}
	if err != nil {
		slog.Warn("profile sync failed", "user_id", user.ID, "error", err)
	}
}

// Flush delivers all pending profiles immediately, bypassing the quiet
// period. Used on shutdown.
func (s *Syncer) Flush() {
	s.mu.Lock()
	users := make([]social.User, 0, len(s.pending))
	for userID, p := range s.pending {
		p.timer.Stop()
		users = append(users, p.user)
		delete(s.pending, userID)
	}
	s.mu.Unlock()

	for _, user := range users {
		s.push(user)
	}
	s.wg.Wait()
}

// Close flushes pending syncs and rejects further enqueues.
func (s *Syncer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.Flush()
}
