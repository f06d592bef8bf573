// Package session owns the per-user progression snapshot and every mutation
// of it. The engine computes pure transitions; this service serializes them,
// applies the Pro multiplier and the cumulative XP floor, persists the next
// snapshot, and fans out analytics events and profile sync without ever
// blocking on either.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/thtnerdboi/arcstep/internal/catalog"
	"github.com/thtnerdboi/arcstep/internal/domain"
	"github.com/thtnerdboi/arcstep/internal/engine"
	"github.com/thtnerdboi/arcstep/internal/progress"
	"github.com/thtnerdboi/arcstep/internal/queue"
	"github.com/thtnerdboi/arcstep/internal/social"
)

// ProMultiplier is applied to positive XP deltas for Pro users. Negative
// deltas are never multiplied, so un-toggling takes back only the base
// amount.
const ProMultiplier = 1.5

// EventPublisher emits analytics events. Publishing is fire-and-forget:
// failures are logged, never surfaced.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *queue.Event) error
}

// ProfileSyncer pushes profile updates to the social backend. Enqueue must
// not block; the syncer debounces and retries on its own schedule.
type ProfileSyncer interface {
	Enqueue(user social.User)
}

// Service coordinates all snapshot mutations.
type Service struct {
	catalog *catalog.Catalog
	store   progress.SnapshotStore
	events  EventPublisher // optional
	syncer  ProfileSyncer  // optional

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a new session service. events and syncer may be nil to
// disable analytics and remote sync.
func NewService(cat *catalog.Catalog, store progress.SnapshotStore, events EventPublisher, syncer ProfileSyncer) *Service {
	return &Service{
		catalog: cat,
		store:   store,
		events:  events,
		syncer:  syncer,
		locks:   make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing mutations for one user.
func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func (s *Service) load(userID string) (*progress.Snapshot, error) {
	if userID == progress.DefaultUserID {
		return s.store.GetDefault()
	}
	return s.store.Get(userID)
}

// ToggleOutcome is the applied result of a challenge toggle.
type ToggleOutcome struct {
	Snapshot *progress.Snapshot `json:"snapshot"`

	// XPDelta is the delta actually applied, after the Pro multiplier but
	// before the cumulative zero floor.
	XPDelta int `json:"xp_delta"`

	NodeJustCompleted    bool `json:"node_just_completed"`
	LevelJustCompleted   bool `json:"level_just_completed"`
	CompletedLevelNumber int  `json:"completed_level_number,omitempty"`
}

// ToggleChallenge flips one challenge for the user and applies the full
// cascade. Toggles in locked levels are rejected with ErrLevelLocked.
func (s *Service) ToggleChallenge(ctx context.Context, userID, nodeID, challengeID string) (*ToggleOutcome, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	node, err := s.catalog.Node(nodeID)
	if err != nil {
		return nil, err
	}
	if !engine.IsLevelUnlocked(s.catalog, node.LevelNumber, snap.ChallengeProgress, snap.AIChallenges) {
		return nil, fmt.Errorf("%w: level %d", domain.ErrLevelLocked, node.LevelNumber)
	}

	challenges, err := engine.EffectiveChallenges(s.catalog, nodeID, snap.AIChallenges)
	if err != nil {
		return nil, err
	}
	var challengeXP int
	found := false
	for _, ch := range challenges {
		if ch.ID == challengeID {
			challengeXP = ch.XP
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s not in effective set of node %s", domain.ErrChallengeNotFound, challengeID, nodeID)
	}

	result, err := engine.ComputeToggle(s.catalog, challengeID, nodeID, challengeXP, snap.ChallengeProgress, snap.AIChallenges)
	if err != nil {
		return nil, err
	}

	delta := applyProMultiplier(result.XPDelta, snap.IsPro)

	next := snap.Clone()
	next.ChallengeProgress = result.NextProgress
	next.XP = floorXP(snap.XP + delta)

	if err := s.store.Save(next); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	completed := next.ChallengeProgress.Completed(challengeID)
	slog.Info("challenge toggled",
		"user_id", userID,
		"challenge_id", challengeID,
		"node_id", nodeID,
		"completed", completed,
		"xp_delta", delta,
		"xp", next.XP,
	)

	s.publish(ctx, queue.EventChallengeToggled, userID, map[string]any{
		"challenge_id": challengeID,
		"node_id":      nodeID,
		"completed":    completed,
		"xp_delta":     delta,
	})
	if result.NodeJustCompleted {
		s.publish(ctx, queue.EventNodeCompleted, userID, map[string]any{
			"node_id": nodeID,
		})
	}
	if result.LevelJustCompleted {
		s.publish(ctx, queue.EventLevelCompleted, userID, map[string]any{
			"level": result.CompletedLevelNumber,
		})
	}
	s.syncProfile(next)

	return &ToggleOutcome{
		Snapshot:             next,
		XPDelta:              delta,
		NodeJustCompleted:    result.NodeJustCompleted,
		LevelJustCompleted:   result.LevelJustCompleted,
		CompletedLevelNumber: result.CompletedLevelNumber,
	}, nil
}

// applyProMultiplier boosts positive deltas for Pro users, rounding half up.
func applyProMultiplier(delta int, isPro bool) int {
	if !isPro || delta <= 0 {
		return delta
	}
	return int(math.Round(float64(delta) * ProMultiplier))
}

// floorXP clamps cumulative XP at zero.
func floorXP(xp int) int {
	if xp < 0 {
		return 0
	}
	return xp
}

func (s *Service) publish(ctx context.Context, eventType, userID string, payload map[string]any) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, queue.NewEvent(eventType, userID, payload)); err != nil {
		slog.Warn("event publish failed", "type", eventType, "user_id", userID, "error", err)
	}
}

func (s *Service) syncProfile(snap *progress.Snapshot) {
	if s.syncer == nil {
		return
	}
	s.syncer.Enqueue(social.User{
		ID:               snap.UserID,
		Name:             snap.DisplayName,
		InviteCode:       snap.InviteCode,
		WeeklyCompletion: engine.WeeklyCompletion(s.catalog, snap.ChallengeProgress, snap.AIChallenges),
		IsPro:            snap.IsPro,
	})
}
