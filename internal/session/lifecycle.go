package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/thtnerdboi/arcstep/internal/domain"
	"github.com/thtnerdboi/arcstep/internal/engine"
	"github.com/thtnerdboi/arcstep/internal/progress"
	"github.com/thtnerdboi/arcstep/internal/queue"
)

// CompleteOnboarding records the user's answers and, when a full generated
// tree is supplied, applies it in one step. Onboarding never grants XP.
func (s *Service) CompleteOnboarding(ctx context.Context, userID string, answers domain.OnboardingAnswers, challenges domain.AIChallenges) (*progress.Snapshot, error) {
	if answers.Body == "" || answers.Mind == "" || answers.Craft == "" {
		return nil, fmt.Errorf("%w: all onboarding answers are required", domain.ErrInvalidInput)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	next := snap.Clone()
	next.OnboardingAnswers = &answers
	next.OnboardingComplete = true
	for nodeID, set := range challenges {
		next.AIChallenges[nodeID] = set
		next.LastGeneratedAt[nodeID] = now
	}

	if err := s.store.Save(next); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	slog.Info("onboarding completed", "user_id", userID, "generated_nodes", len(challenges))
	s.publish(ctx, queue.EventOnboardingCompleted, userID, map[string]any{
		"generated_nodes": len(challenges),
	})
	s.syncProfile(next)

	return next, nil
}

// SetAIChallenges replaces a node's challenge set wholesale. Progress on the
// replaced challenges stays in the snapshot but no longer counts toward the
// node, so a completed node drops back to incomplete; earned XP is kept.
func (s *Service) SetAIChallenges(ctx context.Context, userID, nodeID string, challenges []domain.Challenge) (*progress.Snapshot, error) {
	if len(challenges) == 0 {
		return nil, fmt.Errorf("%w: empty challenge set", domain.ErrInvalidInput)
	}
	if _, err := s.catalog.Node(nodeID); err != nil {
		return nil, err
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	next := snap.Clone()
	next.AIChallenges[nodeID] = challenges
	next.LastGeneratedAt[nodeID] = time.Now()

	if err := s.store.Save(next); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	slog.Info("challenges regenerated", "user_id", userID, "node_id", nodeID, "count", len(challenges))
	s.syncProfile(next)

	return next, nil
}

// TriggerPrestige resets the tree for a fresh cycle. Only a fully completed
// tree after onboarding is eligible; XP and the invite code survive, progress
// and generated challenges do not.
func (s *Service) TriggerPrestige(ctx context.Context, userID string) (*progress.Snapshot, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	if !snap.OnboardingComplete {
		return nil, fmt.Errorf("%w: onboarding not complete", domain.ErrNotEligible)
	}
	if !engine.IsTreeComplete(s.catalog, snap.ChallengeProgress, snap.AIChallenges) {
		return nil, fmt.Errorf("%w: tree not complete", domain.ErrNotEligible)
	}

	next := snap.Clone()
	next.ChallengeProgress = make(domain.ChallengeProgress)
	next.AIChallenges = make(domain.AIChallenges)
	next.LastGeneratedAt = make(map[string]time.Time)
	next.PrestigeCount++
	next.PrestigeDismissed = false

	if err := s.store.Save(next); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	slog.Info("prestige triggered", "user_id", userID, "prestige_count", next.PrestigeCount, "xp", next.XP)
	s.publish(ctx, queue.EventPrestigeTriggered, userID, map[string]any{
		"prestige_count": next.PrestigeCount,
	})
	s.syncProfile(next)

	return next, nil
}

// DismissPrestige hides the prestige prompt until the next cycle.
func (s *Service) DismissPrestige(ctx context.Context, userID string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.load(userID)
	if err != nil {
		return err
	}

	next := snap.Clone()
	next.PrestigeDismissed = true

	if err := s.store.Save(next); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// AddBonusXP grants (or revokes, for negative amounts) XP outside the toggle
// path. No Pro multiplier, no cascade; the zero floor still applies.
func (s *Service) AddBonusXP(ctx context.Context, userID string, amount int, reason string) (*progress.Snapshot, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	next := snap.Clone()
	next.XP = floorXP(snap.XP + amount)

	if err := s.store.Save(next); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	slog.Info("bonus xp granted", "user_id", userID, "amount", amount, "reason", reason, "xp", next.XP)
	s.publish(ctx, queue.EventBonusXPGranted, userID, map[string]any{
		"amount": amount,
		"reason": reason,
	})
	s.syncProfile(next)

	return next, nil
}

// SetProStatus flips the Pro flag. Takes effect for future toggles only.
func (s *Service) SetProStatus(ctx context.Context, userID string, isPro bool) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.load(userID)
	if err != nil {
		return err
	}
	if snap.IsPro == isPro {
		return nil
	}

	next := snap.Clone()
	next.IsPro = isPro

	if err := s.store.Save(next); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	slog.Info("pro status changed", "user_id", userID, "is_pro", isPro)
	s.publish(ctx, queue.EventProStatusChanged, userID, map[string]any{
		"is_pro": isPro,
	})
	s.syncProfile(next)

	return nil
}

// UpdateDisplayName sets the user's display name.
func (s *Service) UpdateDisplayName(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: display name must not be empty", domain.ErrInvalidInput)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.load(userID)
	if err != nil {
		return err
	}

	next := snap.Clone()
	next.DisplayName = name

	if err := s.store.Save(next); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	s.syncProfile(next)
	return nil
}

// RegenerateInviteCode mints a fresh invite code, used when the current one
// collides on the social backend.
func (s *Service) RegenerateInviteCode(ctx context.Context, userID string) (string, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.load(userID)
	if err != nil {
		return "", err
	}

	next := snap.Clone()
	next.InviteCode = progress.NewInviteCode()

	if err := s.store.Save(next); err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}

	slog.Info("invite code regenerated", "user_id", userID, "invite_code", next.InviteCode)
	s.syncProfile(next)

	return next.InviteCode, nil
}
