// Package progress holds the per-user progression snapshot and its
// persistence. The snapshot owns no progression logic; it is mutated only
// through the session service, which computes full next snapshots via the
// engine (copy-on-write, no shared sub-structures between snapshots).
package progress

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/thtnerdboi/arcstep/internal/domain"
)

// Snapshot is the full persisted progression record for one user.
type Snapshot struct {
	UserID             string                    `json:"user_id"`
	DisplayName        string                    `json:"display_name"`
	InviteCode         string                    `json:"invite_code"`
	OnboardingComplete bool                      `json:"onboarding_complete"`
	OnboardingAnswers  *domain.OnboardingAnswers `json:"onboarding_answers,omitempty"`
	ChallengeProgress  domain.ChallengeProgress  `json:"challenge_progress"`
	AIChallenges       domain.AIChallenges       `json:"ai_challenges"`
	XP                 int                       `json:"xp"`
	PrestigeCount      int                       `json:"prestige_count"`
	Friends            []domain.Friend           `json:"friends"`
	IsPro              bool                      `json:"is_pro"`
	PrestigeDismissed  bool                      `json:"prestige_dismissed"`
	LastGeneratedAt    map[string]time.Time      `json:"last_generated_at"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// NewSnapshot creates a fresh default snapshot: empty maps, zero XP, zero
// prestige, a random invite code.
func NewSnapshot() *Snapshot {
	now := time.Now()
	return &Snapshot{
		UserID:            "usr_" + uuid.New().String(),
		InviteCode:        NewInviteCode(),
		ChallengeProgress: make(domain.ChallengeProgress),
		AIChallenges:      make(domain.AIChallenges),
		LastGeneratedAt:   make(map[string]time.Time),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// NewInviteCode returns a fresh six-digit invite code.
func NewInviteCode() string {
	return fmt.Sprintf("ARC-%06d", 100000+rand.IntN(900000))
}

// Clone returns a deep copy. Every mutation path clones the current
// snapshot, edits the copy, and swaps it in whole.
func (s *Snapshot) Clone() *Snapshot {
	cp := *s
	cp.ChallengeProgress = s.ChallengeProgress.Clone()
	cp.AIChallenges = s.AIChallenges.Clone()
	cp.LastGeneratedAt = make(map[string]time.Time, len(s.LastGeneratedAt))
	for k, v := range s.LastGeneratedAt {
		cp.LastGeneratedAt[k] = v
	}
	cp.Friends = make([]domain.Friend, len(s.Friends))
	copy(cp.Friends, s.Friends)
	if s.OnboardingAnswers != nil {
		answers := *s.OnboardingAnswers
		cp.OnboardingAnswers = &answers
	}
	return &cp
}

// Normalize repairs nil maps on snapshots decoded from older records.
func (s *Snapshot) Normalize() {
	if s.ChallengeProgress == nil {
		s.ChallengeProgress = make(domain.ChallengeProgress)
	}
	if s.AIChallenges == nil {
		s.AIChallenges = make(domain.AIChallenges)
	}
	if s.LastGeneratedAt == nil {
		s.LastGeneratedAt = make(map[string]time.Time)
	}
}
