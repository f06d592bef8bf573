package session

import (
	"github.com/thtnerdboi/arcstep/internal/engine"
	"github.com/thtnerdboi/arcstep/internal/progress"
)

// Snapshot returns the user's current snapshot, read fresh from the store.
func (s *Service) Snapshot(userID string) (*progress.Snapshot, error) {
	return s.load(userID)
}

// NodeComplete reports whether the node's effective set is fully completed.
func (s *Service) NodeComplete(userID, nodeID string) (bool, error) {
	if _, err := s.catalog.Node(nodeID); err != nil {
		return false, err
	}
	snap, err := s.load(userID)
	if err != nil {
		return false, err
	}
	return engine.IsNodeComplete(s.catalog, nodeID, snap.ChallengeProgress, snap.AIChallenges), nil
}

// LevelUnlocked reports whether a level is playable for the user.
func (s *Service) LevelUnlocked(userID string, levelNumber int) (bool, error) {
	snap, err := s.load(userID)
	if err != nil {
		return false, err
	}
	return engine.IsLevelUnlocked(s.catalog, levelNumber, snap.ChallengeProgress, snap.AIChallenges), nil
}

// TreeComplete reports whether every node is complete.
func (s *Service) TreeComplete(userID string) (bool, error) {
	snap, err := s.load(userID)
	if err != nil {
		return false, err
	}
	return engine.IsTreeComplete(s.catalog, snap.ChallengeProgress, snap.AIChallenges), nil
}

// PrestigeReady reports whether the prestige prompt should show: tree
// complete, onboarding done, and not dismissed this cycle.
func (s *Service) PrestigeReady(userID string) (bool, error) {
	snap, err := s.load(userID)
	if err != nil {
		return false, err
	}
	ready := snap.OnboardingComplete &&
		!snap.PrestigeDismissed &&
		engine.IsTreeComplete(s.catalog, snap.ChallengeProgress, snap.AIChallenges)
	return ready, nil
}

// Overview is the derived stats block for presentation.
type Overview struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	InviteCode  string `json:"invite_code"`
	IsPro       bool   `json:"is_pro"`

	XP            int     `json:"xp"`
	UserLevel     int     `json:"user_level"`
	LevelProgress float64 `json:"level_progress"`
	XPForNext     int     `json:"xp_for_next,omitempty"`
	MaxLevel      bool    `json:"max_level"`

	PrestigeCount int    `json:"prestige_count"`
	PrestigeRank  string `json:"prestige_rank"`
	PrestigeReady bool   `json:"prestige_ready"`

	CompletedChallenges int `json:"completed_challenges"`
	TotalChallenges     int `json:"total_challenges"`
	CompletedNodes      int `json:"completed_nodes"`
	CompletedLevels     int `json:"completed_levels"`
	WeeklyCompletion    int `json:"weekly_completion"`
}

// Overview computes the full derived stats block from a fresh snapshot.
func (s *Service) Overview(userID string) (*Overview, error) {
	snap, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	userLevel := engine.UserLevel(s.catalog, snap.XP)
	xpForNext, hasNext := engine.XPForNextLevel(s.catalog, userLevel)
	treeComplete := engine.IsTreeComplete(s.catalog, snap.ChallengeProgress, snap.AIChallenges)

	return &Overview{
		UserID:      snap.UserID,
		DisplayName: snap.DisplayName,
		InviteCode:  snap.InviteCode,
		IsPro:       snap.IsPro,

		XP:            snap.XP,
		UserLevel:     userLevel,
		LevelProgress: engine.LevelProgress(s.catalog, snap.XP),
		XPForNext:     xpForNext,
		MaxLevel:      !hasNext,

		PrestigeCount: snap.PrestigeCount,
		PrestigeRank:  engine.PrestigeRank(s.catalog, snap.PrestigeCount).Name,
		PrestigeReady: snap.OnboardingComplete && !snap.PrestigeDismissed && treeComplete,

		CompletedChallenges: engine.CompletedChallenges(s.catalog, snap.ChallengeProgress, snap.AIChallenges),
		TotalChallenges:     engine.TotalChallenges(s.catalog, snap.AIChallenges),
		CompletedNodes:      engine.CompletedNodes(s.catalog, snap.ChallengeProgress, snap.AIChallenges),
		CompletedLevels:     engine.CompletedLevels(s.catalog, snap.ChallengeProgress, snap.AIChallenges),
		WeeklyCompletion:    engine.WeeklyCompletion(s.catalog, snap.ChallengeProgress, snap.AIChallenges),
	}, nil
}
