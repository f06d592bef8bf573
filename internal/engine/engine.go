// Package engine implements the pure progression computation: effective
// challenge resolution, node/level/tree completion, toggle XP deltas with
// cascade bonuses, unlock gating, and derived user-level and prestige-rank
// lookups. Functions here never mutate their inputs and never perform I/O;
// the session service owns all side effects.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/thtnerdboi/arcstep/internal/catalog"
	"github.com/thtnerdboi/arcstep/internal/domain"
)

// EffectiveChallenges resolves the currently active challenge set for a
// node: the AI-generated set if present and non-empty, otherwise the
// catalog defaults.
func EffectiveChallenges(cat *catalog.Catalog, nodeID string, ai domain.AIChallenges) ([]domain.Challenge, error) {
	node, err := cat.Node(nodeID)
	if err != nil {
		return nil, err
	}
	if set := ai[nodeID]; len(set) > 0 {
		return set, nil
	}
	return node.DefaultChallenges, nil
}

// IsNodeComplete reports whether every challenge in the node's effective
// set is completed. A node with an empty effective set is never complete.
func IsNodeComplete(cat *catalog.Catalog, nodeID string, progress domain.ChallengeProgress, ai domain.AIChallenges) bool {
	challenges, err := EffectiveChallenges(cat, nodeID, ai)
	if err != nil || len(challenges) == 0 {
		return false
	}
	for _, ch := range challenges {
		if !progress.Completed(ch.ID) {
			return false
		}
	}
	return true
}

// IsLevelComplete reports whether every node in the level is complete.
func IsLevelComplete(cat *catalog.Catalog, levelNumber int, progress domain.ChallengeProgress, ai domain.AIChallenges) bool {
	nodes := cat.NodesForLevel(levelNumber)
	if len(nodes) == 0 {
		return false
	}
	for _, n := range nodes {
		if !IsNodeComplete(cat, n.ID, progress, ai) {
			return false
		}
	}
	return true
}

// IsLevelUnlocked reports whether a level is playable. Level 1 is always
// unlocked; level N is unlocked once level N-1 is complete. Only the
// immediately preceding level is checked; the engine relies on forward-only
// progression for transitivity.
func IsLevelUnlocked(cat *catalog.Catalog, levelNumber int, progress domain.ChallengeProgress, ai domain.AIChallenges) bool {
	if levelNumber <= 1 {
		return true
	}
	return IsLevelComplete(cat, levelNumber-1, progress, ai)
}

// IsTreeComplete reports whether every node in the catalog is complete.
func IsTreeComplete(cat *catalog.Catalog, progress domain.ChallengeProgress, ai domain.AIChallenges) bool {
	for _, n := range cat.Nodes() {
		if !IsNodeComplete(cat, n.ID, progress, ai) {
			return false
		}
	}
	return true
}

// ToggleResult is the outcome of a single challenge toggle.
type ToggleResult struct {
	// NextProgress is a copy of the input progress with the one toggled key
	// flipped. The input map is never mutated.
	NextProgress domain.ChallengeProgress

	// XPDelta is the total XP change: base challenge XP plus any node and
	// level completion bonuses or their reversals. It is unclamped and
	// unmultiplied; the caller applies the Pro multiplier and the zero
	// floor on cumulative XP.
	XPDelta int

	NodeJustCompleted    bool
	LevelJustCompleted   bool
	CompletedLevelNumber int
}

// ComputeToggle computes the state transition for flipping one challenge.
//
// The node's effective challenge set is resolved once up front, so a
// concurrent regeneration cannot change which challenges count mid-toggle.
// Node and level completion bonuses are applied when the flip transitions
// the node or level from incomplete to complete, and both are reversed
// symmetrically when un-toggling breaks a completed node or level.
func ComputeToggle(cat *catalog.Catalog, challengeID, nodeID string, challengeXP int, progress domain.ChallengeProgress, ai domain.AIChallenges) (*ToggleResult, error) {
	node, err := cat.Node(nodeID)
	if err != nil {
		return nil, err
	}

	challenges, err := EffectiveChallenges(cat, nodeID, ai)
	if err != nil {
		return nil, err
	}
	if !containsChallenge(challenges, challengeID) {
		return nil, fmt.Errorf("%w: %s not in effective set of node %s", domain.ErrChallengeNotFound, challengeID, nodeID)
	}

	wasCompleted := progress.Completed(challengeID)
	next := progress.Clone()
	next[challengeID] = !wasCompleted

	delta := challengeXP
	if wasCompleted {
		delta = -challengeXP
	}

	result := &ToggleResult{NextProgress: next, XPDelta: delta}

	wasNodeComplete := allCompleted(challenges, progress)
	nodeComplete := allCompleted(challenges, next)

	switch {
	case !wasNodeComplete && nodeComplete:
		result.XPDelta += nodeBonus(cat, node.LevelNumber)
		result.NodeJustCompleted = true

		wasLevelComplete := IsLevelComplete(cat, node.LevelNumber, progress, ai)
		levelComplete := IsLevelComplete(cat, node.LevelNumber, next, ai)
		if !wasLevelComplete && levelComplete {
			result.XPDelta += levelBonus(cat, node.LevelNumber)
			result.LevelJustCompleted = true
			result.CompletedLevelNumber = node.LevelNumber
		}

	case wasNodeComplete && !nodeComplete:
		result.XPDelta -= nodeBonus(cat, node.LevelNumber)

		// Un-toggling the challenge that held a completed level together
		// reverses the level bonus too. Earlier revisions skipped this and
		// let XP drift on toggle/un-toggle cycles.
		wasLevelComplete := IsLevelComplete(cat, node.LevelNumber, progress, ai)
		levelComplete := IsLevelComplete(cat, node.LevelNumber, next, ai)
		if wasLevelComplete && !levelComplete {
			result.XPDelta -= levelBonus(cat, node.LevelNumber)
		}
	}

	return result, nil
}

func containsChallenge(set []domain.Challenge, id string) bool {
	for _, ch := range set {
		if ch.ID == id {
			return true
		}
	}
	return false
}

func allCompleted(set []domain.Challenge, progress domain.ChallengeProgress) bool {
	if len(set) == 0 {
		return false
	}
	for _, ch := range set {
		if !progress.Completed(ch.ID) {
			return false
		}
	}
	return true
}

func nodeBonus(cat *catalog.Catalog, levelNumber int) int {
	bonus, found := cat.NodeBonus(levelNumber)
	if !found {
		slog.Warn("node bonus table missing level, using fallback",
			"level", levelNumber,
			"fallback", bonus,
		)
	}
	return bonus
}

func levelBonus(cat *catalog.Catalog, levelNumber int) int {
	bonus, found := cat.LevelBonus(levelNumber)
	if !found {
		slog.Warn("level bonus table missing level, using fallback",
			"level", levelNumber,
			"fallback", bonus,
		)
	}
	return bonus
}
