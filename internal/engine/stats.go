package engine

import (
	"math"

	"github.com/thtnerdboi/arcstep/internal/catalog"
	"github.com/thtnerdboi/arcstep/internal/domain"
)

// CompletedChallenges counts completed challenges across all effective sets.
func CompletedChallenges(cat *catalog.Catalog, progress domain.ChallengeProgress, ai domain.AIChallenges) int {
	var total int
	for _, n := range cat.Nodes() {
		challenges, err := EffectiveChallenges(cat, n.ID, ai)
		if err != nil {
			continue
		}
		for _, ch := range challenges {
			if progress.Completed(ch.ID) {
				total++
			}
		}
	}
	return total
}

// TotalChallenges counts all challenges across all effective sets.
func TotalChallenges(cat *catalog.Catalog, ai domain.AIChallenges) int {
	var total int
	for _, n := range cat.Nodes() {
		challenges, err := EffectiveChallenges(cat, n.ID, ai)
		if err != nil {
			continue
		}
		total += len(challenges)
	}
	return total
}

// WeeklyCompletion returns the completed share of all effective challenges
// as a rounded percentage, the figure synced to the social backend.
func WeeklyCompletion(cat *catalog.Catalog, progress domain.ChallengeProgress, ai domain.AIChallenges) int {
	total := TotalChallenges(cat, ai)
	if total == 0 {
		return 0
	}
	completed := CompletedChallenges(cat, progress, ai)
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// CompletedNodes counts complete nodes across the catalog.
func CompletedNodes(cat *catalog.Catalog, progress domain.ChallengeProgress, ai domain.AIChallenges) int {
	var total int
	for _, n := range cat.Nodes() {
		if IsNodeComplete(cat, n.ID, progress, ai) {
			total++
		}
	}
	return total
}

// CompletedLevels counts complete levels.
func CompletedLevels(cat *catalog.Catalog, progress domain.ChallengeProgress, ai domain.AIChallenges) int {
	var total int
	for _, l := range cat.Levels() {
		if IsLevelComplete(cat, l.Number, progress, ai) {
			total++
		}
	}
	return total
}
