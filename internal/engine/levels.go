package engine

import (
	"github.com/thtnerdboi/arcstep/internal/catalog"
	"github.com/thtnerdboi/arcstep/internal/domain"
)

// UserLevel derives the user level from cumulative XP: one plus the
// highest threshold index the XP has reached, clamped to the table length.
func UserLevel(cat *catalog.Catalog, xp int) int {
	thresholds := cat.Thresholds()
	for i := len(thresholds) - 1; i >= 0; i-- {
		if xp >= thresholds[i] {
			return i + 1
		}
	}
	return 1
}

// XPForCurrentLevel returns the threshold at which the given user level
// begins.
func XPForCurrentLevel(cat *catalog.Catalog, userLevel int) int {
	thresholds := cat.Thresholds()
	if userLevel < 1 {
		return 0
	}
	if userLevel > len(thresholds) {
		return thresholds[len(thresholds)-1]
	}
	return thresholds[userLevel-1]
}

// XPForNextLevel returns the threshold for the next user level. At max
// level there is no next threshold and the second return value is false;
// callers display "Max Level" instead of a progress fraction.
func XPForNextLevel(cat *catalog.Catalog, userLevel int) (int, bool) {
	thresholds := cat.Thresholds()
	if userLevel < 1 || userLevel >= len(thresholds) {
		return 0, false
	}
	return thresholds[userLevel], true
}

// LevelProgress returns the fraction [0,1] of the way from the current
// user level threshold to the next. Returns 1 at max level.
func LevelProgress(cat *catalog.Catalog, xp int) float64 {
	level := UserLevel(cat, xp)
	current := XPForCurrentLevel(cat, level)
	next, ok := XPForNextLevel(cat, level)
	if !ok || next <= current {
		return 1
	}
	frac := float64(xp-current) / float64(next-current)
	if frac > 1 {
		return 1
	}
	return frac
}

// PrestigeRank returns the highest rank whose threshold the prestige count
// has reached.
func PrestigeRank(cat *catalog.Catalog, prestigeCount int) domain.Rank {
	ranks := cat.Ranks()
	for i := len(ranks) - 1; i >= 0; i-- {
		if prestigeCount >= ranks[i].MinPrestige {
			return ranks[i]
		}
	}
	return ranks[0]
}
