package engine

import (
	"testing"

	"github.com/thtnerdboi/arcstep/internal/domain"
)

func TestUserLevel(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{499, 1},
		{500, 2},
		{1100, 3},
		{1799, 3},
		{12500, 11},
		{99999, 11}, // clamped at table length
	}
	for _, tt := range tests {
		if got := UserLevel(cat, tt.xp); got != tt.level {
			t.Errorf("UserLevel(%d) = %d, want %d", tt.xp, got, tt.level)
		}
	}
}

func TestXPForNextLevel_SaturatesAtMax(t *testing.T) {
	cat := testCatalog(t)

	next, ok := XPForNextLevel(cat, 1)
	if !ok || next != 500 {
		t.Errorf("XPForNextLevel(1) = %d, %v, want 500, true", next, ok)
	}

	maxLevel := len(cat.Thresholds())
	if _, ok := XPForNextLevel(cat, maxLevel); ok {
		t.Error("expected no next threshold at max level")
	}
}

func TestLevelProgress(t *testing.T) {
	cat := testCatalog(t)

	if got := LevelProgress(cat, 250); got != 0.5 {
		t.Errorf("LevelProgress(250) = %v, want 0.5", got)
	}
	if got := LevelProgress(cat, 99999); got != 1 {
		t.Errorf("LevelProgress at max level = %v, want 1", got)
	}
}

func TestPrestigeRank(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		count int
		name  string
	}{
		{0, "Apprentice"},
		{1, "Seeker"},
		{4, "Legend"},
		{5, "Mythic"},
		{12, "Mythic"},
	}
	for _, tt := range tests {
		if got := PrestigeRank(cat, tt.count); got.Name != tt.name {
			t.Errorf("PrestigeRank(%d) = %s, want %s", tt.count, got.Name, tt.name)
		}
	}
}

func TestWeeklyCompletion(t *testing.T) {
	cat := testCatalog(t)
	progress := domain.ChallengeProgress{}

	if got := WeeklyCompletion(cat, progress, nil); got != 0 {
		t.Errorf("empty progress weekly completion = %d, want 0", got)
	}

	// 18 of 36 challenges (levels 1 and 2 fully done).
	for _, id := range []string{"vitality", "stillness", "spark", "motion", "clarity", "forge"} {
		completeNode(t, cat, progress, id)
	}
	if got := WeeklyCompletion(cat, progress, nil); got != 50 {
		t.Errorf("weekly completion = %d, want 50", got)
	}

	for _, n := range cat.Nodes() {
		completeNode(t, cat, progress, n.ID)
	}
	if got := WeeklyCompletion(cat, progress, nil); got != 100 {
		t.Errorf("full tree weekly completion = %d, want 100", got)
	}
}

func TestCompletedCounts(t *testing.T) {
	cat := testCatalog(t)
	progress := domain.ChallengeProgress{}
	completeNode(t, cat, progress, "vitality")
	completeNode(t, cat, progress, "stillness")
	completeNode(t, cat, progress, "spark")
	progress["motion-c1"] = true

	if got := CompletedNodes(cat, progress, nil); got != 3 {
		t.Errorf("CompletedNodes = %d, want 3", got)
	}
	if got := CompletedLevels(cat, progress, nil); got != 1 {
		t.Errorf("CompletedLevels = %d, want 1", got)
	}
	if got := CompletedChallenges(cat, progress, nil); got != 10 {
		t.Errorf("CompletedChallenges = %d, want 10", got)
	}
	if got := TotalChallenges(cat, nil); got != 36 {
		t.Errorf("TotalChallenges = %d, want 36", got)
	}
}
