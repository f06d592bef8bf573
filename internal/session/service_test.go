package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/thtnerdboi/arcstep/internal/catalog"
	"github.com/thtnerdboi/arcstep/internal/domain"
	"github.com/thtnerdboi/arcstep/internal/progress"
	"github.com/thtnerdboi/arcstep/internal/queue"
	"github.com/thtnerdboi/arcstep/internal/social"
)

// memorySnapshotStore implements progress.SnapshotStore in memory
type memorySnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]*progress.Snapshot
	saveErr   error
}

func newMemorySnapshotStore() *memorySnapshotStore {
	return &memorySnapshotStore{snapshots: make(map[string]*progress.Snapshot)}
}

func (m *memorySnapshotStore) Save(snapshot *progress.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snapshots[snapshot.UserID] = snapshot.Clone()
	return nil
}

func (m *memorySnapshotStore) Get(userID string) (*progress.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snapshots[userID]
	if !ok {
		return nil, progress.ErrNotFound
	}
	return snap.Clone(), nil
}

func (m *memorySnapshotStore) GetDefault() (*progress.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snapshots[progress.DefaultUserID]
	if !ok {
		fresh := progress.NewSnapshot()
		fresh.UserID = progress.DefaultUserID
		m.snapshots[progress.DefaultUserID] = fresh.Clone()
		return fresh, nil
	}
	return snap.Clone(), nil
}

func (m *memorySnapshotStore) Delete(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, userID)
	return nil
}

func (m *memorySnapshotStore) List() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.snapshots))
	for id := range m.snapshots {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memorySnapshotStore) Exists(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.snapshots[userID]
	return ok
}

var _ progress.SnapshotStore = (*memorySnapshotStore)(nil)

// mockPublisher records published events
type mockPublisher struct {
	mu     sync.Mutex
	events []*queue.Event
}

func (m *mockPublisher) PublishEvent(ctx context.Context, event *queue.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Type
	}
	return out
}

// mockSyncer records enqueued profiles
type mockSyncer struct {
	mu       sync.Mutex
	profiles []social.User
}

func (m *mockSyncer) Enqueue(user social.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append(m.profiles, user)
}

const testUser = "usr_test"

func setupService(t *testing.T) (*Service, *memorySnapshotStore, *mockPublisher, *mockSyncer) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	store := newMemorySnapshotStore()
	snap := progress.NewSnapshot()
	snap.UserID = testUser
	if err := store.Save(snap); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	publisher := &mockPublisher{}
	syncer := &mockSyncer{}
	return NewService(cat, store, publisher, syncer), store, publisher, syncer
}

func currentSnapshot(t *testing.T, store *memorySnapshotStore) *progress.Snapshot {
	t.Helper()
	snap, err := store.Get(testUser)
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	return snap
}

// completeLevelOne marks every default challenge in level 1 as done,
// except the given held-out challenge ids.
func completeLevelOne(t *testing.T, store *memorySnapshotStore, holdOut ...string) {
	t.Helper()
	held := make(map[string]bool)
	for _, id := range holdOut {
		held[id] = true
	}
	snap := currentSnapshot(t, store)
	for _, node := range []string{"vitality", "stillness", "spark"} {
		for i := 1; i <= 3; i++ {
			id := node + "-c" + string(rune('0'+i))
			if !held[id] {
				snap.ChallengeProgress[id] = true
			}
		}
	}
	if err := store.Save(snap); err != nil {
		t.Fatal(err)
	}
}

func completeTree(t *testing.T, svc *Service, store *memorySnapshotStore) {
	t.Helper()
	snap := currentSnapshot(t, store)
	for _, node := range svc.catalog.Nodes() {
		for _, ch := range node.DefaultChallenges {
			snap.ChallengeProgress[ch.ID] = true
		}
	}
	if err := store.Save(snap); err != nil {
		t.Fatal(err)
	}
}

func TestToggleChallenge_BaseXP(t *testing.T) {
	svc, store, publisher, syncer := setupService(t)

	outcome, err := svc.ToggleChallenge(context.Background(), testUser, "vitality", "vitality-c1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if outcome.XPDelta != 30 {
		t.Errorf("XPDelta = %d, want 30", outcome.XPDelta)
	}
	if outcome.NodeJustCompleted || outcome.LevelJustCompleted {
		t.Error("single challenge should not complete node or level")
	}

	snap := currentSnapshot(t, store)
	if snap.XP != 30 {
		t.Errorf("XP = %d, want 30", snap.XP)
	}
	if !snap.ChallengeProgress.Completed("vitality-c1") {
		t.Error("challenge should be marked completed")
	}

	types := publisher.types()
	if len(types) != 1 || types[0] != queue.EventChallengeToggled {
		t.Errorf("events = %v, want [challenge_toggled]", types)
	}
	if len(syncer.profiles) != 1 {
		t.Fatalf("expected 1 sync enqueue, got %d", len(syncer.profiles))
	}
	if syncer.profiles[0].WeeklyCompletion == 0 {
		t.Error("synced profile should reflect non-zero completion")
	}
}

func TestToggleChallenge_NodeCascade(t *testing.T) {
	svc, store, publisher, _ := setupService(t)
	ctx := context.Background()

	// Two challenges in, the third completes the node: 30 + 100 bonus
	for _, id := range []string{"vitality-c1", "vitality-c2"} {
		if _, err := svc.ToggleChallenge(ctx, testUser, "vitality", id); err != nil {
			t.Fatal(err)
		}
	}
	outcome, err := svc.ToggleChallenge(ctx, testUser, "vitality", "vitality-c3")
	if err != nil {
		t.Fatal(err)
	}

	if outcome.XPDelta != 130 {
		t.Errorf("XPDelta = %d, want 130", outcome.XPDelta)
	}
	if !outcome.NodeJustCompleted {
		t.Error("node should be completed")
	}
	if outcome.LevelJustCompleted {
		t.Error("level should not be completed with two nodes open")
	}

	snap := currentSnapshot(t, store)
	if snap.XP != 190 {
		t.Errorf("XP = %d, want 190", snap.XP)
	}

	types := publisher.types()
	if types[len(types)-1] != queue.EventNodeCompleted {
		t.Errorf("last event = %s, want node_completed", types[len(types)-1])
	}
}

func TestToggleChallenge_LevelCascade(t *testing.T) {
	svc, store, publisher, _ := setupService(t)
	completeLevelOne(t, store, "spark-c3")

	outcome, err := svc.ToggleChallenge(context.Background(), testUser, "spark", "spark-c3")
	if err != nil {
		t.Fatal(err)
	}

	// 30 base + 100 node bonus + 300 level bonus
	if outcome.XPDelta != 430 {
		t.Errorf("XPDelta = %d, want 430", outcome.XPDelta)
	}
	if !outcome.LevelJustCompleted || outcome.CompletedLevelNumber != 1 {
		t.Errorf("level completion = (%v, %d), want (true, 1)", outcome.LevelJustCompleted, outcome.CompletedLevelNumber)
	}

	types := publisher.types()
	want := []string{queue.EventChallengeToggled, queue.EventNodeCompleted, queue.EventLevelCompleted}
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, types[i], want[i])
		}
	}
}

func TestToggleChallenge_UnToggleReversesCascade(t *testing.T) {
	svc, store, _, _ := setupService(t)
	ctx := context.Background()
	completeLevelOne(t, store, "spark-c3")

	if _, err := svc.ToggleChallenge(ctx, testUser, "spark", "spark-c3"); err != nil {
		t.Fatal(err)
	}
	before := currentSnapshot(t, store).XP

	outcome, err := svc.ToggleChallenge(ctx, testUser, "spark", "spark-c3")
	if err != nil {
		t.Fatal(err)
	}
	if outcome.XPDelta != -430 {
		t.Errorf("XPDelta = %d, want -430", outcome.XPDelta)
	}

	snap := currentSnapshot(t, store)
	if snap.XP != before-430 {
		t.Errorf("XP = %d, want %d", snap.XP, before-430)
	}
}

func TestToggleChallenge_ProMultiplier(t *testing.T) {
	svc, store, _, _ := setupService(t)
	ctx := context.Background()

	snap := currentSnapshot(t, store)
	snap.IsPro = true
	if err := store.Save(snap); err != nil {
		t.Fatal(err)
	}

	// Positive deltas are boosted: 30 * 1.5 = 45
	outcome, err := svc.ToggleChallenge(ctx, testUser, "vitality", "vitality-c1")
	if err != nil {
		t.Fatal(err)
	}
	if outcome.XPDelta != 45 {
		t.Errorf("pro XPDelta = %d, want 45", outcome.XPDelta)
	}

	// Negative deltas are not: un-toggling takes back only the base 30
	outcome, err = svc.ToggleChallenge(ctx, testUser, "vitality", "vitality-c1")
	if err != nil {
		t.Fatal(err)
	}
	if outcome.XPDelta != -30 {
		t.Errorf("pro un-toggle XPDelta = %d, want -30", outcome.XPDelta)
	}

	if got := currentSnapshot(t, store).XP; got != 15 {
		t.Errorf("XP after pro toggle cycle = %d, want 15", got)
	}
}

func TestApplyProMultiplier(t *testing.T) {
	tests := []struct {
		name  string
		delta int
		isPro bool
		want  int
	}{
		{"non-pro unchanged", 30, false, 30},
		{"pro positive boosted", 30, true, 45},
		{"pro rounds half up", 75, true, 113},
		{"pro negative unchanged", -30, true, -30},
		{"pro zero unchanged", 0, true, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := applyProMultiplier(tc.delta, tc.isPro); got != tc.want {
				t.Errorf("applyProMultiplier(%d, %v) = %d, want %d", tc.delta, tc.isPro, got, tc.want)
			}
		})
	}
}

func TestToggleChallenge_XPFloor(t *testing.T) {
	svc, store, _, _ := setupService(t)

	// Completed challenge on record but zero cumulative XP
	snap := currentSnapshot(t, store)
	snap.ChallengeProgress["vitality-c1"] = true
	snap.XP = 0
	if err := store.Save(snap); err != nil {
		t.Fatal(err)
	}

	outcome, err := svc.ToggleChallenge(context.Background(), testUser, "vitality", "vitality-c1")
	if err != nil {
		t.Fatal(err)
	}
	if outcome.XPDelta != -30 {
		t.Errorf("XPDelta = %d, want -30", outcome.XPDelta)
	}
	if got := currentSnapshot(t, store).XP; got != 0 {
		t.Errorf("XP = %d, want floor at 0", got)
	}
}

func TestToggleChallenge_IdempotentForNonPro(t *testing.T) {
	svc, store, _, _ := setupService(t)
	ctx := context.Background()
	completeLevelOne(t, store, "spark-c3")
	before := currentSnapshot(t, store)

	if _, err := svc.ToggleChallenge(ctx, testUser, "spark", "spark-c3"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ToggleChallenge(ctx, testUser, "spark", "spark-c3"); err != nil {
		t.Fatal(err)
	}

	after := currentSnapshot(t, store)
	if after.XP != before.XP {
		t.Errorf("XP drifted: %d -> %d", before.XP, after.XP)
	}
	if after.ChallengeProgress.Completed("spark-c3") {
		t.Error("challenge should be back to incomplete")
	}
}

func TestToggleChallenge_LockedLevel(t *testing.T) {
	svc, _, _, _ := setupService(t)

	_, err := svc.ToggleChallenge(context.Background(), testUser, "motion", "motion-c1")
	if !errors.Is(err, domain.ErrLevelLocked) {
		t.Errorf("expected ErrLevelLocked, got %v", err)
	}
}

func TestToggleChallenge_UnknownIDs(t *testing.T) {
	svc, _, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.ToggleChallenge(ctx, testUser, "nope", "x"); !errors.Is(err, domain.ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
	if _, err := svc.ToggleChallenge(ctx, testUser, "vitality", "nope"); !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Errorf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestCompleteOnboarding(t *testing.T) {
	svc, store, publisher, _ := setupService(t)
	answers := domain.OnboardingAnswers{Body: "run a 5k", Mind: "meditate daily", Craft: "ship a side project"}
	generated := domain.AIChallenges{
		"vitality": {
			{ID: "gen-1", NodeID: "vitality", Title: "Morning walk", XP: 30},
			{ID: "gen-2", NodeID: "vitality", Title: "Stretch", XP: 30},
			{ID: "gen-3", NodeID: "vitality", Title: "Early night", XP: 30},
		},
	}

	snap, err := svc.CompleteOnboarding(context.Background(), testUser, answers, generated)
	if err != nil {
		t.Fatalf("complete onboarding: %v", err)
	}

	if !snap.OnboardingComplete {
		t.Error("onboarding should be complete")
	}
	if snap.XP != 0 {
		t.Errorf("onboarding granted XP: %d", snap.XP)
	}
	if len(snap.AIChallenges["vitality"]) != 3 {
		t.Errorf("generated challenges not applied: %v", snap.AIChallenges)
	}
	if snap.LastGeneratedAt["vitality"].IsZero() {
		t.Error("generation timestamp should be recorded")
	}

	stored := currentSnapshot(t, store)
	if !stored.OnboardingComplete {
		t.Error("onboarding completion not persisted")
	}

	types := publisher.types()
	if len(types) != 1 || types[0] != queue.EventOnboardingCompleted {
		t.Errorf("events = %v, want [onboarding_completed]", types)
	}
}

func TestCompleteOnboarding_RequiresAllAnswers(t *testing.T) {
	svc, _, _, _ := setupService(t)

	_, err := svc.CompleteOnboarding(context.Background(), testUser, domain.OnboardingAnswers{Body: "only one"}, nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSetAIChallenges_ResetsNodeCompletion(t *testing.T) {
	svc, store, _, _ := setupService(t)
	ctx := context.Background()

	snap := currentSnapshot(t, store)
	for _, id := range []string{"vitality-c1", "vitality-c2", "vitality-c3"} {
		snap.ChallengeProgress[id] = true
	}
	snap.XP = 190
	if err := store.Save(snap); err != nil {
		t.Fatal(err)
	}

	replaced := []domain.Challenge{
		{ID: "gen-1", NodeID: "vitality", Title: "New", XP: 30},
		{ID: "gen-2", NodeID: "vitality", Title: "New", XP: 30},
		{ID: "gen-3", NodeID: "vitality", Title: "New", XP: 30},
	}
	if _, err := svc.SetAIChallenges(ctx, testUser, "vitality", replaced); err != nil {
		t.Fatal(err)
	}

	complete, err := svc.NodeComplete(testUser, "vitality")
	if err != nil {
		t.Fatal(err)
	}
	if complete {
		t.Error("replacing the challenge set should reset node completion")
	}
	// Earned XP is never clawed back by regeneration
	if got := currentSnapshot(t, store).XP; got != 190 {
		t.Errorf("XP = %d, want 190", got)
	}
}

func TestSetAIChallenges_Validation(t *testing.T) {
	svc, _, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.SetAIChallenges(ctx, testUser, "vitality", nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty set, got %v", err)
	}
	set := []domain.Challenge{{ID: "gen-1", XP: 30}}
	if _, err := svc.SetAIChallenges(ctx, testUser, "nope", set); !errors.Is(err, domain.ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestTriggerPrestige_NotEligible(t *testing.T) {
	svc, store, _, _ := setupService(t)
	ctx := context.Background()

	// Incomplete tree
	if _, err := svc.TriggerPrestige(ctx, testUser); !errors.Is(err, domain.ErrNotEligible) {
		t.Errorf("expected ErrNotEligible for incomplete tree, got %v", err)
	}

	// Complete tree but onboarding never finished
	completeTree(t, svc, store)
	if _, err := svc.TriggerPrestige(ctx, testUser); !errors.Is(err, domain.ErrNotEligible) {
		t.Errorf("expected ErrNotEligible without onboarding, got %v", err)
	}
}

func TestTriggerPrestige_ResetsTreeKeepsXP(t *testing.T) {
	svc, store, publisher, _ := setupService(t)
	ctx := context.Background()

	snap := currentSnapshot(t, store)
	snap.OnboardingComplete = true
	snap.PrestigeDismissed = true
	snap.XP = 4200
	if err := store.Save(snap); err != nil {
		t.Fatal(err)
	}
	completeTree(t, svc, store)

	next, err := svc.TriggerPrestige(ctx, testUser)
	if err != nil {
		t.Fatalf("trigger prestige: %v", err)
	}

	if next.PrestigeCount != 1 {
		t.Errorf("PrestigeCount = %d, want 1", next.PrestigeCount)
	}
	if next.XP != 4200 {
		t.Errorf("XP = %d, want 4200 preserved", next.XP)
	}
	if len(next.ChallengeProgress) != 0 || len(next.AIChallenges) != 0 {
		t.Error("progress and generated challenges should be cleared")
	}
	if next.PrestigeDismissed {
		t.Error("dismissal should be cleared by the new cycle")
	}

	types := publisher.types()
	if types[len(types)-1] != queue.EventPrestigeTriggered {
		t.Errorf("last event = %s, want prestige_triggered", types[len(types)-1])
	}
}

func TestPrestigeReady_Dismissal(t *testing.T) {
	svc, store, _, _ := setupService(t)
	ctx := context.Background()

	snap := currentSnapshot(t, store)
	snap.OnboardingComplete = true
	if err := store.Save(snap); err != nil {
		t.Fatal(err)
	}
	completeTree(t, svc, store)

	ready, err := svc.PrestigeReady(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if !ready {
		t.Fatal("complete tree after onboarding should be prestige-ready")
	}

	if err := svc.DismissPrestige(ctx, testUser); err != nil {
		t.Fatal(err)
	}
	ready, err = svc.PrestigeReady(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if ready {
		t.Error("dismissal should hide the prompt")
	}

	// Prestige itself is still allowed after dismissal
	if _, err := svc.TriggerPrestige(ctx, testUser); err != nil {
		t.Errorf("prestige after dismissal: %v", err)
	}
}

func TestAddBonusXP(t *testing.T) {
	svc, store, publisher, _ := setupService(t)
	ctx := context.Background()

	// Pro multiplier never applies to bonus grants
	snap := currentSnapshot(t, store)
	snap.IsPro = true
	if err := store.Save(snap); err != nil {
		t.Fatal(err)
	}

	next, err := svc.AddBonusXP(ctx, testUser, 250, "weekly streak")
	if err != nil {
		t.Fatal(err)
	}
	if next.XP != 250 {
		t.Errorf("XP = %d, want 250", next.XP)
	}

	// Negative grants floor at zero
	next, err = svc.AddBonusXP(ctx, testUser, -1000, "correction")
	if err != nil {
		t.Fatal(err)
	}
	if next.XP != 0 {
		t.Errorf("XP = %d, want floor at 0", next.XP)
	}

	types := publisher.types()
	if len(types) != 2 || types[0] != queue.EventBonusXPGranted {
		t.Errorf("events = %v, want two bonus_xp_granted", types)
	}
}

func TestSetProStatus(t *testing.T) {
	svc, store, publisher, _ := setupService(t)
	ctx := context.Background()

	if err := svc.SetProStatus(ctx, testUser, true); err != nil {
		t.Fatal(err)
	}
	if !currentSnapshot(t, store).IsPro {
		t.Error("pro flag should be set")
	}

	// Unchanged flag is a no-op, no second event
	if err := svc.SetProStatus(ctx, testUser, true); err != nil {
		t.Fatal(err)
	}
	types := publisher.types()
	if len(types) != 1 || types[0] != queue.EventProStatusChanged {
		t.Errorf("events = %v, want single pro_status_changed", types)
	}
}

func TestUpdateDisplayName(t *testing.T) {
	svc, store, _, _ := setupService(t)
	ctx := context.Background()

	if err := svc.UpdateDisplayName(ctx, testUser, "  Riley  "); err != nil {
		t.Fatal(err)
	}
	if got := currentSnapshot(t, store).DisplayName; got != "Riley" {
		t.Errorf("DisplayName = %q, want trimmed %q", got, "Riley")
	}

	if err := svc.UpdateDisplayName(ctx, testUser, "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank name, got %v", err)
	}
}

func TestRegenerateInviteCode(t *testing.T) {
	svc, store, _, syncer := setupService(t)

	before := currentSnapshot(t, store).InviteCode
	code, err := svc.RegenerateInviteCode(context.Background(), testUser)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(code, "ARC-") || len(code) != 10 {
		t.Errorf("invite code %q has wrong shape", code)
	}
	if code == before {
		t.Error("invite code should change")
	}
	if got := currentSnapshot(t, store).InviteCode; got != code {
		t.Errorf("persisted code = %q, want %q", got, code)
	}
	if len(syncer.profiles) == 0 || syncer.profiles[len(syncer.profiles)-1].InviteCode != code {
		t.Error("new code should be pushed to the syncer")
	}
}

func TestOverview(t *testing.T) {
	svc, store, _, _ := setupService(t)
	ctx := context.Background()

	snap := currentSnapshot(t, store)
	snap.DisplayName = "Riley"
	snap.XP = 750
	if err := store.Save(snap); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ToggleChallenge(ctx, testUser, "vitality", "vitality-c1"); err != nil {
		t.Fatal(err)
	}

	overview, err := svc.Overview(testUser)
	if err != nil {
		t.Fatal(err)
	}

	if overview.XP != 780 {
		t.Errorf("XP = %d, want 780", overview.XP)
	}
	if overview.UserLevel != 2 {
		t.Errorf("UserLevel = %d, want 2", overview.UserLevel)
	}
	if overview.CompletedChallenges != 1 {
		t.Errorf("CompletedChallenges = %d, want 1", overview.CompletedChallenges)
	}
	if overview.TotalChallenges != 36 {
		t.Errorf("TotalChallenges = %d, want 36", overview.TotalChallenges)
	}
	if overview.PrestigeRank != "Apprentice" {
		t.Errorf("PrestigeRank = %q, want Apprentice", overview.PrestigeRank)
	}
	if overview.MaxLevel {
		t.Error("should not be max level at 780 XP")
	}
	if overview.PrestigeReady {
		t.Error("fresh tree should not be prestige-ready")
	}
}
