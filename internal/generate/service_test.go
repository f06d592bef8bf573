package generate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/thtnerdboi/arcstep/internal/catalog"
	"github.com/thtnerdboi/arcstep/internal/domain"
)

const validOutput = `[
	{"title": "Walk 20 minutes", "detail": "Before breakfast."},
	{"title": "Drink 2L of water", "detail": "Spread over the day."},
	{"title": "Lights out by 23:00", "detail": "No screens after 22:30."}
]`

// mockProvider implements Provider with canned responses
type mockProvider struct {
	name     string
	content  string
	err      error
	failOn   int // fail on the Nth call (1-based), 0 = never
	requests []*Request
}

func (m *mockProvider) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *mockProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if m.failOn > 0 && len(m.requests) == m.failOn {
		return nil, errors.New("provider blew up")
	}
	return &Response{Content: m.content, FinishReason: "stop"}, nil
}

func setupGeneration(t *testing.T, provider *mockProvider, cooldown time.Duration) *Service {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	registry := NewRegistry()
	registry.Register(provider.Name(), provider)
	return NewService(cat, registry, cooldown)
}

func TestGenerateNode_AssignsIDsAndXP(t *testing.T) {
	provider := &mockProvider{content: validOutput}
	svc := setupGeneration(t, provider, 0)

	challenges, err := svc.GenerateNode(context.Background(), "vitality", "run a 5k", time.Time{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(challenges) != domain.ChallengeCount {
		t.Fatalf("expected %d challenges, got %d", domain.ChallengeCount, len(challenges))
	}
	seen := make(map[string]bool)
	for i, ch := range challenges {
		if !strings.HasPrefix(ch.ID, "gen_") {
			t.Errorf("challenge %d id %q missing gen_ prefix", i, ch.ID)
		}
		if seen[ch.ID] {
			t.Errorf("duplicate challenge id %q", ch.ID)
		}
		seen[ch.ID] = true
		if ch.NodeID != "vitality" {
			t.Errorf("challenge %d NodeID = %q, want vitality", i, ch.NodeID)
		}
		if ch.XP != 30 {
			t.Errorf("challenge %d XP = %d, want positional default 30", i, ch.XP)
		}
	}
	if challenges[0].Title != "Walk 20 minutes" {
		t.Errorf("Title = %q", challenges[0].Title)
	}
}

func TestGenerateNode_HigherLevelXP(t *testing.T) {
	provider := &mockProvider{content: validOutput}
	svc := setupGeneration(t, provider, 0)

	// Level 4 node defaults carry 75 XP per challenge
	challenges, err := svc.GenerateNode(context.Background(), "peak", "", time.Time{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i, ch := range challenges {
		if ch.XP != 75 {
			t.Errorf("challenge %d XP = %d, want 75", i, ch.XP)
		}
	}
}

func TestGenerateNode_PromptIncludesGoal(t *testing.T) {
	provider := &mockProvider{content: validOutput}
	svc := setupGeneration(t, provider, 0)

	if _, err := svc.GenerateNode(context.Background(), "vitality", "run a marathon", time.Time{}); err != nil {
		t.Fatal(err)
	}

	if len(provider.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(provider.requests))
	}
	prompt := provider.requests[0].Prompt
	if !strings.Contains(prompt, "run a marathon") {
		t.Errorf("prompt should include the user goal, got:\n%s", prompt)
	}
	if provider.requests[0].System == "" {
		t.Error("system prompt should be set")
	}
}

func TestGenerateNode_StripsCodeFences(t *testing.T) {
	provider := &mockProvider{content: "```json\n" + validOutput + "\n```"}
	svc := setupGeneration(t, provider, 0)

	challenges, err := svc.GenerateNode(context.Background(), "vitality", "", time.Time{})
	if err != nil {
		t.Fatalf("fenced output should still parse: %v", err)
	}
	if len(challenges) != 3 {
		t.Errorf("expected 3 challenges, got %d", len(challenges))
	}
}

func TestGenerateNode_MalformedOutput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"prose", "Here are your challenges: 1. Walk ..."},
		{"object not array", `{"title": "Walk"}`},
		{"too few", `[{"title": "Walk", "detail": ""}]`},
		{"too many", `[{"title":"a"},{"title":"b"},{"title":"c"},{"title":"d"}]`},
		{"blank title", `[{"title":"a"},{"title":"  "},{"title":"c"}]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := &mockProvider{content: tc.content}
			svc := setupGeneration(t, provider, 0)

			_, err := svc.GenerateNode(context.Background(), "vitality", "", time.Time{})
			if !errors.Is(err, domain.ErrGenerationFailed) {
				t.Errorf("expected ErrGenerationFailed, got %v", err)
			}
		})
	}
}

func TestGenerateNode_ProviderError(t *testing.T) {
	provider := &mockProvider{err: errors.New("connection refused")}
	svc := setupGeneration(t, provider, 0)

	_, err := svc.GenerateNode(context.Background(), "vitality", "", time.Time{})
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerateNode_UnknownNode(t *testing.T) {
	provider := &mockProvider{content: validOutput}
	svc := setupGeneration(t, provider, 0)

	_, err := svc.GenerateNode(context.Background(), "nope", "", time.Time{})
	if !errors.Is(err, domain.ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestGenerateNode_Cooldown(t *testing.T) {
	provider := &mockProvider{content: validOutput}
	svc := setupGeneration(t, provider, 30*time.Minute)

	// Recent generation blocks
	_, err := svc.GenerateNode(context.Background(), "vitality", "", time.Now().Add(-time.Minute))
	if !errors.Is(err, domain.ErrGenerationCooldown) {
		t.Errorf("expected ErrGenerationCooldown, got %v", err)
	}
	if len(provider.requests) != 0 {
		t.Error("cooldown rejection must not reach the provider")
	}

	// Expired cooldown allows regeneration
	if _, err := svc.GenerateNode(context.Background(), "vitality", "", time.Now().Add(-time.Hour)); err != nil {
		t.Errorf("expired cooldown should allow generation: %v", err)
	}

	// The zero time always skips the gate
	if _, err := svc.GenerateNode(context.Background(), "vitality", "", time.Time{}); err != nil {
		t.Errorf("zero time should skip cooldown: %v", err)
	}
}

func TestGenerateAll_CoversEveryNode(t *testing.T) {
	provider := &mockProvider{content: validOutput}
	svc := setupGeneration(t, provider, 30*time.Minute)
	answers := domain.OnboardingAnswers{Body: "get fit", Mind: "focus", Craft: "ship"}

	all, err := svc.GenerateAll(context.Background(), answers)
	if err != nil {
		t.Fatalf("generate all: %v", err)
	}

	if len(all) != 12 {
		t.Fatalf("expected sets for 12 nodes, got %d", len(all))
	}
	for nodeID, set := range all {
		if len(set) != domain.ChallengeCount {
			t.Errorf("node %s has %d challenges", nodeID, len(set))
		}
	}
}

func TestGenerateAll_AllOrNothing(t *testing.T) {
	provider := &mockProvider{content: validOutput, failOn: 5}
	svc := setupGeneration(t, provider, 0)
	answers := domain.OnboardingAnswers{Body: "a", Mind: "b", Craft: "c"}

	all, err := svc.GenerateAll(context.Background(), answers)
	if err == nil {
		t.Fatal("expected error from failing provider")
	}
	if all != nil {
		t.Errorf("partial result returned: %v", all)
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	claude := &mockProvider{name: "claude", content: validOutput}
	ollama := &mockProvider{name: "ollama", content: validOutput}
	registry.Register("claude", claude)
	registry.Register("ollama", ollama)

	if err := registry.SetDefault("claude"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	p, err := registry.Default()
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "claude" {
		t.Errorf("default = %s, want claude", p.Name())
	}

	if _, err := registry.Get("nope"); !errors.Is(err, ErrProviderNotFound) {
		t.Errorf("expected ErrProviderNotFound, got %v", err)
	}
	if err := registry.SetDefault("nope"); !errors.Is(err, ErrProviderNotFound) {
		t.Errorf("expected ErrProviderNotFound, got %v", err)
	}

	if got := len(registry.List()); got != 2 {
		t.Errorf("List() returned %d providers, want 2", got)
	}
}

func TestRegistry_Empty(t *testing.T) {
	registry := NewRegistry()
	if _, err := registry.Default(); !errors.Is(err, ErrNoDefaultProvider) {
		t.Errorf("expected ErrNoDefaultProvider, got %v", err)
	}
}
