package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thtnerdboi/arcstep/internal/catalog"
	"github.com/thtnerdboi/arcstep/internal/domain"
)

// DefaultChallengeXP is the XP assigned to a generated challenge when the
// node's defaults carry no value at that position.
const DefaultChallengeXP = 30

const systemPrompt = `You are a habit coach who designs small, concrete daily challenges.
Respond with a JSON array only, no prose and no code fences.`

// Service generates challenge sets and enforces the per-node regeneration
// cooldown. It never touches snapshots; the caller applies the returned set.
type Service struct {
	catalog  *catalog.Catalog
	registry *Registry
	cooldown time.Duration
}

// NewService creates a new generation service. A zero cooldown disables
// regeneration throttling.
func NewService(cat *catalog.Catalog, registry *Registry, cooldown time.Duration) *Service {
	return &Service{
		catalog:  cat,
		registry: registry,
		cooldown: cooldown,
	}
}

// GenerateNode produces a fresh challenge set for one node, personalized to
// the user's goal. lastGeneratedAt gates the cooldown; pass the zero time to
// skip it (first-time generation during onboarding).
func (s *Service) GenerateNode(ctx context.Context, nodeID, goal string, lastGeneratedAt time.Time) ([]domain.Challenge, error) {
	node, err := s.catalog.Node(nodeID)
	if err != nil {
		return nil, err
	}

	if s.cooldown > 0 && !lastGeneratedAt.IsZero() {
		if elapsed := time.Since(lastGeneratedAt); elapsed < s.cooldown {
			remaining := (s.cooldown - elapsed).Round(time.Second)
			return nil, fmt.Errorf("%w: retry in %s", domain.ErrGenerationCooldown, remaining)
		}
	}

	provider, err := s.registry.Default()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	resp, err := provider.Generate(ctx, &Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(node, goal),
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: provider %s: %v", domain.ErrGenerationFailed, provider.Name(), err)
	}

	challenges, err := parseChallenges(resp.Content, node)
	if err != nil {
		return nil, err
	}

	slog.Info("challenges generated",
		"node_id", nodeID,
		"provider", provider.Name(),
		"output_tokens", resp.Usage.OutputTokens,
	)
	return challenges, nil
}

// GenerateAll produces sets for every node in the catalog in one pass, for
// onboarding. Any single failure fails the whole batch; partial trees are
// never returned.
func (s *Service) GenerateAll(ctx context.Context, answers domain.OnboardingAnswers) (domain.AIChallenges, error) {
	all := make(domain.AIChallenges)
	for _, node := range s.catalog.Nodes() {
		goal := answers.Goal(node.DomainID)
		set, err := s.GenerateNode(ctx, node.ID, goal, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.ID, err)
		}
		all[node.ID] = set
	}
	return all, nil
}

// Cooldown returns the configured regeneration cooldown.
func (s *Service) Cooldown() time.Duration {
	return s.cooldown
}

func buildPrompt(node *domain.Node, goal string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Skill: %s (%s domain)\n", node.Title, node.DomainID)
	if node.Description != "" {
		fmt.Fprintf(&b, "About: %s\n", node.Description)
	}
	if node.GoalPrompt != "" {
		fmt.Fprintf(&b, "Focus: %s\n", node.GoalPrompt)
	}
	if goal != "" {
		fmt.Fprintf(&b, "The user's stated goal: %s\n", goal)
	}
	fmt.Fprintf(&b, "\nDesign exactly %d challenges that build toward this skill. ", domain.ChallengeCount)
	b.WriteString(`Each challenge must be completable in a single day.
Return a JSON array of exactly this shape:
[{"title": "...", "detail": "..."}]`)
	return b.String()
}

type generatedChallenge struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// parseChallenges strictly parses the model output. Anything other than a
// JSON array of exactly ChallengeCount well-formed entries fails with
// ErrGenerationFailed, which the caller treats as retryable.
func parseChallenges(content string, node *domain.Node) ([]domain.Challenge, error) {
	raw := stripFences(content)

	var parsed []generatedChallenge
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed output: %v", domain.ErrGenerationFailed, err)
	}
	if len(parsed) != domain.ChallengeCount {
		return nil, fmt.Errorf("%w: expected %d challenges, got %d", domain.ErrGenerationFailed, domain.ChallengeCount, len(parsed))
	}

	challenges := make([]domain.Challenge, 0, len(parsed))
	for i, gc := range parsed {
		if strings.TrimSpace(gc.Title) == "" {
			return nil, fmt.Errorf("%w: challenge %d has no title", domain.ErrGenerationFailed, i)
		}
		xp := DefaultChallengeXP
		if i < len(node.DefaultChallenges) && node.DefaultChallenges[i].XP > 0 {
			xp = node.DefaultChallenges[i].XP
		}
		challenges = append(challenges, domain.Challenge{
			ID:     "gen_" + uuid.New().String(),
			NodeID: node.ID,
			Title:  strings.TrimSpace(gc.Title),
			Detail: strings.TrimSpace(gc.Detail),
			XP:     xp,
		})
	}
	return challenges, nil
}

// stripFences removes a surrounding markdown code fence, which some models
// add despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
