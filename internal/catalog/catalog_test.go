package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/thtnerdboi/arcstep/internal/domain"
)

func TestDefault(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}

	if len(cat.Nodes()) != 12 {
		t.Errorf("expected 12 nodes, got %d", len(cat.Nodes()))
	}
	if len(cat.Levels()) != 4 {
		t.Errorf("expected 4 levels, got %d", len(cat.Levels()))
	}
	if cat.MaxLevel() != 4 {
		t.Errorf("MaxLevel = %d, want 4", cat.MaxLevel())
	}

	for _, n := range cat.Nodes() {
		if len(n.DefaultChallenges) != domain.ChallengeCount {
			t.Errorf("node %s has %d challenges", n.ID, len(n.DefaultChallenges))
		}
	}

	if got := len(cat.NodesForLevel(1)); got != 3 {
		t.Errorf("level 1 has %d nodes, want 3", got)
	}
}

func TestNodeLookup(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}

	node, err := cat.Node("vitality")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.LevelNumber != 1 || node.DomainID != domain.DomainBody {
		t.Errorf("unexpected node data: %+v", node)
	}

	if _, err := cat.Node("unknown"); !errors.Is(err, domain.ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestBonusTables(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}

	bonus, found := cat.NodeBonus(1)
	if !found || bonus != 100 {
		t.Errorf("NodeBonus(1) = %d, %v, want 100, true", bonus, found)
	}
	bonus, found = cat.LevelBonus(4)
	if !found || bonus != 1000 {
		t.Errorf("LevelBonus(4) = %d, %v, want 1000, true", bonus, found)
	}

	// Missing entries fall back to documented constants and flag it.
	bonus, found = cat.NodeBonus(9)
	if found || bonus != FallbackNodeBonus {
		t.Errorf("NodeBonus(9) = %d, %v, want fallback %d, false", bonus, found, FallbackNodeBonus)
	}
	bonus, found = cat.LevelBonus(9)
	if found || bonus != FallbackLevelBonus {
		t.Errorf("LevelBonus(9) = %d, %v, want fallback %d, false", bonus, found, FallbackLevelBonus)
	}
}

func TestLoadFile_InvalidCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")

	// A node with only two challenges violates the fixed set size.
	bad := `
levels:
  - { number: 1, title: One, subtitle: "" }
nodes:
  - id: solo
    level_number: 1
    domain_id: mind
    title: Solo
    default_challenges:
      - { id: solo-c1, node_id: solo, title: A, detail: "", xp: 10 }
      - { id: solo-c2, node_id: solo, title: B, detail: "", xp: 10 }
node_completion_xp: { 1: 100 }
level_completion_xp: { 1: 300 }
user_level_thresholds: [0, 500]
prestige_ranks:
  - { name: Apprentice, min_prestige: 0 }
`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
