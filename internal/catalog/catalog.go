package catalog

import (
	"fmt"
	"sort"

	"github.com/thtnerdboi/arcstep/internal/domain"
)

// Catalog is the fixed, read-only definition of the skill tree: nodes,
// levels, bonus tables, user-level thresholds, and prestige ranks. All
// progression logic reads from a Catalog; nothing ever writes to one.
type Catalog struct {
	nodes      []domain.Node
	nodeByID   map[string]*domain.Node
	levels     []domain.Level
	nodeBonus  map[int]int
	levelBonus map[int]int
	thresholds []int
	ranks      []domain.Rank
}

// Fallback bonuses applied when a level number is missing from the bonus
// tables. A fallback firing means the catalog and tables disagree, so
// lookups report whether the fallback was used.
const (
	FallbackNodeBonus  = 150
	FallbackLevelBonus = 500
)

// Node returns the node with the given id.
func (c *Catalog) Node(id string) (*domain.Node, error) {
	n, ok := c.nodeByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	return n, nil
}

// Nodes returns all nodes in level order.
func (c *Catalog) Nodes() []domain.Node {
	return c.nodes
}

// NodesForLevel returns the nodes belonging to a level.
func (c *Catalog) NodesForLevel(levelNumber int) []domain.Node {
	var out []domain.Node
	for _, n := range c.nodes {
		if n.LevelNumber == levelNumber {
			out = append(out, n)
		}
	}
	return out
}

// Levels returns the level definitions in ascending order.
func (c *Catalog) Levels() []domain.Level {
	return c.levels
}

// MaxLevel returns the highest level number in the tree.
func (c *Catalog) MaxLevel() int {
	if len(c.levels) == 0 {
		return 0
	}
	return c.levels[len(c.levels)-1].Number
}

// NodeBonus returns the node-completion bonus for a level. The second
// return value is false when the table had no entry and the fallback
// constant was applied.
func (c *Catalog) NodeBonus(levelNumber int) (int, bool) {
	if b, ok := c.nodeBonus[levelNumber]; ok {
		return b, true
	}
	return FallbackNodeBonus, false
}

// LevelBonus returns the level-completion bonus for a level. The second
// return value is false when the fallback constant was applied.
func (c *Catalog) LevelBonus(levelNumber int) (int, bool) {
	if b, ok := c.levelBonus[levelNumber]; ok {
		return b, true
	}
	return FallbackLevelBonus, false
}

// Thresholds returns the strictly increasing XP thresholds for user levels.
// Thresholds[0] is always 0.
func (c *Catalog) Thresholds() []int {
	return c.thresholds
}

// Ranks returns the prestige ranks ascending by threshold.
func (c *Catalog) Ranks() []domain.Rank {
	return c.ranks
}

// Validate checks the structural invariants of the catalog: contiguous
// levels starting at 1 with at least one node each, exactly three default
// challenges per node with unique positive-XP entries, and increasing
// user-level thresholds.
func (c *Catalog) Validate() error {
	if len(c.levels) == 0 {
		return fmt.Errorf("%w: no levels", domain.ErrInvalidCatalog)
	}
	for i, l := range c.levels {
		if l.Number != i+1 {
			return fmt.Errorf("%w: level numbers must be contiguous from 1, got %d at position %d", domain.ErrInvalidCatalog, l.Number, i)
		}
		if len(c.NodesForLevel(l.Number)) == 0 {
			return fmt.Errorf("%w: level %d has no nodes", domain.ErrInvalidCatalog, l.Number)
		}
	}

	seen := make(map[string]bool)
	for _, n := range c.nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node with empty id", domain.ErrInvalidCatalog)
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: duplicate node id %q", domain.ErrInvalidCatalog, n.ID)
		}
		seen[n.ID] = true
		if !n.DomainID.Valid() {
			return fmt.Errorf("%w: node %q has unknown domain %q", domain.ErrInvalidCatalog, n.ID, n.DomainID)
		}
		if n.LevelNumber < 1 || n.LevelNumber > len(c.levels) {
			return fmt.Errorf("%w: node %q references level %d", domain.ErrInvalidCatalog, n.ID, n.LevelNumber)
		}
		if len(n.DefaultChallenges) != domain.ChallengeCount {
			return fmt.Errorf("%w: node %q has %d default challenges, want %d", domain.ErrInvalidCatalog, n.ID, len(n.DefaultChallenges), domain.ChallengeCount)
		}
		for _, ch := range n.DefaultChallenges {
			if ch.ID == "" {
				return fmt.Errorf("%w: node %q has challenge with empty id", domain.ErrInvalidCatalog, n.ID)
			}
			if seen[ch.ID] {
				return fmt.Errorf("%w: duplicate challenge id %q", domain.ErrInvalidCatalog, ch.ID)
			}
			seen[ch.ID] = true
			if ch.NodeID != n.ID {
				return fmt.Errorf("%w: challenge %q owned by %q but listed under %q", domain.ErrInvalidCatalog, ch.ID, ch.NodeID, n.ID)
			}
			if ch.XP <= 0 {
				return fmt.Errorf("%w: challenge %q has non-positive xp %d", domain.ErrInvalidCatalog, ch.ID, ch.XP)
			}
		}
	}

	if len(c.thresholds) == 0 || c.thresholds[0] != 0 {
		return fmt.Errorf("%w: user level thresholds must start at 0", domain.ErrInvalidCatalog)
	}
	if !sort.IntsAreSorted(c.thresholds) {
		return fmt.Errorf("%w: user level thresholds must be increasing", domain.ErrInvalidCatalog)
	}
	for i := 1; i < len(c.thresholds); i++ {
		if c.thresholds[i] <= c.thresholds[i-1] {
			return fmt.Errorf("%w: user level thresholds must be strictly increasing", domain.ErrInvalidCatalog)
		}
	}

	if len(c.ranks) == 0 {
		return fmt.Errorf("%w: no prestige ranks", domain.ErrInvalidCatalog)
	}
	for i := 1; i < len(c.ranks); i++ {
		if c.ranks[i].MinPrestige <= c.ranks[i-1].MinPrestige {
			return fmt.Errorf("%w: prestige ranks must be ascending by threshold", domain.ErrInvalidCatalog)
		}
	}

	return nil
}
