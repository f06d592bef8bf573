package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/thtnerdboi/arcstep/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// catalogFile represents the YAML structure for a catalog definition
type catalogFile struct {
	Levels              []domain.Level `yaml:"levels"`
	Nodes               []domain.Node  `yaml:"nodes"`
	NodeCompletionXP    map[int]int    `yaml:"node_completion_xp"`
	LevelCompletionXP   map[int]int    `yaml:"level_completion_xp"`
	UserLevelThresholds []int          `yaml:"user_level_thresholds"`
	PrestigeRanks       []domain.Rank  `yaml:"prestige_ranks"`
}

// Default returns the embedded catalog shipped with the binary.
func Default() (*Catalog, error) {
	return parse(defaultCatalogYAML)
}

// LoadFile loads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		nodes:      file.Nodes,
		nodeByID:   make(map[string]*domain.Node, len(file.Nodes)),
		levels:     file.Levels,
		nodeBonus:  file.NodeCompletionXP,
		levelBonus: file.LevelCompletionXP,
		thresholds: file.UserLevelThresholds,
		ranks:      file.PrestigeRanks,
	}

	sort.Slice(c.levels, func(i, j int) bool { return c.levels[i].Number < c.levels[j].Number })
	sort.SliceStable(c.nodes, func(i, j int) bool { return c.nodes[i].LevelNumber < c.nodes[j].LevelNumber })
	sort.Slice(c.ranks, func(i, j int) bool { return c.ranks[i].MinPrestige < c.ranks[j].MinPrestige })

	for i := range c.nodes {
		c.nodeByID[c.nodes[i].ID] = &c.nodes[i]
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}
