package domain

// DomainID identifies one of the three skill domains in the tree.
type DomainID string

const (
	DomainMind  DomainID = "mind"
	DomainBody  DomainID = "body"
	DomainCraft DomainID = "craft"
)

// Valid reports whether the domain id is one of the known domains.
func (d DomainID) Valid() bool {
	switch d {
	case DomainMind, DomainBody, DomainCraft:
		return true
	}
	return false
}

// Challenge is a single completable task worth a fixed amount of XP.
// Challenges come from the static catalog or from AI generation; once
// created they are immutable.
type Challenge struct {
	ID     string `json:"id" yaml:"id"`
	NodeID string `json:"node_id" yaml:"node_id"`
	Title  string `json:"title" yaml:"title"`
	Detail string `json:"detail" yaml:"detail"`
	XP     int    `json:"xp" yaml:"xp"`
}

// Node is a named skill unit containing exactly three default challenges.
// Nodes are static catalog entities and belong to exactly one level.
type Node struct {
	ID                string      `json:"id" yaml:"id"`
	LevelNumber       int         `json:"level_number" yaml:"level_number"`
	DomainID          DomainID    `json:"domain_id" yaml:"domain_id"`
	Title             string      `json:"title" yaml:"title"`
	Description       string      `json:"description" yaml:"description"`
	GoalPrompt        string      `json:"goal_prompt" yaml:"goal_prompt"`
	DefaultChallenges []Challenge `json:"default_challenges" yaml:"default_challenges"`
}

// Level groups the nodes that share a level number. Level numbers are
// contiguous starting at 1.
type Level struct {
	Number   int    `json:"number" yaml:"number"`
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
}

// ChallengeCount is the fixed size of a node's challenge set. AI-generated
// sets replace the defaults wholesale and have the same size.
const ChallengeCount = 3
