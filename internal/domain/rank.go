package domain

// Rank is a named prestige tier. Ranks are ordered by the minimum number
// of prestige cycles required to hold them.
type Rank struct {
	Name        string `json:"name" yaml:"name"`
	MinPrestige int    `json:"min_prestige" yaml:"min_prestige"`
}

// OnboardingAnswers holds the free-form goal a user stated for each domain
// during onboarding. The answers seed AI challenge generation.
type OnboardingAnswers struct {
	Body  string `json:"body"`
	Mind  string `json:"mind"`
	Craft string `json:"craft"`
}

// Goal returns the answer for a domain, or empty if none was given.
func (a OnboardingAnswers) Goal(d DomainID) string {
	switch d {
	case DomainBody:
		return a.Body
	case DomainMind:
		return a.Mind
	case DomainCraft:
		return a.Craft
	}
	return ""
}

// Friend is a connected user as mirrored from the social backend.
type Friend struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	InviteCode       string `json:"invite_code"`
	WeeklyCompletion int    `json:"weekly_completion"`
}
