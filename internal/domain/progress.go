package domain

// ChallengeProgress maps challenge id to completion. Keys accumulate over
// time; a missing key means not completed.
type ChallengeProgress map[string]bool

// Completed reports whether a challenge has a true entry.
func (p ChallengeProgress) Completed(challengeID string) bool {
	return p[challengeID]
}

// Clone returns a deep copy. Mutations never share map storage between
// snapshots.
func (p ChallengeProgress) Clone() ChallengeProgress {
	cp := make(ChallengeProgress, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}

// AIChallenges maps node id to a generated challenge set. Presence of a
// non-empty entry overrides the node's catalog defaults wholesale; sets
// are never merged.
type AIChallenges map[string][]Challenge

// Clone returns a deep copy.
func (a AIChallenges) Clone() AIChallenges {
	cp := make(AIChallenges, len(a))
	for k, v := range a {
		set := make([]Challenge, len(v))
		copy(set, v)
		cp[k] = set
	}
	return cp
}
