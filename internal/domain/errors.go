package domain

import "errors"

// -----------------------------------------------------------------------------
// Domain Errors
// These errors represent domain-level failures and are used by stores and
// services to communicate domain-specific error conditions.
// -----------------------------------------------------------------------------

// Catalog errors
var (
	ErrNodeNotFound      = errors.New("node not found")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrInvalidCatalog    = errors.New("invalid catalog")
)

// Snapshot errors
var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Progression errors
var (
	ErrNotEligible          = errors.New("prestige not eligible")
	ErrOnboardingIncomplete = errors.New("onboarding not complete")
	ErrLevelLocked          = errors.New("level is locked")
)

// Generation errors
var (
	ErrGenerationFailed   = errors.New("challenge generation failed")
	ErrGenerationCooldown = errors.New("challenge generation cooldown active")
)

// Social errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInviteCodeTaken   = errors.New("invite code already in use")
	ErrSelfFriendRequest = errors.New("cannot send friend request to self")
	ErrRequestNotFound   = errors.New("friend request not found")
)

// General errors
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)
