// Package social implements the friends backend: profile upserts keyed by
// invite code, friend requests, and circle stats. The gameplay core only
// ever talks to it through the narrow sync client; the service here is the
// other side of that contract.
package social

import (
	"time"
)

// User is a profile as known to the social backend.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	InviteCode       string    `json:"invite_code"`
	WeeklyCompletion int       `json:"weekly_completion"`
	IsPro            bool      `json:"is_pro"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FriendRequest is a pending request from one user to another.
type FriendRequest struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// RequestView is a friend request joined with the sender's profile, the
// shape handed to presentation.
type RequestView struct {
	ID             string    `json:"id"`
	FromUserID     string    `json:"from_user_id"`
	FromName       string    `json:"from_name"`
	FromInviteCode string    `json:"from_invite_code"`
	CreatedAt      time.Time `json:"created_at"`
}

// CircleEntry is one row of a user's circle: themselves plus accepted
// friends, ranked by weekly completion.
type CircleEntry struct {
	UserID           string `json:"user_id"`
	Name             string `json:"name"`
	InviteCode       string `json:"invite_code"`
	WeeklyCompletion int    `json:"weekly_completion"`
}

// RequestStatus is the outcome of sending a friend request.
type RequestStatus string

const (
	StatusRequested      RequestStatus = "requested"
	StatusAlreadyFriends RequestStatus = "already_friends"
	StatusAlreadyPending RequestStatus = "already_pending"
)

// Store defines the persistence contract for the social graph.
type Store interface {
	UpsertUser(user *User) error
	GetUser(userID string) (*User, error)
	FindUserByInvite(inviteCode string) (*User, error)
	AddFriendRequest(req *FriendRequest) error
	ListFriendRequests(toUserID string) ([]FriendRequest, error)
	RemoveFriendRequest(requestID string) error
	AddFriendship(a, b string) error
	ListFriends(userID string) ([]string, error)
	AreFriends(a, b string) (bool, error)
}
