package social

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/thtnerdboi/arcstep/internal/domain"
)

// Service handles social business logic on top of a Store.
type Service struct {
	store Store
}

// NewService creates a new social service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// UpsertProfile creates or refreshes a user profile. An invite code held
// by a different user is rejected with ErrInviteCodeTaken so the caller
// can mint a fresh code and retry.
func (s *Service) UpsertProfile(ctx context.Context, user *User) error {
	existing, err := s.store.FindUserByInvite(user.InviteCode)
	if err != nil && err != domain.ErrUserNotFound {
		return fmt.Errorf("check invite code: %w", err)
	}
	if existing != nil && existing.ID != user.ID {
		return fmt.Errorf("%w: %s", domain.ErrInviteCodeTaken, user.InviteCode)
	}

	user.WeeklyCompletion = clampPercent(user.WeeklyCompletion)
	user.UpdatedAt = time.Now()
	if err := s.store.UpsertUser(user); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	slog.Debug("profile upserted", "user_id", user.ID, "weekly_completion", user.WeeklyCompletion)
	return nil
}

// SendFriendRequest creates a pending request addressed by invite code.
func (s *Service) SendFriendRequest(ctx context.Context, fromUserID, toInviteCode string) (RequestStatus, error) {
	toUser, err := s.store.FindUserByInvite(toInviteCode)
	if err != nil {
		return "", fmt.Errorf("find invite code %s: %w", toInviteCode, err)
	}
	if toUser.ID == fromUserID {
		return "", domain.ErrSelfFriendRequest
	}

	friends, err := s.store.AreFriends(fromUserID, toUser.ID)
	if err != nil {
		return "", fmt.Errorf("check friendship: %w", err)
	}
	if friends {
		return StatusAlreadyFriends, nil
	}

	pending, err := s.store.ListFriendRequests(toUser.ID)
	if err != nil {
		return "", fmt.Errorf("list requests: %w", err)
	}
	for _, req := range pending {
		if req.FromUserID == fromUserID {
			return StatusAlreadyPending, nil
		}
	}

	req := &FriendRequest{
		ID:         "req_" + uuid.New().String(),
		FromUserID: fromUserID,
		ToUserID:   toUser.ID,
		CreatedAt:  time.Now(),
	}
	if err := s.store.AddFriendRequest(req); err != nil {
		return "", fmt.Errorf("add request: %w", err)
	}

	slog.Info("friend request sent", "from", fromUserID, "to", toUser.ID)
	return StatusRequested, nil
}

// ListRequests returns the pending requests addressed to a user, joined
// with the senders' profiles.
func (s *Service) ListRequests(ctx context.Context, userID string) ([]RequestView, error) {
	requests, err := s.store.ListFriendRequests(userID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	views := make([]RequestView, 0, len(requests))
	for _, req := range requests {
		view := RequestView{
			ID:         req.ID,
			FromUserID: req.FromUserID,
			CreatedAt:  req.CreatedAt,
		}
		if from, err := s.store.GetUser(req.FromUserID); err == nil {
			view.FromName = from.Name
			view.FromInviteCode = from.InviteCode
		} else {
			view.FromName = "Unknown"
		}
		views = append(views, view)
	}
	return views, nil
}

// AcceptFriendRequest turns a pending request into a mutual friendship.
func (s *Service) AcceptFriendRequest(ctx context.Context, userID, requestID string) error {
	requests, err := s.store.ListFriendRequests(userID)
	if err != nil {
		return fmt.Errorf("list requests: %w", err)
	}

	for _, req := range requests {
		if req.ID != requestID {
			continue
		}
		if err := s.store.AddFriendship(req.FromUserID, req.ToUserID); err != nil {
			return fmt.Errorf("add friendship: %w", err)
		}
		if err := s.store.RemoveFriendRequest(req.ID); err != nil {
			return fmt.Errorf("remove request: %w", err)
		}
		slog.Info("friend request accepted", "user_id", userID, "request_id", requestID)
		return nil
	}

	return fmt.Errorf("%w: %s", domain.ErrRequestNotFound, requestID)
}

// CircleStats returns the user plus their friends, sorted by weekly
// completion descending.
func (s *Service) CircleStats(ctx context.Context, userID string) ([]CircleEntry, error) {
	friendIDs, err := s.store.ListFriends(userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}

	ids := append([]string{userID}, friendIDs...)
	entries := make([]CircleEntry, 0, len(ids))
	for _, id := range ids {
		user, err := s.store.GetUser(id)
		if err != nil {
			continue
		}
		entries = append(entries, CircleEntry{
			UserID:           user.ID,
			Name:             user.Name,
			InviteCode:       user.InviteCode,
			WeeklyCompletion: user.WeeklyCompletion,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].WeeklyCompletion > entries[j].WeeklyCompletion
	})
	return entries, nil
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
