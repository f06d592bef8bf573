package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/thtnerdboi/arcstep/internal/domain"
	"github.com/thtnerdboi/arcstep/internal/social"
)

// SocialStore implements the social graph persistence backed by SQLite.
type SocialStore struct {
	db *DB
}

// NewSocialStore creates a new SQLite-backed social store.
func NewSocialStore(db *DB) *SocialStore {
	return &SocialStore{db: db}
}

// UpsertUser inserts or replaces a user profile.
func (s *SocialStore) UpsertUser(user *social.User) error {
	_, err := s.db.Exec(`
		INSERT INTO social_users (id, name, invite_code, weekly_completion, is_pro, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			invite_code=excluded.invite_code,
			weekly_completion=excluded.weekly_completion,
			is_pro=excluded.is_pro,
			updated_at=excluded.updated_at`,
		user.ID, user.Name, user.InviteCode, user.WeeklyCompletion, user.IsPro, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert social user: %w", err)
	}
	return nil
}

// GetUser loads a user by id.
func (s *SocialStore) GetUser(userID string) (*social.User, error) {
	return s.scanUser(s.db.QueryRow(`
		SELECT id, name, invite_code, weekly_completion, is_pro, updated_at
		FROM social_users WHERE id = ?`, userID))
}

// FindUserByInvite loads a user by invite code.
func (s *SocialStore) FindUserByInvite(inviteCode string) (*social.User, error) {
	return s.scanUser(s.db.QueryRow(`
		SELECT id, name, invite_code, weekly_completion, is_pro, updated_at
		FROM social_users WHERE invite_code = ?`, inviteCode))
}

func (s *SocialStore) scanUser(row *sql.Row) (*social.User, error) {
	var user social.User
	err := row.Scan(&user.ID, &user.Name, &user.InviteCode, &user.WeeklyCompletion, &user.IsPro, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan social user: %w", err)
	}
	return &user, nil
}

// AddFriendRequest stores a pending request.
func (s *SocialStore) AddFriendRequest(req *social.FriendRequest) error {
	_, err := s.db.Exec(`
		INSERT INTO friend_requests (id, from_user_id, to_user_id, created_at)
		VALUES (?, ?, ?, ?)`,
		req.ID, req.FromUserID, req.ToUserID, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert friend request: %w", err)
	}
	return nil
}

// ListFriendRequests returns pending requests addressed to a user.
func (s *SocialStore) ListFriendRequests(toUserID string) ([]social.FriendRequest, error) {
	rows, err := s.db.Query(`
		SELECT id, from_user_id, to_user_id, created_at
		FROM friend_requests WHERE to_user_id = ? ORDER BY created_at`, toUserID)
	if err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	defer rows.Close()

	var requests []social.FriendRequest
	for rows.Next() {
		var req social.FriendRequest
		if err := rows.Scan(&req.ID, &req.FromUserID, &req.ToUserID, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan friend request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// RemoveFriendRequest deletes a request by id.
func (s *SocialStore) RemoveFriendRequest(requestID string) error {
	_, err := s.db.Exec("DELETE FROM friend_requests WHERE id = ?", requestID)
	if err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}
	return nil
}

// AddFriendship records a mutual friendship.
func (s *SocialStore) AddFriendship(a, b string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO friendships (user_id, friend_id) VALUES (?, ?)`,
			pair[0], pair[1]); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert friendship: %w", err)
		}
	}
	return tx.Commit()
}

// ListFriends returns the ids of a user's friends.
func (s *SocialStore) ListFriends(userID string) ([]string, error) {
	rows, err := s.db.Query("SELECT friend_id FROM friendships WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan friend id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AreFriends reports whether two users are friends.
func (s *SocialStore) AreFriends(a, b string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		"SELECT 1 FROM friendships WHERE user_id = ? AND friend_id = ?", a, b,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check friendship: %w", err)
	}
	return true, nil
}
