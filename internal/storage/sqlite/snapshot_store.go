package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/thtnerdboi/arcstep/internal/progress"
)

// SnapshotStore implements snapshot persistence backed by SQLite. The
// whole snapshot is stored as one JSON document per user, replaced
// wholesale on each save, matching the single-record contract of the
// JSON file store.
type SnapshotStore struct {
	db *DB
}

// NewSnapshotStore creates a new SQLite-backed snapshot store.
func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Save persists a snapshot (insert or replace).
func (s *SnapshotStore) Save(snapshot *progress.Snapshot) error {
	snapshot.UpdatedAt = time.Now()
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO snapshots (user_id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			data=excluded.data,
			updated_at=excluded.updated_at`,
		snapshot.UserID, string(data), snapshot.CreatedAt, snapshot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// Get loads a snapshot by user id.
func (s *SnapshotStore) Get(userID string) (*progress.Snapshot, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM snapshots WHERE user_id = ?", userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, progress.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	var snapshot progress.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	snapshot.Normalize()
	return &snapshot, nil
}

// GetDefault returns the single-user snapshot, creating it on first use.
func (s *SnapshotStore) GetDefault() (*progress.Snapshot, error) {
	snapshot, err := s.Get(progress.DefaultUserID)
	if errors.Is(err, progress.ErrNotFound) {
		fresh := progress.NewSnapshot()
		fresh.UserID = progress.DefaultUserID
		if err := s.Save(fresh); err != nil {
			return nil, err
		}
		return fresh, nil
	}
	return snapshot, err
}

// Delete removes a snapshot.
func (s *SnapshotStore) Delete(userID string) error {
	res, err := s.db.Exec("DELETE FROM snapshots WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return progress.ErrNotFound
	}
	return nil
}

// List returns all stored user ids.
func (s *SnapshotStore) List() ([]string, error) {
	rows, err := s.db.Query("SELECT user_id FROM snapshots ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists reports whether a snapshot exists for a user.
func (s *SnapshotStore) Exists(userID string) bool {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM snapshots WHERE user_id = ?", userID).Scan(&one)
	return err == nil
}
