package progress

import "errors"

// ErrNotFound is returned when no snapshot exists for a user.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotStore defines the persistence contract for snapshots.
// Both the JSON file store and the SQLite store implement this.
type SnapshotStore interface {
	Save(snapshot *Snapshot) error
	Get(userID string) (*Snapshot, error)
	GetDefault() (*Snapshot, error)
	Delete(userID string) error
	List() ([]string, error)
	Exists(userID string) bool
}

// Ensure Store (JSON) implements SnapshotStore
var _ SnapshotStore = (*Store)(nil)
