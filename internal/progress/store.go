package progress

import (
	"errors"
	"time"

	"github.com/thtnerdboi/arcstep/internal/storage/local"
)

const collectionSnapshots = "snapshots"

// DefaultUserID is the id of the single-user snapshot used when the daemon
// runs without accounts.
const DefaultUserID = "default"

// Store persists snapshots as JSON files, one record per user,
// overwritten wholesale on each save.
type Store struct {
	store *local.Store
}

// NewStore creates a new snapshot store rooted at basePath
func NewStore(basePath string) (*Store, error) {
	store, err := local.NewStore(basePath)
	if err != nil {
		return nil, err
	}
	return &Store{store: store}, nil
}

// Save persists a snapshot
func (s *Store) Save(snapshot *Snapshot) error {
	snapshot.UpdatedAt = time.Now()
	return s.store.Save(collectionSnapshots, snapshot.UserID, snapshot)
}

// Get loads a snapshot by user id
func (s *Store) Get(userID string) (*Snapshot, error) {
	var snapshot Snapshot
	if err := s.store.Load(collectionSnapshots, userID, &snapshot); err != nil {
		if errors.Is(err, local.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	snapshot.Normalize()
	return &snapshot, nil
}

// GetDefault returns the single-user snapshot, creating a fresh default
// one on first use.
func (s *Store) GetDefault() (*Snapshot, error) {
	var snapshot Snapshot
	err := s.store.Load(collectionSnapshots, DefaultUserID, &snapshot)
	if errors.Is(err, local.ErrNotFound) {
		fresh := NewSnapshot()
		fresh.UserID = DefaultUserID
		if err := s.Save(fresh); err != nil {
			return nil, err
		}
		return fresh, nil
	}
	if err != nil {
		return nil, err
	}
	snapshot.Normalize()
	return &snapshot, nil
}

// Delete removes a snapshot
func (s *Store) Delete(userID string) error {
	if err := s.store.Delete(collectionSnapshots, userID); err != nil {
		if errors.Is(err, local.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// List returns all stored user ids
func (s *Store) List() ([]string, error) {
	return s.store.List(collectionSnapshots)
}

// Exists reports whether a snapshot exists for a user
func (s *Store) Exists(userID string) bool {
	return s.store.Exists(collectionSnapshots, userID)
}
