package sqlite

import (
	"github.com/thtnerdboi/arcstep/internal/progress"
	"github.com/thtnerdboi/arcstep/internal/social"
)

// Ensure SQLite stores implement the storage interfaces.
var (
	_ progress.SnapshotStore = (*SnapshotStore)(nil)
	_ social.Store           = (*SocialStore)(nil)
)
