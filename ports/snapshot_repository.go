package ports

import (
	"context"

	"refwatch/domain/core"
	"refwatch/domain/league"
)

// SnapshotRepository persists normalized league-season snapshots.
// Persistence is optional; the engine runs fully in-memory without one.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snapshot *league.Snapshot) error
	GetSnapshot(ctx context.Context, seasonID core.SeasonID) (*league.Snapshot, error)
	ListSeasons(ctx context.Context) ([]core.SeasonID, error)
}
