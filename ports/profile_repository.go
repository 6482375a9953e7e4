package ports

import (
	"context"

	"refwatch/domain/bias"
	"refwatch/domain/core"
)

// ProfileRepository persists completed analysis runs: referee profiles plus
// the manifest auditing the run that produced them. Profiles are derived
// data; a fresh run for the same season replaces the previous one.
type ProfileRepository interface {
	SaveRun(ctx context.Context, manifest *bias.RunManifest, profiles map[core.RefereeID]*bias.RefereeProfile) error
	GetProfile(ctx context.Context, seasonID core.SeasonID, refereeID core.RefereeID) (*bias.RefereeProfile, error)
	ListProfiles(ctx context.Context, seasonID core.SeasonID) ([]*bias.RefereeProfile, error)
	GetManifest(ctx context.Context, runID core.RunID) (*bias.RunManifest, error)
	LatestManifest(ctx context.Context, seasonID core.SeasonID) (*bias.RunManifest, error)
}
