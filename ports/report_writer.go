package ports

import (
	"context"

	"refwatch/domain/bias"
)

// ReportWriter renders a completed run to an external format (text, xlsx).
// Writers receive profiles in referee-ID order; any presentation ordering a
// writer applies must be deterministic.
type ReportWriter interface {
	WriteReport(ctx context.Context, manifest *bias.RunManifest, baseline bias.LeagueBaseline,
		profiles []*bias.RefereeProfile) error
}
