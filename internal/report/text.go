package report

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"refwatch/domain/bias"
	"refwatch/internal"
	"refwatch/internal/errors"
	"refwatch/ports"
)

// TextWriter renders a completed run as a plain-text league report.
// Output is deterministic: profiles arrive in referee-ID order and every
// number is formatted with fixed precision.
type TextWriter struct {
	filePath string
	log      *internal.Logger
}

// NewTextWriter creates a text report writer targeting filePath
func NewTextWriter(filePath string) ports.ReportWriter {
	return &TextWriter{
		filePath: filePath,
		log:      internal.DefaultLogger.WithPrefix("report"),
	}
}

// WriteReport renders the report and writes it atomically via a temp file
func (w *TextWriter) WriteReport(ctx context.Context, manifest *bias.RunManifest,
	baseline bias.LeagueBaseline, profiles []*bias.RefereeProfile) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	content := Render(manifest, baseline, profiles)

	tmp := w.filePath + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return errors.ReportWriteFailure(tmp, err)
	}
	if err := os.Rename(tmp, w.filePath); err != nil {
		return errors.ReportWriteFailure(w.filePath, err)
	}
	w.log.Info("wrote text report for run %s to %s", manifest.RunID, w.filePath)
	return nil
}

// Render produces the full report as a string. Exposed separately so the
// API and CLI can emit the same report without touching the filesystem.
// Referees with the most observations print first; ties break by ID.
func Render(manifest *bias.RunManifest, baseline bias.LeagueBaseline, profiles []*bias.RefereeProfile) string {
	ordered := make([]*bias.RefereeProfile, len(profiles))
	copy(ordered, profiles)
	sort.SliceStable(ordered, func(i, j int) bool {
		if len(ordered[i].Observations) != len(ordered[j].Observations) {
			return len(ordered[i].Observations) > len(ordered[j].Observations)
		}
		return ordered[i].RefereeID < ordered[j].RefereeID
	})

	var b strings.Builder
	divider := strings.Repeat("=", 64)

	fmt.Fprintf(&b, "%s\n", divider)
	fmt.Fprintf(&b, "REFEREE BIAS ANALYSIS - SEASON %s (%s)\n", manifest.SeasonID, manifest.Sport)
	fmt.Fprintf(&b, "%s\n\n", divider)

	fmt.Fprintf(&b, "Run:         %s\n", manifest.RunID)
	fmt.Fprintf(&b, "Fingerprint: %s\n", manifest.Fingerprint)
	fmt.Fprintf(&b, "Matches:     %d analyzed, %d rejected\n", manifest.MatchCount, manifest.RejectedMatches)
	fmt.Fprintf(&b, "Penalties:   %d analyzed, %d rejected, %d timing-excluded\n\n",
		manifest.PenaltyCount, manifest.RejectedPenalties, manifest.TimingExcluded)

	fmt.Fprintf(&b, "LEAGUE BASELINE\n")
	fmt.Fprintf(&b, "  Avg penalties/match: %.2f (median %.1f, sd %.2f)\n",
		baseline.AvgPenaltiesPerMatch, baseline.PerMatch.Median, baseline.PerMatch.StdDev)
	fmt.Fprintf(&b, "  Home bias:           %+.1f%%\n", baseline.HomeBias)
	fmt.Fprintf(&b, "  Final period share:  %.0f%%\n\n", 100*baseline.FinalPeriodShare)

	fmt.Fprintf(&b, "REFEREES (%d)\n%s\n", len(ordered), strings.Repeat("-", 64))
	for _, p := range ordered {
		fmt.Fprintf(&b, "\n%s (%s)\n", p.Name, p.RefereeID)
		fmt.Fprintf(&b, "  Matches: %d  Penalties: %d  Avg: %.2f/match  Home bias: %+.1f%%\n",
			p.Matches, p.Penalties, p.AvgPenalties, p.HomeBias)
		if p.InsufficientSample {
			fmt.Fprintf(&b, "  Insufficient sample: counts reported, no observations\n")
			continue
		}
		if len(p.Observations) == 0 {
			fmt.Fprintf(&b, "  No anomalies detected\n")
			continue
		}
		for _, obs := range p.Observations {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", obs.Severity, obs.Kind, obs.Description)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", divider)
	return b.String()
}
