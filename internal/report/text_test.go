package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"refwatch/domain/bias"
)

func testRun() (*bias.RunManifest, bias.LeagueBaseline, []*bias.RefereeProfile) {
	manifest := bias.NewRunManifest("2025", "hockey")
	manifest.MatchCount = 10
	manifest.PenaltyCount = 42
	manifest.Fingerprint = "abc123"

	baseline := bias.LeagueBaseline{
		MatchCount:           10,
		PenaltyCount:         42,
		AvgPenaltiesPerMatch: 4.2,
		HomeBias:             5.0,
		FinalPeriodShare:     0.35,
	}

	profiles := []*bias.RefereeProfile{
		{RefereeID: "R1", Name: "Quiet Ref", Matches: 5, Penalties: 20, AvgPenalties: 4.0},
		{RefereeID: "R2", Name: "Flagged Ref", Matches: 5, Penalties: 22, AvgPenalties: 4.4,
			Observations: []bias.Observation{
				{Kind: bias.KindTimingPattern, Severity: bias.SeverityMedium, Description: "60% of penalties in the final period"},
			}},
		{RefereeID: "R3", Name: "Rookie Ref", Matches: 1, Penalties: 2, InsufficientSample: true},
	}
	return manifest, baseline, profiles
}

func TestRenderSections(t *testing.T) {
	manifest, baseline, profiles := testRun()
	out := Render(manifest, baseline, profiles)

	for _, want := range []string{
		"REFEREE BIAS ANALYSIS - SEASON 2025 (hockey)",
		"LEAGUE BASELINE",
		"Avg penalties/match: 4.20",
		"Flagged Ref",
		"[MEDIUM] TIMING_PATTERN",
		"Insufficient sample",
		"No anomalies detected",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderOrdersByObservationCount(t *testing.T) {
	manifest, baseline, profiles := testRun()
	out := Render(manifest, baseline, profiles)

	flagged := strings.Index(out, "Flagged Ref")
	quiet := strings.Index(out, "Quiet Ref")
	if flagged < 0 || quiet < 0 {
		t.Fatal("report missing referees")
	}
	if flagged > quiet {
		t.Error("referee with observations should print first")
	}
}

func TestRenderDeterministic(t *testing.T) {
	manifest, baseline, profiles := testRun()
	if Render(manifest, baseline, profiles) != Render(manifest, baseline, profiles) {
		t.Error("identical input must render identically")
	}
}

func TestWriteReportCreatesFile(t *testing.T) {
	manifest, baseline, profiles := testRun()
	path := filepath.Join(t.TempDir(), "report.txt")

	w := NewTextWriter(path)
	if err := w.WriteReport(context.Background(), manifest, baseline, profiles); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	if !strings.Contains(string(data), "REFEREE BIAS ANALYSIS") {
		t.Error("written report missing header")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away")
	}
}
