package bias

import (
	"bytes"
	"encoding/json"
	"sort"

	"refwatch/domain/core"
	"refwatch/domain/league"
)

// RunManifest captures the complete audit trail of one analysis run:
// input counts, rejection counts, the threshold configuration in force,
// and a deterministic fingerprint of the produced profiles.
type RunManifest struct {
	RunID    core.RunID    `json:"run_id"`
	SeasonID core.SeasonID `json:"season_id"`
	Sport    league.Sport  `json:"sport"`

	MatchCount        int `json:"match_count"`
	PenaltyCount      int `json:"penalty_count"`
	RejectedMatches   int `json:"rejected_matches"`
	RejectedPenalties int `json:"rejected_penalties"`
	TimingExcluded    int `json:"timing_excluded"`
	RefereesProfiled  int `json:"referees_profiled"`

	ObservationCounts map[ObservationKind]int `json:"observation_counts"`

	// Thresholds snapshots the numeric configuration the run used
	Thresholds   map[string]float64 `json:"thresholds"`
	BaselineMode string             `json:"baseline_mode"`

	Fingerprint core.Hash      `json:"fingerprint"`
	RuntimeMs   int64          `json:"runtime_ms"`
	CreatedAt   core.Timestamp `json:"created_at"`
}

// NewRunManifest creates a manifest shell for a run
func NewRunManifest(seasonID core.SeasonID, sport league.Sport) *RunManifest {
	return &RunManifest{
		RunID:             core.RunID(core.NewID()),
		SeasonID:          seasonID,
		Sport:             sport,
		ObservationCounts: make(map[ObservationKind]int),
		Thresholds:        make(map[string]float64),
		CreatedAt:         core.Now(),
	}
}

// ComputeFingerprint hashes the canonical JSON of all profile payloads in
// referee-ID order. Identical input and configuration yield an identical
// fingerprint, which backs the idempotence guarantee.
func ComputeFingerprint(profiles map[core.RefereeID]*RefereeProfile) core.Hash {
	ids := make([]string, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id.String())
	}
	sort.Strings(ids)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, id := range ids {
		buf.WriteString(id)
		// Encoder errors are impossible for these value types
		_ = enc.Encode(profiles[core.RefereeID(id)].ToPayload())
	}
	return core.NewHash(buf.Bytes())
}
