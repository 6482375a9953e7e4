package app

import (
	"context"
	"sort"
	"time"

	"refwatch/domain/bias"
	"refwatch/domain/core"
	"refwatch/domain/league"
	"refwatch/ingest"
	"refwatch/internal"
	"refwatch/internal/analysis"
	"refwatch/internal/config"
	"refwatch/internal/errors"
	"refwatch/ports"
)

// AnalysisService orchestrates one full analysis run: normalize, process,
// detect, assemble profiles, fingerprint, and optionally persist and report.
type AnalysisService struct {
	normalizer *ingest.Normalizer
	processor  *analysis.Processor
	detector   *analysis.Detector
	cfg        config.AnalysisConfig

	snapshots ports.SnapshotRepository // optional
	profiles  ports.ProfileRepository  // optional
	writers   []ports.ReportWriter

	log *internal.Logger
}

// RunResult is the complete output of one analysis run over one season
type RunResult struct {
	RunID      core.RunID                              `json:"run_id"`
	Profiles   map[core.RefereeID]*bias.RefereeProfile `json:"profiles"`
	Baseline   bias.LeagueBaseline                     `json:"baseline"`
	Manifest   *bias.RunManifest                       `json:"manifest"`
	Rejections *ingest.Rejections                      `json:"rejections"`
}

// NewAnalysisService creates the orchestrator. Repositories may be nil, in
// which case the run is purely in-memory; report writers are optional.
func NewAnalysisService(cfg config.AnalysisConfig, snapshots ports.SnapshotRepository,
	profiles ports.ProfileRepository, writers ...ports.ReportWriter) *AnalysisService {
	return &AnalysisService{
		normalizer: ingest.NewNormalizer(),
		processor:  analysis.NewProcessor(),
		detector:   analysis.NewDetector(cfg),
		cfg:        cfg,
		snapshots:  snapshots,
		profiles:   profiles,
		writers:    writers,
		log:        internal.DefaultLogger.WithPrefix("analysis"),
	}
}

// Run executes an analysis over one raw season. The pipeline is pure after
// normalization: identical input and configuration produce profiles with an
// identical fingerprint.
func (s *AnalysisService) Run(ctx context.Context, raw ingest.RawSeason) (*RunResult, error) {
	startTime := time.Now()

	snapshot, rejections, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, errors.Wrap(err, "season normalization failed")
	}

	metrics, baseline := s.processor.Process(snapshot)

	profiles := make(map[core.RefereeID]*bias.RefereeProfile, len(metrics))
	manifest := bias.NewRunManifest(snapshot.SeasonID, snapshot.Sport)

	for _, id := range analysis.SortedRefereeIDs(metrics) {
		m := metrics[id]
		profile := &bias.RefereeProfile{
			RefereeID:        m.RefereeID,
			Name:             m.Name,
			Matches:          m.Matches,
			Penalties:        m.Penalties,
			AvgPenalties:     m.AvgPenalties,
			HomeBias:         m.HomeBias,
			FinalPeriodShare: m.FinalPeriodShare,
			Observations:     []bias.Observation{},
		}
		if m.Matches < s.cfg.MinSampleSize {
			profile.InsufficientSample = true
		} else {
			profile.Observations = append(profile.Observations, s.detector.Detect(m, baseline)...)
		}
		for _, obs := range profile.Observations {
			manifest.ObservationCounts[obs.Kind]++
		}
		profiles[id] = profile
	}

	manifest.MatchCount = baseline.MatchCount
	manifest.PenaltyCount = baseline.PenaltyCount
	manifest.RejectedMatches = len(rejections.Matches)
	manifest.RejectedPenalties = len(rejections.Penalties)
	manifest.TimingExcluded = rejections.TimingExcluded
	manifest.RefereesProfiled = len(profiles)
	manifest.Thresholds = s.cfg.Thresholds()
	manifest.BaselineMode = string(s.cfg.HomeBiasBaseline)
	manifest.Fingerprint = bias.ComputeFingerprint(profiles)
	manifest.RuntimeMs = time.Since(startTime).Milliseconds()

	result := &RunResult{
		RunID:      manifest.RunID,
		Profiles:   profiles,
		Baseline:   baseline,
		Manifest:   manifest,
		Rejections: rejections,
	}

	if err := s.persist(ctx, snapshot, result); err != nil {
		return nil, err
	}
	if err := s.report(ctx, result); err != nil {
		return nil, err
	}

	s.log.Info("run %s complete: %d referees, %d observations, fingerprint %s",
		manifest.RunID, len(profiles), totalObservations(manifest), manifest.Fingerprint.Short())

	return result, nil
}

func (s *AnalysisService) persist(ctx context.Context, snapshot *league.Snapshot, result *RunResult) error {
	if s.snapshots != nil {
		if err := s.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
			return errors.DatabaseError("save snapshot", err)
		}
	}
	if s.profiles != nil {
		if err := s.profiles.SaveRun(ctx, result.Manifest, result.Profiles); err != nil {
			return errors.DatabaseError("save run", err)
		}
	}
	return nil
}

func (s *AnalysisService) report(ctx context.Context, result *RunResult) error {
	if len(s.writers) == 0 {
		return nil
	}
	ordered := result.SortedProfiles()
	for _, w := range s.writers {
		if err := w.WriteReport(ctx, result.Manifest, result.Baseline, ordered); err != nil {
			return errors.Wrap(err, "report writer failed")
		}
	}
	return nil
}

// SortedProfiles returns the run's profiles in referee-ID order
func (r *RunResult) SortedProfiles() []*bias.RefereeProfile {
	ids := make([]core.RefereeID, 0, len(r.Profiles))
	for id := range r.Profiles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*bias.RefereeProfile, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.Profiles[id])
	}
	return out
}

// PayloadMap returns the flat wire contract keyed by referee ID string
func (r *RunResult) PayloadMap() map[string]bias.ProfilePayload {
	out := make(map[string]bias.ProfilePayload, len(r.Profiles))
	for id, p := range r.Profiles {
		out[id.String()] = p.ToPayload()
	}
	return out
}

func totalObservations(m *bias.RunManifest) int {
	total := 0
	for _, c := range m.ObservationCounts {
		total += c
	}
	return total
}
