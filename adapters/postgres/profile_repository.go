package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"refwatch/domain/bias"
	"refwatch/domain/core"
	"refwatch/domain/league"
	"refwatch/internal/errors"
	"refwatch/ports"
)

// ProfileRepositoryImpl implements ProfileRepository for PostgreSQL
type ProfileRepositoryImpl struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(db *sqlx.DB) ports.ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

// SaveRun stores the manifest and every profile of a completed run in one
// transaction. Earlier runs for the season stay queryable; readers resolve
// the latest run by created_at.
func (r *ProfileRepositoryImpl) SaveRun(ctx context.Context, manifest *bias.RunManifest,
	profiles map[core.RefereeID]*bias.RefereeProfile) error {

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	observationCountsJSON, _ := json.Marshal(manifest.ObservationCounts)
	thresholdsJSON, _ := json.Marshal(manifest.Thresholds)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_runs (
			run_id, season_id, sport, match_count, penalty_count,
			rejected_matches, rejected_penalties, timing_excluded,
			referees_profiled, observation_counts, thresholds,
			baseline_mode, fingerprint, runtime_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		manifest.RunID.String(), manifest.SeasonID.String(), string(manifest.Sport),
		manifest.MatchCount, manifest.PenaltyCount,
		manifest.RejectedMatches, manifest.RejectedPenalties, manifest.TimingExcluded,
		manifest.RefereesProfiled, observationCountsJSON, thresholdsJSON,
		manifest.BaselineMode, manifest.Fingerprint.String(), manifest.RuntimeMs,
		manifest.CreatedAt.Time())
	if err != nil {
		return errors.DatabaseError("insert run", err)
	}

	for _, profile := range profiles {
		observationsJSON, _ := json.Marshal(profile.Observations)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO referee_profiles (
				run_id, season_id, referee_id, name, matches, penalties,
				avg_penalties, home_bias, final_period_share,
				insufficient_sample, observations
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			manifest.RunID.String(), manifest.SeasonID.String(), profile.RefereeID.String(),
			profile.Name, profile.Matches, profile.Penalties,
			profile.AvgPenalties, profile.HomeBias, profile.FinalPeriodShare,
			profile.InsufficientSample, observationsJSON)
		if err != nil {
			return errors.DatabaseError("insert profile", err)
		}
	}

	return tx.Commit()
}

// GetProfile returns a referee's profile from the latest run for the season
func (r *ProfileRepositoryImpl) GetProfile(ctx context.Context, seasonID core.SeasonID,
	refereeID core.RefereeID) (*bias.RefereeProfile, error) {

	row := r.db.QueryRowContext(ctx, `
		SELECT p.referee_id, p.name, p.matches, p.penalties,
		       p.avg_penalties, p.home_bias, p.final_period_share,
		       p.insufficient_sample, p.observations
		FROM referee_profiles p
		JOIN analysis_runs r ON r.run_id = p.run_id
		WHERE p.season_id = $1 AND p.referee_id = $2
		ORDER BY r.created_at DESC
		LIMIT 1`, seasonID.String(), refereeID.String())

	profile, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("referee " + refereeID.String())
	}
	return profile, err
}

// ListProfiles returns every profile of the latest run for the season,
// ordered by referee ID.
func (r *ProfileRepositoryImpl) ListProfiles(ctx context.Context, seasonID core.SeasonID) ([]*bias.RefereeProfile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.referee_id, p.name, p.matches, p.penalties,
		       p.avg_penalties, p.home_bias, p.final_period_share,
		       p.insufficient_sample, p.observations
		FROM referee_profiles p
		WHERE p.run_id = (
			SELECT run_id FROM analysis_runs
			WHERE season_id = $1
			ORDER BY created_at DESC
			LIMIT 1
		)
		ORDER BY p.referee_id`, seasonID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*bias.RefereeProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

// GetManifest retrieves a run manifest by run ID
func (r *ProfileRepositoryImpl) GetManifest(ctx context.Context, runID core.RunID) (*bias.RunManifest, error) {
	return r.queryManifest(ctx, `
		SELECT run_id, season_id, sport, match_count, penalty_count,
		       rejected_matches, rejected_penalties, timing_excluded,
		       referees_profiled, observation_counts, thresholds,
		       baseline_mode, fingerprint, runtime_ms, created_at
		FROM analysis_runs
		WHERE run_id = $1`, runID.String())
}

// LatestManifest retrieves the most recent run manifest for a season
func (r *ProfileRepositoryImpl) LatestManifest(ctx context.Context, seasonID core.SeasonID) (*bias.RunManifest, error) {
	return r.queryManifest(ctx, `
		SELECT run_id, season_id, sport, match_count, penalty_count,
		       rejected_matches, rejected_penalties, timing_excluded,
		       referees_profiled, observation_counts, thresholds,
		       baseline_mode, fingerprint, runtime_ms, created_at
		FROM analysis_runs
		WHERE season_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, seasonID.String())
}

func (r *ProfileRepositoryImpl) queryManifest(ctx context.Context, query, arg string) (*bias.RunManifest, error) {
	var m bias.RunManifest
	var runID, seasonID, sport, baselineMode, fingerprint string
	var observationCountsJSON, thresholdsJSON []byte
	var createdAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&runID, &seasonID, &sport, &m.MatchCount, &m.PenaltyCount,
		&m.RejectedMatches, &m.RejectedPenalties, &m.TimingExcluded,
		&m.RefereesProfiled, &observationCountsJSON, &thresholdsJSON,
		&baselineMode, &fingerprint, &m.RuntimeMs, &createdAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("run manifest")
	}
	if err != nil {
		return nil, err
	}

	m.RunID = core.RunID(runID)
	m.SeasonID = core.SeasonID(seasonID)
	m.Sport = league.Sport(sport)
	m.BaselineMode = baselineMode
	m.Fingerprint = core.Hash(fingerprint)
	if createdAt.Valid {
		m.CreatedAt = core.NewTimestamp(createdAt.Time)
	}
	if err := json.Unmarshal(observationCountsJSON, &m.ObservationCounts); err != nil {
		return nil, errors.DatabaseError("unmarshal observation counts", err)
	}
	if err := json.Unmarshal(thresholdsJSON, &m.Thresholds); err != nil {
		return nil, errors.DatabaseError("unmarshal thresholds", err)
	}
	return &m, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*bias.RefereeProfile, error) {
	var p bias.RefereeProfile
	var refereeID string
	var observationsJSON []byte

	err := row.Scan(&refereeID, &p.Name, &p.Matches, &p.Penalties,
		&p.AvgPenalties, &p.HomeBias, &p.FinalPeriodShare,
		&p.InsufficientSample, &observationsJSON)
	if err != nil {
		return nil, err
	}
	p.RefereeID = core.RefereeID(refereeID)
	if err := json.Unmarshal(observationsJSON, &p.Observations); err != nil {
		return nil, errors.DatabaseError("unmarshal observations", err)
	}
	return &p, nil
}
