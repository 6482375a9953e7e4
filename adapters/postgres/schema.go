package postgres

import (
	"github.com/jmoiron/sqlx"
)

// Schema is created idempotently at startup. Profiles are derived data, so
// the tables carry no source-of-truth constraints beyond run lineage.
const schema = `
CREATE TABLE IF NOT EXISTS season_snapshots (
	season_id   TEXT PRIMARY KEY,
	sport       TEXT NOT NULL,
	matches     JSONB NOT NULL,
	penalties   JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS analysis_runs (
	run_id             TEXT PRIMARY KEY,
	season_id          TEXT NOT NULL,
	sport              TEXT NOT NULL,
	match_count        INTEGER NOT NULL,
	penalty_count      INTEGER NOT NULL,
	rejected_matches   INTEGER NOT NULL,
	rejected_penalties INTEGER NOT NULL,
	timing_excluded    INTEGER NOT NULL,
	referees_profiled  INTEGER NOT NULL,
	observation_counts JSONB NOT NULL,
	thresholds         JSONB NOT NULL,
	baseline_mode      TEXT NOT NULL,
	fingerprint        TEXT NOT NULL,
	runtime_ms         BIGINT NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analysis_runs_season
	ON analysis_runs (season_id, created_at DESC);

CREATE TABLE IF NOT EXISTS referee_profiles (
	run_id              TEXT NOT NULL REFERENCES analysis_runs(run_id) ON DELETE CASCADE,
	season_id           TEXT NOT NULL,
	referee_id          TEXT NOT NULL,
	name                TEXT NOT NULL,
	matches             INTEGER NOT NULL,
	penalties           INTEGER NOT NULL,
	avg_penalties       DOUBLE PRECISION NOT NULL,
	home_bias           DOUBLE PRECISION NOT NULL,
	final_period_share  DOUBLE PRECISION NOT NULL,
	insufficient_sample BOOLEAN NOT NULL,
	observations        JSONB NOT NULL,
	PRIMARY KEY (run_id, referee_id)
);

CREATE INDEX IF NOT EXISTS idx_referee_profiles_season
	ON referee_profiles (season_id, referee_id);
`

// Migrate creates the schema if it does not exist
func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
