package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"refwatch/domain/core"
	"refwatch/domain/league"
	"refwatch/internal/errors"
	"refwatch/ports"
)

// SnapshotRepositoryImpl implements SnapshotRepository for PostgreSQL.
// Matches and penalties are stored as JSONB documents per season; the
// analysis engine never queries inside them.
type SnapshotRepositoryImpl struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a new PostgreSQL snapshot repository
func NewSnapshotRepository(db *sqlx.DB) ports.SnapshotRepository {
	return &SnapshotRepositoryImpl{db: db}
}

// SaveSnapshot upserts a season snapshot, replacing any previous version
func (r *SnapshotRepositoryImpl) SaveSnapshot(ctx context.Context, snapshot *league.Snapshot) error {
	matchesJSON, err := json.Marshal(snapshot.Matches)
	if err != nil {
		return errors.DatabaseError("marshal matches", err)
	}
	penaltiesJSON, err := json.Marshal(snapshot.Penalties)
	if err != nil {
		return errors.DatabaseError("marshal penalties", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO season_snapshots (season_id, sport, matches, penalties)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (season_id) DO UPDATE SET
			sport = EXCLUDED.sport,
			matches = EXCLUDED.matches,
			penalties = EXCLUDED.penalties,
			created_at = NOW()`,
		snapshot.SeasonID.String(), string(snapshot.Sport), matchesJSON, penaltiesJSON)
	return err
}

// GetSnapshot retrieves a season snapshot by ID
func (r *SnapshotRepositoryImpl) GetSnapshot(ctx context.Context, seasonID core.SeasonID) (*league.Snapshot, error) {
	var sport string
	var matchesJSON, penaltiesJSON []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT sport, matches, penalties
		FROM season_snapshots
		WHERE season_id = $1`, seasonID.String()).Scan(&sport, &matchesJSON, &penaltiesJSON)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("season " + seasonID.String())
	}
	if err != nil {
		return nil, err
	}

	snapshot := &league.Snapshot{SeasonID: seasonID, Sport: league.Sport(sport)}
	if err := json.Unmarshal(matchesJSON, &snapshot.Matches); err != nil {
		return nil, errors.DatabaseError("unmarshal matches", err)
	}
	if err := json.Unmarshal(penaltiesJSON, &snapshot.Penalties); err != nil {
		return nil, errors.DatabaseError("unmarshal penalties", err)
	}
	return snapshot, nil
}

// ListSeasons returns every stored season ID in lexical order
func (r *SnapshotRepositoryImpl) ListSeasons(ctx context.Context) ([]core.SeasonID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT season_id FROM season_snapshots ORDER BY season_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seasons []core.SeasonID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		seasons = append(seasons, core.SeasonID(id))
	}
	return seasons, rows.Err()
}
