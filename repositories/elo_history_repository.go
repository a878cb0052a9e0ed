package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/courtline/tennis-ladder/models"
)

type EloHistoryRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, entries []*models.EloHistoryEntry) error
	ListBySeasonPlayer(ctx context.Context, seasonPlayerID int) ([]*models.EloHistoryEntry, error)
	// DeleteBySeason clears the whole season's chain. Only a full-season
	// recalculation may call this; nothing else deletes history.
	DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error
}

type postgresEloHistoryRepository struct {
	db *sql.DB
}

func NewPostgresEloHistoryRepository(db *sql.DB) EloHistoryRepository {
	return &postgresEloHistoryRepository{db: db}
}

func (r *postgresEloHistoryRepository) BatchCreate(ctx context.Context, exec SQLExecutor, entries []*models.EloHistoryEntry) error {
	query := `
		INSERT INTO elo_history
			(season_player_id, fixture_id, old_rating, new_rating, rating_change,
			 k_factor, opponent_avg_rating, expected_score, actual_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	execr := executor(r.db, exec)
	for _, entry := range entries {
		err := execr.QueryRowContext(ctx, query,
			entry.SeasonPlayerID,
			entry.FixtureID,
			entry.OldRating,
			entry.NewRating,
			entry.RatingChange,
			entry.KFactor,
			entry.OpponentAvgRating,
			entry.ExpectedScore,
			entry.ActualScore,
		).Scan(&entry.ID, &entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to append elo history for season player %d: %w",
				entry.SeasonPlayerID, err)
		}
	}
	return nil
}

func (r *postgresEloHistoryRepository) ListBySeasonPlayer(ctx context.Context, seasonPlayerID int) ([]*models.EloHistoryEntry, error) {
	query := `
		SELECT id, season_player_id, fixture_id, old_rating, new_rating, rating_change,
		       k_factor, opponent_avg_rating, expected_score, actual_score, created_at
		FROM elo_history
		WHERE season_player_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, seasonPlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list elo history for season player %d: %w", seasonPlayerID, err)
	}
	defer rows.Close()

	var entries []*models.EloHistoryEntry
	for rows.Next() {
		entry := &models.EloHistoryEntry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.SeasonPlayerID,
			&entry.FixtureID,
			&entry.OldRating,
			&entry.NewRating,
			&entry.RatingChange,
			&entry.KFactor,
			&entry.OpponentAvgRating,
			&entry.ExpectedScore,
			&entry.ActualScore,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan elo history row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *postgresEloHistoryRepository) DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error {
	query := `
		DELETE FROM elo_history
		WHERE season_player_id IN (SELECT id FROM season_players WHERE season_id = $1)`

	if _, err := executor(r.db, exec).ExecContext(ctx, query, seasonID); err != nil {
		return fmt.Errorf("failed to delete elo history for season %d: %w", seasonID, err)
	}
	return nil
}
