package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtline/tennis-ladder/models"
)

var (
	ErrSeasonNotFound     = errors.New("season not found")
	ErrSeasonNameConflict = errors.New("season name already exists")
)

type SeasonRepository interface {
	Create(ctx context.Context, season *models.Season) error
	GetByID(ctx context.Context, id int) (*models.Season, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.SeasonStatus) error
	// CompareAndSwapStatus flips the status only when the current value
	// matches; reports whether the swap happened. This is the procedural
	// lock used to fence recalculation from live submissions.
	CompareAndSwapStatus(ctx context.Context, id int, from, to models.SeasonStatus) (bool, error)
}

type postgresSeasonRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRepository(db *sql.DB) SeasonRepository {
	return &postgresSeasonRepository{db: db}
}

func (r *postgresSeasonRepository) Create(ctx context.Context, season *models.Season) error {
	query := `
		INSERT INTO seasons (name, status, elo_enabled, elo_k_factor, elo_initial_rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		season.Name,
		season.Status,
		season.EloEnabled,
		season.EloKFactor,
		season.EloInitialRating,
	).Scan(&season.ID, &season.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "seasons_name_key") {
			return ErrSeasonNameConflict
		}
		return fmt.Errorf("failed to create season: %w", err)
	}
	return nil
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, id int) (*models.Season, error) {
	query := `
		SELECT id, name, status, elo_enabled, elo_k_factor, elo_initial_rating, created_at
		FROM seasons
		WHERE id = $1`

	season := &models.Season{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&season.ID,
		&season.Name,
		&season.Status,
		&season.EloEnabled,
		&season.EloKFactor,
		&season.EloInitialRating,
		&season.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to scan season %d: %w", id, err)
	}
	return season, nil
}

func (r *postgresSeasonRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.SeasonStatus) error {
	result, err := executor(r.db, exec).ExecContext(ctx,
		`UPDATE seasons SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update season %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}

func (r *postgresSeasonRepository) CompareAndSwapStatus(ctx context.Context, id int, from, to models.SeasonStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE seasons SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to swap season %d status: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return rowsAffected == 1, nil
}
