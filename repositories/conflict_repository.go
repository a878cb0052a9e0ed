package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtline/tennis-ladder/models"
)

var ErrConflictNotFound = errors.New("score conflict not found")

type ConflictRepository interface {
	Create(ctx context.Context, conflict *models.Conflict) error
	GetByID(ctx context.Context, id int) (*models.Conflict, error)
	ListByFixture(ctx context.Context, fixtureID int) ([]*models.Conflict, error)
}

type postgresConflictRepository struct {
	db *sql.DB
}

func NewPostgresConflictRepository(db *sql.DB) ConflictRepository {
	return &postgresConflictRepository{db: db}
}

func (r *postgresConflictRepository) Create(ctx context.Context, conflict *models.Conflict) error {
	query := `
		INSERT INTO score_conflicts (fixture_id, first_result_id, pair1_score, pair2_score, submitted_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		conflict.FixtureID,
		conflict.FirstResultID,
		conflict.Pair1Score,
		conflict.Pair2Score,
		conflict.SubmittedBy,
	).Scan(&conflict.ID, &conflict.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("conflict references a missing fixture or result: %w", err)
		}
		return fmt.Errorf("failed to create conflict for fixture %d: %w", conflict.FixtureID, err)
	}
	return nil
}

func (r *postgresConflictRepository) GetByID(ctx context.Context, id int) (*models.Conflict, error) {
	query := `
		SELECT id, fixture_id, first_result_id, pair1_score, pair2_score, submitted_by, created_at
		FROM score_conflicts
		WHERE id = $1`

	conflict := &models.Conflict{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&conflict.ID,
		&conflict.FixtureID,
		&conflict.FirstResultID,
		&conflict.Pair1Score,
		&conflict.Pair2Score,
		&conflict.SubmittedBy,
		&conflict.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConflictNotFound
		}
		return nil, fmt.Errorf("failed to scan conflict %d: %w", id, err)
	}
	return conflict, nil
}

func (r *postgresConflictRepository) ListByFixture(ctx context.Context, fixtureID int) ([]*models.Conflict, error) {
	query := `
		SELECT id, fixture_id, first_result_id, pair1_score, pair2_score, submitted_by, created_at
		FROM score_conflicts
		WHERE fixture_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts for fixture %d: %w", fixtureID, err)
	}
	defer rows.Close()

	var conflicts []*models.Conflict
	for rows.Next() {
		conflict := &models.Conflict{}
		if err := rows.Scan(
			&conflict.ID,
			&conflict.FixtureID,
			&conflict.FirstResultID,
			&conflict.Pair1Score,
			&conflict.Pair2Score,
			&conflict.SubmittedBy,
			&conflict.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conflict row: %w", err)
		}
		conflicts = append(conflicts, conflict)
	}
	return conflicts, rows.Err()
}
