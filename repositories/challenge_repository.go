package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/courtline/tennis-ladder/models"
)

var ErrChallengeNotFound = errors.New("score challenge not found")

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Challenge, error)
	ListByStatus(ctx context.Context, status models.ChallengeStatus) ([]*models.Challenge, error)
	UpdateResolution(ctx context.Context, exec SQLExecutor, id int, status models.ChallengeStatus, decision string, resolvedBy int, resolvedAt time.Time) error
}

type postgresChallengeRepository struct {
	db *sql.DB
}

func NewPostgresChallengeRepository(db *sql.DB) ChallengeRepository {
	return &postgresChallengeRepository{db: db}
}

const challengeColumns = `id, fixture_id, original_result_id, challenger_id,
	proposed_pair1_score, proposed_pair2_score, reason, status,
	admin_decision, resolved_by, resolved_at, created_at`

func scanChallenge(row interface{ Scan(...interface{}) error }) (*models.Challenge, error) {
	challenge := &models.Challenge{}
	err := row.Scan(
		&challenge.ID,
		&challenge.FixtureID,
		&challenge.OriginalResultID,
		&challenge.ChallengerID,
		&challenge.ProposedPair1Score,
		&challenge.ProposedPair2Score,
		&challenge.Reason,
		&challenge.Status,
		&challenge.AdminDecision,
		&challenge.ResolvedBy,
		&challenge.ResolvedAt,
		&challenge.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return challenge, nil
}

func (r *postgresChallengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	query := `
		INSERT INTO score_challenges
			(fixture_id, original_result_id, challenger_id,
			 proposed_pair1_score, proposed_pair2_score, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		challenge.FixtureID,
		challenge.OriginalResultID,
		challenge.ChallengerID,
		challenge.ProposedPair1Score,
		challenge.ProposedPair2Score,
		challenge.Reason,
		challenge.Status,
	).Scan(&challenge.ID, &challenge.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("challenge references a missing fixture or result: %w", err)
		}
		return fmt.Errorf("failed to create challenge for fixture %d: %w", challenge.FixtureID, err)
	}
	return nil
}

func (r *postgresChallengeRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM score_challenges WHERE id = $1`

	challenge, err := scanChallenge(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to scan challenge %d: %w", id, err)
	}
	return challenge, nil
}

func (r *postgresChallengeRepository) ListByStatus(ctx context.Context, status models.ChallengeStatus) ([]*models.Challenge, error) {
	query := `SELECT ` + challengeColumns + `
		FROM score_challenges
		WHERE status = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s challenges: %w", status, err)
	}
	defer rows.Close()

	var challenges []*models.Challenge
	for rows.Next() {
		challenge, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge row: %w", err)
		}
		challenges = append(challenges, challenge)
	}
	return challenges, rows.Err()
}

func (r *postgresChallengeRepository) UpdateResolution(ctx context.Context, exec SQLExecutor, id int, status models.ChallengeStatus, decision string, resolvedBy int, resolvedAt time.Time) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `
		UPDATE score_challenges
		SET status = $1, admin_decision = $2, resolved_by = $3, resolved_at = $4
		WHERE id = $5`,
		status, decision, resolvedBy, resolvedAt, id)
	if err != nil {
		return fmt.Errorf("failed to resolve challenge %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrChallengeNotFound)
}
