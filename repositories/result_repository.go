package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtline/tennis-ladder/models"
)

var (
	ErrResultNotFound = errors.New("result not found")

	// ErrResultAlreadyRecorded surfaces the partial unique index on
	// (fixture_id) WHERE verified. That index, not the advisory existence
	// check, is what serializes concurrent submissions: whichever insert
	// the store accepts first wins, and the loser sees this error.
	ErrResultAlreadyRecorded = errors.New("a verified result already exists for this fixture")
)

type ResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.Result) error
	GetByID(ctx context.Context, id int) (*models.Result, error)
	GetVerifiedByFixture(ctx context.Context, fixtureID int) (*models.Result, error)
	// Unverify flips a result's verified flag off. Scores are never
	// rewritten; corrections supersede by inserting a new verified row.
	Unverify(ctx context.Context, exec SQLExecutor, id int) error
	// ListVerifiedBySeason returns every authoritative result for the
	// season in replay order: match date, then match id, then fixture id.
	ListVerifiedBySeason(ctx context.Context, seasonID int) ([]*models.FixtureScore, error)
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) Create(ctx context.Context, exec SQLExecutor, result *models.Result) error {
	query := `
		INSERT INTO match_results (fixture_id, pair1_score, pair2_score, submitted_by, verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		result.FixtureID,
		result.Pair1Score,
		result.Pair2Score,
		result.SubmittedBy,
		result.Verified,
	).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "match_results_one_verified_per_fixture") {
			return ErrResultAlreadyRecorded
		}
		if isForeignKeyViolation(err) {
			return ErrFixtureNotFound
		}
		return fmt.Errorf("failed to create result for fixture %d: %w", result.FixtureID, err)
	}
	return nil
}

func (r *postgresResultRepository) GetByID(ctx context.Context, id int) (*models.Result, error) {
	query := `
		SELECT id, fixture_id, pair1_score, pair2_score, submitted_by, verified, created_at
		FROM match_results
		WHERE id = $1`

	result := &models.Result{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&result.ID,
		&result.FixtureID,
		&result.Pair1Score,
		&result.Pair2Score,
		&result.SubmittedBy,
		&result.Verified,
		&result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to scan result %d: %w", id, err)
	}
	return result, nil
}

func (r *postgresResultRepository) GetVerifiedByFixture(ctx context.Context, fixtureID int) (*models.Result, error) {
	query := `
		SELECT id, fixture_id, pair1_score, pair2_score, submitted_by, verified, created_at
		FROM match_results
		WHERE fixture_id = $1 AND verified = TRUE`

	result := &models.Result{}
	err := r.db.QueryRowContext(ctx, query, fixtureID).Scan(
		&result.ID,
		&result.FixtureID,
		&result.Pair1Score,
		&result.Pair2Score,
		&result.SubmittedBy,
		&result.Verified,
		&result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to scan verified result for fixture %d: %w", fixtureID, err)
	}
	return result, nil
}

func (r *postgresResultRepository) Unverify(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := executor(r.db, exec).ExecContext(ctx,
		`UPDATE match_results SET verified = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to unverify result %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrResultNotFound)
}

func (r *postgresResultRepository) ListVerifiedBySeason(ctx context.Context, seasonID int) ([]*models.FixtureScore, error) {
	query := `
		SELECT mr.fixture_id, m.id, m.match_date, mr.pair1_score, mr.pair2_score
		FROM match_results mr
		JOIN match_fixtures mf ON mf.id = mr.fixture_id
		JOIN matches m ON m.id = mf.match_id
		WHERE m.season_id = $1 AND mr.verified = TRUE
		ORDER BY m.match_date ASC, m.id ASC, mr.fixture_id ASC`

	rows, err := r.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list verified results for season %d: %w", seasonID, err)
	}
	defer rows.Close()

	var scores []*models.FixtureScore
	for rows.Next() {
		fs := &models.FixtureScore{}
		if err := rows.Scan(
			&fs.FixtureID,
			&fs.MatchID,
			&fs.MatchDate,
			&fs.Pair1Score,
			&fs.Pair2Score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fixture score row: %w", err)
		}
		scores = append(scores, fs)
	}
	return scores, rows.Err()
}
