package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtline/tennis-ladder/models"
)

var (
	ErrFixtureNotFound = errors.New("fixture not found")
	ErrFixtureInvalid  = errors.New("fixture references a missing match or player")
)

type FixtureRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, fixtures []*models.Fixture) error
	GetByID(ctx context.Context, id int) (*models.Fixture, error)
	ListByMatch(ctx context.Context, matchID int) ([]*models.Fixture, error)
	ExistsForMatch(ctx context.Context, matchID int) (bool, error)
}

type postgresFixtureRepository struct {
	db *sql.DB
}

func NewPostgresFixtureRepository(db *sql.DB) FixtureRepository {
	return &postgresFixtureRepository{db: db}
}

const fixtureColumns = `id, match_id, court_number, game_number,
	pair1_player1_id, pair1_player2_id, pair2_player1_id, pair2_player2_id,
	sitting_player_id, created_at`

func scanFixture(row interface{ Scan(...interface{}) error }) (*models.Fixture, error) {
	fixture := &models.Fixture{}
	err := row.Scan(
		&fixture.ID,
		&fixture.MatchID,
		&fixture.CourtNumber,
		&fixture.GameNumber,
		&fixture.Pair1Player1ID,
		&fixture.Pair1Player2ID,
		&fixture.Pair2Player1ID,
		&fixture.Pair2Player2ID,
		&fixture.SittingPlayerID,
		&fixture.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return fixture, nil
}

// BatchCreate inserts a whole match's fixtures. Callers run it inside a
// transaction so a match never ends up with half its courts persisted.
func (r *postgresFixtureRepository) BatchCreate(ctx context.Context, exec SQLExecutor, fixtures []*models.Fixture) error {
	query := `
		INSERT INTO match_fixtures
			(match_id, court_number, game_number,
			 pair1_player1_id, pair1_player2_id, pair2_player1_id, pair2_player2_id,
			 sitting_player_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	execr := executor(r.db, exec)
	for _, fixture := range fixtures {
		err := execr.QueryRowContext(ctx, query,
			fixture.MatchID,
			fixture.CourtNumber,
			fixture.GameNumber,
			fixture.Pair1Player1ID,
			fixture.Pair1Player2ID,
			fixture.Pair2Player1ID,
			fixture.Pair2Player2ID,
			fixture.SittingPlayerID,
		).Scan(&fixture.ID, &fixture.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrFixtureInvalid
			}
			return fmt.Errorf("failed to create fixture (court %d, game %d): %w",
				fixture.CourtNumber, fixture.GameNumber, err)
		}
	}
	return nil
}

func (r *postgresFixtureRepository) GetByID(ctx context.Context, id int) (*models.Fixture, error) {
	query := `SELECT ` + fixtureColumns + ` FROM match_fixtures WHERE id = $1`

	fixture, err := scanFixture(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFixtureNotFound
		}
		return nil, fmt.Errorf("failed to scan fixture %d: %w", id, err)
	}
	return fixture, nil
}

func (r *postgresFixtureRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.Fixture, error) {
	query := `SELECT ` + fixtureColumns + `
		FROM match_fixtures
		WHERE match_id = $1
		ORDER BY court_number ASC, game_number ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list match %d fixtures: %w", matchID, err)
	}
	defer rows.Close()

	var fixtures []*models.Fixture
	for rows.Next() {
		fixture, err := scanFixture(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixture row: %w", err)
		}
		fixtures = append(fixtures, fixture)
	}
	return fixtures, rows.Err()
}

func (r *postgresFixtureRepository) ExistsForMatch(ctx context.Context, matchID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM match_fixtures WHERE match_id = $1)`, matchID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check fixtures for match %d: %w", matchID, err)
	}
	return exists, nil
}
