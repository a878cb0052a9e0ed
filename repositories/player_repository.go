package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtline/tennis-ladder/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListLadder(ctx context.Context) ([]*models.Player, error)
	UpdateEloRating(ctx context.Context, exec SQLExecutor, id int, rating int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT id, name, rank, elo_rating, in_ladder, status, created_at
		FROM players
		WHERE id = $1`

	player := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&player.ID,
		&player.Name,
		&player.Rank,
		&player.EloRating,
		&player.InLadder,
		&player.Status,
		&player.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player %d: %w", id, err)
	}
	return player, nil
}

// ListLadder returns approved ladder members ordered by rank, unranked last.
func (r *postgresPlayerRepository) ListLadder(ctx context.Context) ([]*models.Player, error) {
	query := `
		SELECT id, name, rank, elo_rating, in_ladder, status, created_at
		FROM players
		WHERE in_ladder = TRUE AND status = 'approved'
		ORDER BY rank ASC NULLS LAST, name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ladder players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player := &models.Player{}
		if err := rows.Scan(
			&player.ID,
			&player.Name,
			&player.Rank,
			&player.EloRating,
			&player.InLadder,
			&player.Status,
			&player.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ladder player: %w", err)
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

// UpdateEloRating writes the global rating mirror; the season rating stays
// the working value.
func (r *postgresPlayerRepository) UpdateEloRating(ctx context.Context, exec SQLExecutor, id int, rating int) error {
	result, err := executor(r.db, exec).ExecContext(ctx,
		`UPDATE players SET elo_rating = $1 WHERE id = $2`, rating, id)
	if err != nil {
		return fmt.Errorf("failed to update player %d elo mirror: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
