package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtline/tennis-ladder/models"
)

var (
	ErrSeasonPlayerNotFound = errors.New("season player not found")
	ErrSeasonPlayerConflict = errors.New("player already joined this season")
)

type SeasonPlayerRepository interface {
	Create(ctx context.Context, seasonPlayer *models.SeasonPlayer) error
	GetBySeasonAndPlayer(ctx context.Context, exec SQLExecutor, seasonID, playerID int) (*models.SeasonPlayer, error)
	// GetOrCreate loads the participation record, creating it at the given
	// initial rating when the player has none yet for this season.
	GetOrCreate(ctx context.Context, exec SQLExecutor, seasonID, playerID, initialRating int) (*models.SeasonPlayer, error)
	ListBySeason(ctx context.Context, seasonID int) ([]*models.SeasonPlayer, error)
	UpdateRating(ctx context.Context, exec SQLExecutor, id int, rating int) error
	ResetRatings(ctx context.Context, exec SQLExecutor, seasonID, rating int) error
	IncrementStats(ctx context.Context, exec SQLExecutor, id int, wonMatch bool, gamesWon, gamesLost int) error
	// AdjustStats applies signed corrections without touching matches_played;
	// score corrections rewrite an existing game, not add one.
	AdjustStats(ctx context.Context, exec SQLExecutor, id int, matchesWonDelta, gamesWonDelta, gamesLostDelta int) error
}

type postgresSeasonPlayerRepository struct {
	db *sql.DB
}

func NewPostgresSeasonPlayerRepository(db *sql.DB) SeasonPlayerRepository {
	return &postgresSeasonPlayerRepository{db: db}
}

const seasonPlayerColumns = `id, season_id, player_id, elo_rating, matches_played, matches_won, games_played, games_won, created_at`

func scanSeasonPlayer(row interface{ Scan(...interface{}) error }) (*models.SeasonPlayer, error) {
	sp := &models.SeasonPlayer{}
	err := row.Scan(
		&sp.ID,
		&sp.SeasonID,
		&sp.PlayerID,
		&sp.EloRating,
		&sp.MatchesPlayed,
		&sp.MatchesWon,
		&sp.GamesPlayed,
		&sp.GamesWon,
		&sp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sp, nil
}

func (r *postgresSeasonPlayerRepository) Create(ctx context.Context, seasonPlayer *models.SeasonPlayer) error {
	query := `
		INSERT INTO season_players (season_id, player_id, elo_rating)
		VALUES ($1, $2, $3)
		RETURNING id, matches_played, matches_won, games_played, games_won, created_at`

	err := r.db.QueryRowContext(ctx, query,
		seasonPlayer.SeasonID,
		seasonPlayer.PlayerID,
		seasonPlayer.EloRating,
	).Scan(
		&seasonPlayer.ID,
		&seasonPlayer.MatchesPlayed,
		&seasonPlayer.MatchesWon,
		&seasonPlayer.GamesPlayed,
		&seasonPlayer.GamesWon,
		&seasonPlayer.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "season_players_season_id_player_id_key") {
			return ErrSeasonPlayerConflict
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("season or player does not exist: %w", err)
		}
		return fmt.Errorf("failed to create season player: %w", err)
	}
	return nil
}

func (r *postgresSeasonPlayerRepository) GetBySeasonAndPlayer(ctx context.Context, exec SQLExecutor, seasonID, playerID int) (*models.SeasonPlayer, error) {
	query := `SELECT ` + seasonPlayerColumns + `
		FROM season_players
		WHERE season_id = $1 AND player_id = $2`

	sp, err := scanSeasonPlayer(executor(r.db, exec).QueryRowContext(ctx, query, seasonID, playerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan season player (season %d, player %d): %w", seasonID, playerID, err)
	}
	return sp, nil
}

func (r *postgresSeasonPlayerRepository) GetOrCreate(ctx context.Context, exec SQLExecutor, seasonID, playerID, initialRating int) (*models.SeasonPlayer, error) {
	sp, err := r.GetBySeasonAndPlayer(ctx, exec, seasonID, playerID)
	if err == nil {
		return sp, nil
	}
	if !errors.Is(err, ErrSeasonPlayerNotFound) {
		return nil, err
	}

	query := `
		INSERT INTO season_players (season_id, player_id, elo_rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (season_id, player_id) DO UPDATE SET season_id = EXCLUDED.season_id
		RETURNING ` + seasonPlayerColumns

	sp, err = scanSeasonPlayer(executor(r.db, exec).QueryRowContext(ctx, query, seasonID, playerID, initialRating))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create season player (season %d, player %d): %w", seasonID, playerID, err)
	}
	return sp, nil
}

// ListBySeason returns the season table ordered by rating, joined with the
// player profile for display.
func (r *postgresSeasonPlayerRepository) ListBySeason(ctx context.Context, seasonID int) ([]*models.SeasonPlayer, error) {
	query := `
		SELECT sp.id, sp.season_id, sp.player_id, sp.elo_rating,
		       sp.matches_played, sp.matches_won, sp.games_played, sp.games_won, sp.created_at,
		       p.id, p.name, p.rank, p.elo_rating, p.in_ladder, p.status, p.created_at
		FROM season_players sp
		JOIN players p ON p.id = sp.player_id
		WHERE sp.season_id = $1
		ORDER BY sp.elo_rating DESC, p.name ASC`

	rows, err := r.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list season %d players: %w", seasonID, err)
	}
	defer rows.Close()

	var seasonPlayers []*models.SeasonPlayer
	for rows.Next() {
		sp := &models.SeasonPlayer{Player: &models.Player{}}
		if err := rows.Scan(
			&sp.ID,
			&sp.SeasonID,
			&sp.PlayerID,
			&sp.EloRating,
			&sp.MatchesPlayed,
			&sp.MatchesWon,
			&sp.GamesPlayed,
			&sp.GamesWon,
			&sp.CreatedAt,
			&sp.Player.ID,
			&sp.Player.Name,
			&sp.Player.Rank,
			&sp.Player.EloRating,
			&sp.Player.InLadder,
			&sp.Player.Status,
			&sp.Player.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan season player row: %w", err)
		}
		seasonPlayers = append(seasonPlayers, sp)
	}
	return seasonPlayers, rows.Err()
}

func (r *postgresSeasonPlayerRepository) UpdateRating(ctx context.Context, exec SQLExecutor, id int, rating int) error {
	result, err := executor(r.db, exec).ExecContext(ctx,
		`UPDATE season_players SET elo_rating = $1 WHERE id = $2`, rating, id)
	if err != nil {
		return fmt.Errorf("failed to update season player %d rating: %w", id, err)
	}
	return checkAffectedRows(result, ErrSeasonPlayerNotFound)
}

// ResetRatings rewinds every participant to the season's starting value;
// only a full-season recalculation calls this.
func (r *postgresSeasonPlayerRepository) ResetRatings(ctx context.Context, exec SQLExecutor, seasonID, rating int) error {
	_, err := executor(r.db, exec).ExecContext(ctx,
		`UPDATE season_players SET elo_rating = $1 WHERE season_id = $2`, rating, seasonID)
	if err != nil {
		return fmt.Errorf("failed to reset season %d ratings: %w", seasonID, err)
	}
	return nil
}

func (r *postgresSeasonPlayerRepository) IncrementStats(ctx context.Context, exec SQLExecutor, id int, wonMatch bool, gamesWon, gamesLost int) error {
	matchesWon := 0
	if wonMatch {
		matchesWon = 1
	}
	result, err := executor(r.db, exec).ExecContext(ctx, `
		UPDATE season_players
		SET matches_played = matches_played + 1,
		    matches_won = matches_won + $1,
		    games_played = games_played + $2,
		    games_won = games_won + $3
		WHERE id = $4`,
		matchesWon, gamesWon+gamesLost, gamesWon, id)
	if err != nil {
		return fmt.Errorf("failed to update season player %d stats: %w", id, err)
	}
	return checkAffectedRows(result, ErrSeasonPlayerNotFound)
}

func (r *postgresSeasonPlayerRepository) AdjustStats(ctx context.Context, exec SQLExecutor, id int, matchesWonDelta, gamesWonDelta, gamesLostDelta int) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `
		UPDATE season_players
		SET matches_won = matches_won + $1,
		    games_played = games_played + $2,
		    games_won = games_won + $3
		WHERE id = $4`,
		matchesWonDelta, gamesWonDelta+gamesLostDelta, gamesWonDelta, id)
	if err != nil {
		return fmt.Errorf("failed to adjust season player %d stats: %w", id, err)
	}
	return checkAffectedRows(result, ErrSeasonPlayerNotFound)
}
