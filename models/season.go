package models

import "time"

// SeasonStatus values correspond to the seasons.status ENUM in the database.
// "recalculating" is the procedural lock taken for the duration of a full
// ELO replay: score submissions are rejected while it is set.
type SeasonStatus string

const (
	SeasonStatusActive        SeasonStatus = "active"
	SeasonStatusRecalculating SeasonStatus = "recalculating"
	SeasonStatusCompleted     SeasonStatus = "completed"
)

type Season struct {
	ID               int          `json:"id" db:"id"`
	Name             string       `json:"name" db:"name"`
	Status           SeasonStatus `json:"status" db:"status"`
	EloEnabled       bool         `json:"elo_enabled" db:"elo_enabled"`
	EloKFactor       int          `json:"elo_k_factor" db:"elo_k_factor"`
	EloInitialRating int          `json:"elo_initial_rating" db:"elo_initial_rating"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
}

// SeasonPlayer is one player's participation record within one season.
// Exactly one row per (season, player); the season rating starts at the
// season's configured initial value.
type SeasonPlayer struct {
	ID            int       `json:"id" db:"id"`
	SeasonID      int       `json:"season_id" db:"season_id"`
	PlayerID      int       `json:"player_id" db:"player_id"`
	EloRating     int       `json:"elo_rating" db:"elo_rating"`
	MatchesPlayed int       `json:"matches_played" db:"matches_played"`
	MatchesWon    int       `json:"matches_won" db:"matches_won"`
	GamesPlayed   int       `json:"games_played" db:"games_played"`
	GamesWon      int       `json:"games_won" db:"games_won"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}
