package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled         MatchStatus = "scheduled"
	MatchStatusFixturesGenerated MatchStatus = "fixtures_generated"
	MatchStatusCompleted         MatchStatus = "completed"
)

// Match is one scheduled play date within a season.
type Match struct {
	ID         int         `json:"id" db:"id"`
	SeasonID   int         `json:"season_id" db:"season_id"`
	WeekNumber int         `json:"week_number" db:"week_number"`
	MatchDate  time.Time   `json:"match_date" db:"match_date"`
	Status     MatchStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

// Fixture is one court's game within a Match: two pairs plus, for
// five-player courts, the single player sitting that game out. Immutable
// once created; results attach to it by id.
type Fixture struct {
	ID              int       `json:"id" db:"id"`
	MatchID         int       `json:"match_id" db:"match_id"`
	CourtNumber     int       `json:"court_number" db:"court_number"`
	GameNumber      int       `json:"game_number" db:"game_number"`
	Pair1Player1ID  int       `json:"pair1_player1_id" db:"pair1_player1_id"`
	Pair1Player2ID  int       `json:"pair1_player2_id" db:"pair1_player2_id"`
	Pair2Player1ID  int       `json:"pair2_player1_id" db:"pair2_player1_id"`
	Pair2Player2ID  int       `json:"pair2_player2_id" db:"pair2_player2_id"`
	SittingPlayerID *int      `json:"sitting_player_id,omitempty" db:"sitting_player_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// PairPlayerIDs returns the two pairs' player ids in fixture slot order.
func (f *Fixture) PairPlayerIDs() (pair1, pair2 [2]int) {
	pair1 = [2]int{f.Pair1Player1ID, f.Pair1Player2ID}
	pair2 = [2]int{f.Pair2Player1ID, f.Pair2Player2ID}
	return pair1, pair2
}
