package models

import "time"

// EloHistoryEntry is the append-only record of one rating change for one
// season player, linked to the fixture that caused it. Rows are never
// mutated; a full-season recalculation deletes and regenerates the set.
type EloHistoryEntry struct {
	ID                int       `json:"id" db:"id"`
	SeasonPlayerID    int       `json:"season_player_id" db:"season_player_id"`
	FixtureID         int       `json:"fixture_id" db:"fixture_id"`
	OldRating         int       `json:"old_rating" db:"old_rating"`
	NewRating         int       `json:"new_rating" db:"new_rating"`
	RatingChange      int       `json:"rating_change" db:"rating_change"`
	KFactor           int       `json:"k_factor" db:"k_factor"`
	OpponentAvgRating int       `json:"opponent_avg_rating" db:"opponent_avg_rating"`
	ExpectedScore     float64   `json:"expected_score" db:"expected_score"`
	ActualScore       float64   `json:"actual_score" db:"actual_score"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// FixtureScore is the projection used by a season replay: one verified
// result joined with its fixture's match date, in replay order.
type FixtureScore struct {
	FixtureID  int       `json:"fixture_id" db:"fixture_id"`
	MatchID    int       `json:"match_id" db:"match_id"`
	MatchDate  time.Time `json:"match_date" db:"match_date"`
	Pair1Score int       `json:"pair1_score" db:"pair1_score"`
	Pair2Score int       `json:"pair2_score" db:"pair2_score"`
}

// MatchPrediction is the read-only outcome forecast for a hypothetical
// pairing of two teams within a season.
type MatchPrediction struct {
	Team1AvgRating      int     `json:"team1_avg_rating"`
	Team2AvgRating      int     `json:"team2_avg_rating"`
	Team1WinProbability float64 `json:"team1_win_probability"`
	Team2WinProbability float64 `json:"team2_win_probability"`
	RatingDifference    int     `json:"rating_difference"`
	MatchType           string  `json:"match_type"`
}
