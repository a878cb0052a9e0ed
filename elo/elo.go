// Package elo holds the pure rating math. Nothing in here touches storage;
// the rating service feeds it current ratings and persists whatever it says.
package elo

import (
	"errors"
	"math"
)

// Ratings outside this band are clamped after every update.
const (
	MinRating = 500
	MaxRating = 3000
)

// Rating-gap thresholds for the qualitative match labels.
const (
	veryBalancedGap = 50
	upsetAlertGap   = 150
)

const (
	MatchTypeBalanced     = "balanced"
	MatchTypeVeryBalanced = "very_balanced"
	MatchTypeUpsetAlert   = "upset_alert"
)

var ErrNoGamesPlayed = errors.New("elo: result has zero total games")

// ExpectedScore returns the probability that a rating of a scores against a
// rating of b, per the standard logistic curve with a 400-point scale.
func ExpectedScore(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// Delta is the rounded rating change for one side given its actual score in
// [0, 1] and the k-factor in use.
func Delta(a, b, actual float64, k int) int {
	return int(math.Round(float64(k) * (actual - ExpectedScore(a, b))))
}

// Clamp bounds a rating to [MinRating, MaxRating].
func Clamp(r int) int {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}

// Average is the arithmetic mean of a team's member ratings.
func Average(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

// TeamChange is the symmetric outcome of one fixture for both teams. The
// per-team delta is computed from the team averages and applied unchanged to
// every member of that team.
type TeamChange struct {
	Team1Avg    float64
	Team2Avg    float64
	Team1Actual float64
	Team2Actual float64
	Team1Delta  int
	Team2Delta  int
}

// TeamDeltas computes both teams' rating changes for a fixture result. The
// actual score is fractional: games won over total games played, so winning
// 6-3 moves ratings less than winning 6-0 would.
func TeamDeltas(team1Ratings, team2Ratings []int, team1Score, team2Score, k int) (TeamChange, error) {
	totalGames := team1Score + team2Score
	if totalGames <= 0 {
		return TeamChange{}, ErrNoGamesPlayed
	}

	c := TeamChange{
		Team1Avg:    Average(team1Ratings),
		Team2Avg:    Average(team2Ratings),
		Team1Actual: float64(team1Score) / float64(totalGames),
		Team2Actual: float64(team2Score) / float64(totalGames),
	}
	c.Team1Delta = Delta(c.Team1Avg, c.Team2Avg, c.Team1Actual, k)
	c.Team2Delta = Delta(c.Team2Avg, c.Team1Avg, c.Team2Actual, k)
	return c, nil
}

// MatchType labels the gap between two team averages: "very_balanced" under
// a 50-point gap, "upset_alert" over 150, otherwise "balanced".
func MatchType(team1Avg, team2Avg float64) string {
	gap := math.Abs(team1Avg - team2Avg)
	switch {
	case gap > upsetAlertGap:
		return MatchTypeUpsetAlert
	case gap < veryBalancedGap:
		return MatchTypeVeryBalanced
	default:
		return MatchTypeBalanced
	}
}
