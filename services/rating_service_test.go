package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtline/tennis-ladder/elo"
	"github.com/courtline/tennis-ladder/live"
	"github.com/courtline/tennis-ladder/models"
)

func TestApplyFixtureResultSpreadsTeamDelta(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, true)
	match := e.seedMatch(t, season.ID, time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC))
	fixture := e.seedFixture(t, match.ID, [4]int{1, 2, 3, 4})
	for id := 1; id <= 4; id++ {
		e.seedPlayer(t, id, "Player")
	}

	err := e.ratingService.ApplyFixtureResult(context.Background(), fixture.ID, 6, 3)
	require.NoError(t, err)

	// Equal teams, 6-3: round(32 * (6/9 - 0.5)) = 5, same for every member.
	for _, id := range []int{1, 2} {
		assert.Equal(t, 1205, e.seasonRating(t, season.ID, id))
		assert.Equal(t, 1205, e.players.players[id].EloRating, "profile rating should mirror the season rating")
	}
	for _, id := range []int{3, 4} {
		assert.Equal(t, 1195, e.seasonRating(t, season.ID, id))
		assert.Equal(t, 1195, e.players.players[id].EloRating)
	}

	require.Len(t, e.history.entries, 4)
	for _, entry := range e.history.entries {
		assert.Equal(t, fixture.ID, entry.FixtureID)
		assert.Equal(t, 32, entry.KFactor)
		assert.Equal(t, 1200, entry.OldRating)
		assert.InDelta(t, 0.5, entry.ExpectedScore, 1e-9)
	}
	assert.Equal(t, 5, e.history.entries[0].RatingChange)
	assert.Equal(t, -5, e.history.entries[2].RatingChange)
}

func TestApplyFixtureResultDisabledSeasonIsNoop(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, false)
	match := e.seedMatch(t, season.ID, time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC))
	fixture := e.seedFixture(t, match.ID, [4]int{1, 2, 3, 4})

	err := e.ratingService.ApplyFixtureResult(context.Background(), fixture.ID, 6, 3)
	require.NoError(t, err)
	assert.Empty(t, e.history.entries)
	assert.Empty(t, e.seasonPlayers.seasonPlayers)
}

func TestApplyFixtureResultRejectsEmptyScore(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, true)
	match := e.seedMatch(t, season.ID, time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC))
	fixture := e.seedFixture(t, match.ID, [4]int{1, 2, 3, 4})

	err := e.ratingService.ApplyFixtureResult(context.Background(), fixture.ID, 0, 0)
	assert.ErrorIs(t, err, ErrScoreInvalid)
}

func TestApplyFixtureResultUnknownFixture(t *testing.T) {
	e := newEnv(t)
	err := e.ratingService.ApplyFixtureResult(context.Background(), 99, 6, 3)
	assert.ErrorIs(t, err, ErrFixtureNotFound)
}

func TestRecalculateSeasonReplaysInDateOrder(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, true)
	for id := 1; id <= 4; id++ {
		e.seedPlayer(t, id, "Player")
	}

	// The later match night is created first, so id order and date order
	// disagree; the replay must follow dates.
	laterMatch := e.seedMatch(t, season.ID, time.Date(2026, 6, 17, 19, 0, 0, 0, time.UTC))
	earlierMatch := e.seedMatch(t, season.ID, time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC))
	laterFixture := e.seedFixture(t, laterMatch.ID, [4]int{1, 2, 3, 4})
	earlierFixture := e.seedFixture(t, earlierMatch.ID, [4]int{1, 3, 2, 4})

	e.results.insert(&models.Result{FixtureID: laterFixture.ID, Pair1Score: 6, Pair2Score: 0, SubmittedBy: 1, Verified: true})
	e.results.insert(&models.Result{FixtureID: earlierFixture.ID, Pair1Score: 6, Pair2Score: 4, SubmittedBy: 1, Verified: true})

	replayed, err := e.ratingService.RecalculateSeason(context.Background(), season.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, replayed)

	require.Len(t, e.history.entries, 8)
	for _, entry := range e.history.entries[:4] {
		assert.Equal(t, earlierFixture.ID, entry.FixtureID)
	}
	for _, entry := range e.history.entries[4:] {
		assert.Equal(t, laterFixture.ID, entry.FixtureID)
	}

	// The season is unlocked again once the replay finishes.
	stored, err := e.seasons.GetByID(context.Background(), season.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SeasonStatusActive, stored.Status)
}

func TestRecalculateSeasonIsRepeatable(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, true)
	for id := 1; id <= 4; id++ {
		e.seedPlayer(t, id, "Player")
	}
	match := e.seedMatch(t, season.ID, time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC))
	fixture := e.seedFixture(t, match.ID, [4]int{1, 2, 3, 4})
	e.results.insert(&models.Result{FixtureID: fixture.ID, Pair1Score: 6, Pair2Score: 3, SubmittedBy: 1, Verified: true})

	_, err := e.ratingService.RecalculateSeason(context.Background(), season.ID)
	require.NoError(t, err)
	first := map[int]int{}
	for id := 1; id <= 4; id++ {
		first[id] = e.seasonRating(t, season.ID, id)
	}
	historyLen := len(e.history.entries)

	_, err = e.ratingService.RecalculateSeason(context.Background(), season.ID)
	require.NoError(t, err)
	for id := 1; id <= 4; id++ {
		assert.Equal(t, first[id], e.seasonRating(t, season.ID, id))
	}
	assert.Len(t, e.history.entries, historyLen)
}

func TestRecalculateSeasonBlockedWhileLocked(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, true)
	e.seasons.seasons[season.ID].Status = models.SeasonStatusRecalculating

	_, err := e.ratingService.RecalculateSeason(context.Background(), season.ID)
	assert.ErrorIs(t, err, ErrRecalculationInProgress)
}

func TestRecalculateSeasonEloDisabled(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, false)
	_, err := e.ratingService.RecalculateSeason(context.Background(), season.ID)
	assert.ErrorIs(t, err, ErrEloDisabled)
}

func TestRecalculateSeasonBroadcasts(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, true)
	_, err := e.ratingService.RecalculateSeason(context.Background(), season.ID)
	require.NoError(t, err)

	events := e.hub.eventsOfType(live.EventSeasonRecalculated)
	require.Len(t, events, 1)
	assert.Equal(t, season.ID, events[0].SeasonID)
}

func TestPredictUsesSeasonRatings(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, true)
	ctx := context.Background()
	for id, rating := range map[int]int{1: 1400, 2: 1400, 3: 1200, 4: 1200} {
		sp, err := e.seasonPlayers.GetOrCreate(ctx, nil, season.ID, id, season.EloInitialRating)
		require.NoError(t, err)
		require.NoError(t, e.seasonPlayers.UpdateRating(ctx, nil, sp.ID, rating))
	}

	prediction, err := e.ratingService.Predict(ctx, season.ID, []int{1, 2}, []int{3, 4})
	require.NoError(t, err)

	assert.Equal(t, 1400, prediction.Team1AvgRating)
	assert.Equal(t, 1200, prediction.Team2AvgRating)
	assert.Equal(t, 200, prediction.RatingDifference)
	assert.Equal(t, elo.MatchTypeUpsetAlert, prediction.MatchType)
	assert.InDelta(t, elo.ExpectedScore(1400, 1200), prediction.Team1WinProbability, 1e-9)
	assert.InDelta(t, 1.0, prediction.Team1WinProbability+prediction.Team2WinProbability, 1e-9)
}

func TestPredictDefaultsUnknownPlayers(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, true)

	prediction, err := e.ratingService.Predict(context.Background(), season.ID, []int{7, 8}, []int{9, 10})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, prediction.Team1WinProbability, 1e-9)
	assert.Equal(t, elo.MatchTypeVeryBalanced, prediction.MatchType)
}

func TestPredictRequiresBothTeams(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, true)
	_, err := e.ratingService.Predict(context.Background(), season.ID, nil, []int{1, 2})
	assert.ErrorIs(t, err, ErrTeamPlayersRequired)
}
