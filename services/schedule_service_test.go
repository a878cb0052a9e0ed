package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtline/tennis-ladder/live"
	"github.com/courtline/tennis-ladder/models"
	"github.com/courtline/tennis-ladder/schedule"
)

func availablePlayers(n int) []schedule.Player {
	players := make([]schedule.Player, n)
	for i := range players {
		rank := i + 1
		players[i] = schedule.Player{ID: i + 1, Name: fmt.Sprintf("Player %d", i+1), Rank: &rank}
	}
	return players
}

func TestGenerateFixturesPersistsRotation(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, true)
	match := e.seedMatch(t, season.ID, time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// Nine players split into a four and a five.
	fixtures, err := e.scheduleService.GenerateFixtures(ctx, match.ID, availablePlayers(9))
	require.NoError(t, err)
	require.Len(t, fixtures, 8)

	byCourtGames := map[int]int{}
	for _, fixture := range fixtures {
		assert.Equal(t, match.ID, fixture.MatchID)
		assert.NotZero(t, fixture.ID, "fixtures must be persisted")
		byCourtGames[fixture.CourtNumber]++
		if fixture.CourtNumber == 1 {
			assert.Nil(t, fixture.SittingPlayerID)
		} else {
			require.NotNil(t, fixture.SittingPlayerID, "five-player court records who sits")
		}
	}
	assert.Equal(t, map[int]int{1: 3, 2: 5}, byCourtGames)

	stored, err := e.fixtures.ListByMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 8)

	updated, err := e.matches.GetByID(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusFixturesGenerated, updated.Status)

	require.Len(t, e.hub.eventsOfType(live.EventFixturesGenerated), 1)
}

func TestGenerateFixturesRefusesSecondRun(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, true)
	match := e.seedMatch(t, season.ID, time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := e.scheduleService.GenerateFixtures(ctx, match.ID, availablePlayers(8))
	require.NoError(t, err)
	_, err = e.scheduleService.GenerateFixtures(ctx, match.ID, availablePlayers(8))
	assert.ErrorIs(t, err, ErrFixturesAlreadyGenerated)
}

func TestGenerateFixturesUnschedulableRemainderPersistsNothing(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, true)
	match := e.seedMatch(t, season.ID, time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// Eleven players leave a three-player remainder court.
	_, err := e.scheduleService.GenerateFixtures(ctx, match.ID, availablePlayers(11))
	require.ErrorIs(t, err, schedule.ErrUnschedulableRemainder)

	assert.Empty(t, e.fixtures.fixtures)
	stored, err := e.matches.GetByID(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusScheduled, stored.Status)
}

func TestGenerateFixturesSeasonGuards(t *testing.T) {
	e := newEnv(t)
	season := e.seedSeason(t, true)
	match := e.seedMatch(t, season.ID, time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC))
	ctx := context.Background()

	e.seasons.seasons[season.ID].Status = models.SeasonStatusCompleted
	_, err := e.scheduleService.GenerateFixtures(ctx, match.ID, availablePlayers(8))
	assert.ErrorIs(t, err, ErrSeasonCompleted)

	_, err = e.scheduleService.GenerateFixtures(ctx, 99, availablePlayers(8))
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestListFixturesUnknownMatch(t *testing.T) {
	e := newEnv(t)
	_, err := e.scheduleService.ListFixtures(context.Background(), 99)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
