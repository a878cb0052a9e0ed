package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/courtline/tennis-ladder/elo"
	"github.com/courtline/tennis-ladder/live"
	"github.com/courtline/tennis-ladder/models"
	"github.com/courtline/tennis-ladder/repositories"
)

// Broadcaster pushes domain events to live subscribers. Services treat it as
// fire-and-forget.
type Broadcaster interface {
	Broadcast(event live.Event)
}

type RatingService interface {
	// ApplyFixtureResult updates both teams' season ratings for one
	// authoritative (or corrected) result and appends the history rows.
	ApplyFixtureResult(ctx context.Context, fixtureID, pair1Score, pair2Score int) error
	// RecalculateSeason resets every participant to the season's initial
	// rating, wipes the history, and replays all verified results in
	// ascending match-date order. Returns the number of fixtures replayed.
	RecalculateSeason(ctx context.Context, seasonID int) (int, error)
	// Predict is read-only: team averages, win probabilities and a
	// qualitative label for a hypothetical pairing.
	Predict(ctx context.Context, seasonID int, team1PlayerIDs, team2PlayerIDs []int) (*models.MatchPrediction, error)
}

type ratingService struct {
	db               *sql.DB
	seasonRepo       repositories.SeasonRepository
	matchRepo        repositories.MatchRepository
	fixtureRepo      repositories.FixtureRepository
	seasonPlayerRepo repositories.SeasonPlayerRepository
	playerRepo       repositories.PlayerRepository
	resultRepo       repositories.ResultRepository
	historyRepo      repositories.EloHistoryRepository
	hub              Broadcaster
	logger           *slog.Logger

	// recalcMu serializes in-process recalculations; the season status is
	// the cross-process fence.
	recalcMu sync.Mutex
}

func NewRatingService(
	db *sql.DB,
	seasonRepo repositories.SeasonRepository,
	matchRepo repositories.MatchRepository,
	fixtureRepo repositories.FixtureRepository,
	seasonPlayerRepo repositories.SeasonPlayerRepository,
	playerRepo repositories.PlayerRepository,
	resultRepo repositories.ResultRepository,
	historyRepo repositories.EloHistoryRepository,
	hub Broadcaster,
	logger *slog.Logger,
) RatingService {
	return &ratingService{
		db:               db,
		seasonRepo:       seasonRepo,
		matchRepo:        matchRepo,
		fixtureRepo:      fixtureRepo,
		seasonPlayerRepo: seasonPlayerRepo,
		playerRepo:       playerRepo,
		resultRepo:       resultRepo,
		historyRepo:      historyRepo,
		hub:              hub,
		logger:           logger,
	}
}

func (s *ratingService) ApplyFixtureResult(ctx context.Context, fixtureID, pair1Score, pair2Score int) error {
	fixture, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return ErrFixtureNotFound
		}
		return err
	}

	match, err := s.matchRepo.GetByID(ctx, fixture.MatchID)
	if err != nil {
		return fmt.Errorf("loading match %d for fixture %d: %w", fixture.MatchID, fixtureID, err)
	}
	season, err := s.seasonRepo.GetByID(ctx, match.SeasonID)
	if err != nil {
		return fmt.Errorf("loading season %d for fixture %d: %w", match.SeasonID, fixtureID, err)
	}

	return s.applyToSeason(ctx, season, fixture, pair1Score, pair2Score)
}

// applyToSeason does the actual rating update. The whole fixture's update is
// one transaction: four season ratings, four profile mirrors, four history
// rows, or none of them.
func (s *ratingService) applyToSeason(ctx context.Context, season *models.Season, fixture *models.Fixture, pair1Score, pair2Score int) error {
	if !season.EloEnabled {
		return nil
	}
	if pair1Score < 0 || pair2Score < 0 || pair1Score+pair2Score == 0 {
		return ErrScoreInvalid
	}

	pair1IDs, pair2IDs := fixture.PairPlayerIDs()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning rating update transaction: %w", err)
	}
	defer tx.Rollback()

	pair1Players := make([]*models.SeasonPlayer, 0, 2)
	pair2Players := make([]*models.SeasonPlayer, 0, 2)
	for _, playerID := range pair1IDs {
		sp, err := s.seasonPlayerRepo.GetOrCreate(ctx, tx, season.ID, playerID, season.EloInitialRating)
		if err != nil {
			return err
		}
		pair1Players = append(pair1Players, sp)
	}
	for _, playerID := range pair2IDs {
		sp, err := s.seasonPlayerRepo.GetOrCreate(ctx, tx, season.ID, playerID, season.EloInitialRating)
		if err != nil {
			return err
		}
		pair2Players = append(pair2Players, sp)
	}

	change, err := elo.TeamDeltas(
		ratingsOf(pair1Players),
		ratingsOf(pair2Players),
		pair1Score, pair2Score,
		season.EloKFactor,
	)
	if err != nil {
		return err
	}

	var entries []*models.EloHistoryEntry
	apply := func(players []*models.SeasonPlayer, delta int, opponentAvg float64, expected, actual float64) error {
		for _, sp := range players {
			oldRating := sp.EloRating
			newRating := elo.Clamp(oldRating + delta)
			if err := s.seasonPlayerRepo.UpdateRating(ctx, tx, sp.ID, newRating); err != nil {
				return err
			}
			if err := s.playerRepo.UpdateEloRating(ctx, tx, sp.PlayerID, newRating); err != nil {
				return err
			}
			sp.EloRating = newRating
			entries = append(entries, &models.EloHistoryEntry{
				SeasonPlayerID:    sp.ID,
				FixtureID:         fixture.ID,
				OldRating:         oldRating,
				NewRating:         newRating,
				RatingChange:      delta,
				KFactor:           season.EloKFactor,
				OpponentAvgRating: int(math.Round(opponentAvg)),
				ExpectedScore:     expected,
				ActualScore:       actual,
			})
		}
		return nil
	}

	expected1 := elo.ExpectedScore(change.Team1Avg, change.Team2Avg)
	if err := apply(pair1Players, change.Team1Delta, change.Team2Avg, expected1, change.Team1Actual); err != nil {
		return err
	}
	if err := apply(pair2Players, change.Team2Delta, change.Team1Avg, 1-expected1, change.Team2Actual); err != nil {
		return err
	}

	if err := s.historyRepo.BatchCreate(ctx, tx, entries); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rating update for fixture %d: %w", fixture.ID, err)
	}
	return nil
}

func (s *ratingService) RecalculateSeason(ctx context.Context, seasonID int) (int, error) {
	if !s.recalcMu.TryLock() {
		return 0, ErrRecalculationInProgress
	}
	defer s.recalcMu.Unlock()

	season, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return 0, ErrSeasonNotFound
		}
		return 0, err
	}
	if !season.EloEnabled {
		return 0, ErrEloDisabled
	}

	// An active season is fenced by flipping its status: submissions are
	// rejected until the replay finishes. A completed season's ledger is
	// already frozen, so no fence is needed.
	switch season.Status {
	case models.SeasonStatusActive:
		swapped, err := s.seasonRepo.CompareAndSwapStatus(ctx, seasonID,
			models.SeasonStatusActive, models.SeasonStatusRecalculating)
		if err != nil {
			return 0, err
		}
		if !swapped {
			return 0, ErrRecalculationInProgress
		}
		defer func() {
			if _, err := s.seasonRepo.CompareAndSwapStatus(ctx, seasonID,
				models.SeasonStatusRecalculating, models.SeasonStatusActive); err != nil {
				s.logger.Error("failed to unlock season after recalculation",
					slog.Int("season_id", seasonID), slog.Any("error", err))
			}
		}()
	case models.SeasonStatusCompleted:
		// proceed
	default:
		return 0, ErrRecalculationInProgress
	}

	// Reset ratings and wipe history atomically so a crash mid-replay
	// leaves an obviously-reset season rather than a half-stale chain.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning recalculation reset: %w", err)
	}
	defer tx.Rollback()
	if err := s.seasonPlayerRepo.ResetRatings(ctx, tx, seasonID, season.EloInitialRating); err != nil {
		return 0, err
	}
	if err := s.historyRepo.DeleteBySeason(ctx, tx, seasonID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing recalculation reset: %w", err)
	}

	scores, err := s.resultRepo.ListVerifiedBySeason(ctx, seasonID)
	if err != nil {
		return 0, err
	}

	// Strictly sequential: every update reads the ratings the previous one
	// wrote. The repository orders by match date (ties broken by match id,
	// then fixture id).
	replayed := 0
	for _, score := range scores {
		fixture, err := s.fixtureRepo.GetByID(ctx, score.FixtureID)
		if err != nil {
			return replayed, fmt.Errorf("replaying fixture %d: %w", score.FixtureID, err)
		}
		if err := s.applyToSeason(ctx, season, fixture, score.Pair1Score, score.Pair2Score); err != nil {
			return replayed, fmt.Errorf("replaying fixture %d: %w", score.FixtureID, err)
		}
		replayed++
	}

	// Re-mirror final season ratings onto the global profiles.
	seasonPlayers, err := s.seasonPlayerRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return replayed, err
	}
	for _, sp := range seasonPlayers {
		if err := s.playerRepo.UpdateEloRating(ctx, nil, sp.PlayerID, sp.EloRating); err != nil {
			return replayed, err
		}
	}

	if s.hub != nil {
		s.hub.Broadcast(live.Event{
			Type:     live.EventSeasonRecalculated,
			SeasonID: seasonID,
			Payload:  map[string]int{"fixtures_replayed": replayed},
		})
	}

	s.logger.Info("season ratings recalculated",
		slog.Int("season_id", seasonID), slog.Int("fixtures_replayed", replayed))
	return replayed, nil
}

func (s *ratingService) Predict(ctx context.Context, seasonID int, team1PlayerIDs, team2PlayerIDs []int) (*models.MatchPrediction, error) {
	if len(team1PlayerIDs) == 0 || len(team2PlayerIDs) == 0 {
		return nil, ErrTeamPlayersRequired
	}

	season, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	if !season.EloEnabled {
		return nil, ErrEloDisabled
	}

	ratingFor := func(playerID int) (int, error) {
		sp, err := s.seasonPlayerRepo.GetBySeasonAndPlayer(ctx, nil, seasonID, playerID)
		if err != nil {
			if errors.Is(err, repositories.ErrSeasonPlayerNotFound) {
				return season.EloInitialRating, nil
			}
			return 0, err
		}
		return sp.EloRating, nil
	}

	teamRatings := func(playerIDs []int) ([]int, error) {
		ratings := make([]int, 0, len(playerIDs))
		for _, id := range playerIDs {
			rating, err := ratingFor(id)
			if err != nil {
				return nil, err
			}
			ratings = append(ratings, rating)
		}
		return ratings, nil
	}

	team1Ratings, err := teamRatings(team1PlayerIDs)
	if err != nil {
		return nil, err
	}
	team2Ratings, err := teamRatings(team2PlayerIDs)
	if err != nil {
		return nil, err
	}

	team1Avg := elo.Average(team1Ratings)
	team2Avg := elo.Average(team2Ratings)
	team1Win := elo.ExpectedScore(team1Avg, team2Avg)

	return &models.MatchPrediction{
		Team1AvgRating:      int(math.Round(team1Avg)),
		Team2AvgRating:      int(math.Round(team2Avg)),
		Team1WinProbability: team1Win,
		Team2WinProbability: 1 - team1Win,
		RatingDifference:    int(math.Round(math.Abs(team1Avg - team2Avg))),
		MatchType:           elo.MatchType(team1Avg, team2Avg),
	}, nil
}

func ratingsOf(players []*models.SeasonPlayer) []int {
	ratings := make([]int, len(players))
	for i, sp := range players {
		ratings[i] = sp.EloRating
	}
	return ratings
}
