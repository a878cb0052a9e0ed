package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/courtline/tennis-ladder/live"
	"github.com/courtline/tennis-ladder/models"
	"github.com/courtline/tennis-ladder/repositories"
	"github.com/courtline/tennis-ladder/schedule"
)

type ScheduleService interface {
	// GenerateFixtures partitions the available players into courts,
	// expands the rotation for each court and persists the resulting
	// fixtures. It is all-or-nothing: a remainder that cannot be scheduled
	// fails the whole match night.
	GenerateFixtures(ctx context.Context, matchID int, available []schedule.Player) ([]*models.Fixture, error)
	ListFixtures(ctx context.Context, matchID int) ([]*models.Fixture, error)
}

type scheduleService struct {
	db          *sql.DB
	seasonRepo  repositories.SeasonRepository
	matchRepo   repositories.MatchRepository
	fixtureRepo repositories.FixtureRepository
	hub         Broadcaster
	logger      *slog.Logger
}

func NewScheduleService(
	db *sql.DB,
	seasonRepo repositories.SeasonRepository,
	matchRepo repositories.MatchRepository,
	fixtureRepo repositories.FixtureRepository,
	hub Broadcaster,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		db:          db,
		seasonRepo:  seasonRepo,
		matchRepo:   matchRepo,
		fixtureRepo: fixtureRepo,
		hub:         hub,
		logger:      logger,
	}
}

func (s *scheduleService) GenerateFixtures(ctx context.Context, matchID int, available []schedule.Player) ([]*models.Fixture, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	season, err := s.seasonRepo.GetByID(ctx, match.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("loading season %d for match %d: %w", match.SeasonID, matchID, err)
	}
	switch season.Status {
	case models.SeasonStatusCompleted:
		return nil, ErrSeasonCompleted
	case models.SeasonStatusRecalculating:
		return nil, ErrRecalculationInProgress
	}

	exists, err := s.fixtureRepo.ExistsForMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrFixturesAlreadyGenerated
	}

	courts, err := schedule.Generate(available)
	if err != nil {
		return nil, err
	}

	var fixtures []*models.Fixture
	for _, court := range courts {
		for gameIdx, game := range court.Games {
			fixture := &models.Fixture{
				MatchID:        matchID,
				CourtNumber:    court.Number,
				GameNumber:     gameIdx + 1,
				Pair1Player1ID: game.Pair1[0].ID,
				Pair1Player2ID: game.Pair1[1].ID,
				Pair2Player1ID: game.Pair2[0].ID,
				Pair2Player2ID: game.Pair2[1].ID,
			}
			if len(game.Sitting) == 1 {
				sittingID := game.Sitting[0].ID
				fixture.SittingPlayerID = &sittingID
			}
			fixtures = append(fixtures, fixture)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning fixture transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.fixtureRepo.BatchCreate(ctx, tx, fixtures); err != nil {
		return nil, err
	}
	if err := s.matchRepo.UpdateStatus(ctx, tx, matchID, models.MatchStatusFixturesGenerated); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing fixtures for match %d: %w", matchID, err)
	}

	s.logger.Info("fixtures generated",
		slog.Int("match_id", matchID),
		slog.Int("players", len(available)),
		slog.Int("courts", len(courts)),
		slog.Int("fixtures", len(fixtures)))
	if s.hub != nil {
		s.hub.Broadcast(live.Event{
			Type:     live.EventFixturesGenerated,
			SeasonID: match.SeasonID,
			Payload:  fixtures,
		})
	}
	return fixtures, nil
}

func (s *scheduleService) ListFixtures(ctx context.Context, matchID int) ([]*models.Fixture, error) {
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return s.fixtureRepo.ListByMatch(ctx, matchID)
}
