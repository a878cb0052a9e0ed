package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/courtline/tennis-ladder/models"
	"github.com/courtline/tennis-ladder/repositories"
)

const (
	defaultKFactor       = 32
	defaultInitialRating = 1200
)

// StandingRow is one line of the season table, ordered by season rating.
type StandingRow struct {
	Position int `json:"position"`
	*models.SeasonPlayer
	WinRate float64 `json:"win_rate"`
}

type SeasonStandings struct {
	Season       *models.Season `json:"season"`
	MatchesTotal int            `json:"matches_total"`
	Rows         []*StandingRow `json:"rows"`
}

type SeasonService interface {
	CreateSeason(ctx context.Context, name string, eloEnabled bool, kFactor, initialRating int) (*models.Season, error)
	GetSeason(ctx context.Context, id int) (*models.Season, error)
	CompleteSeason(ctx context.Context, id int) (*models.Season, error)
	// AddMatch appends a match night to the season; week numbers are
	// assigned sequentially.
	AddMatch(ctx context.Context, seasonID int, matchDate time.Time) (*models.Match, error)
	ListMatches(ctx context.Context, seasonID int) ([]*models.Match, error)
	// AddPlayer enrolls an approved ladder player into the season at the
	// season's initial rating.
	AddPlayer(ctx context.Context, seasonID, playerID int) (*models.SeasonPlayer, error)
	// ListLadderPlayers returns the approved club ladder in rank order.
	ListLadderPlayers(ctx context.Context) ([]*models.Player, error)
	Standings(ctx context.Context, seasonID int) (*SeasonStandings, error)
	// PlayerRatingHistory returns a player's rating trajectory within the
	// season, oldest entry first.
	PlayerRatingHistory(ctx context.Context, seasonID, playerID int) ([]*models.EloHistoryEntry, error)
}

type seasonService struct {
	db               *sql.DB
	seasonRepo       repositories.SeasonRepository
	matchRepo        repositories.MatchRepository
	playerRepo       repositories.PlayerRepository
	seasonPlayerRepo repositories.SeasonPlayerRepository
	historyRepo      repositories.EloHistoryRepository
	logger           *slog.Logger
}

func NewSeasonService(
	db *sql.DB,
	seasonRepo repositories.SeasonRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	seasonPlayerRepo repositories.SeasonPlayerRepository,
	historyRepo repositories.EloHistoryRepository,
	logger *slog.Logger,
) SeasonService {
	return &seasonService{
		db:               db,
		seasonRepo:       seasonRepo,
		matchRepo:        matchRepo,
		playerRepo:       playerRepo,
		seasonPlayerRepo: seasonPlayerRepo,
		historyRepo:      historyRepo,
		logger:           logger,
	}
}

func (s *seasonService) CreateSeason(ctx context.Context, name string, eloEnabled bool, kFactor, initialRating int) (*models.Season, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSeasonNameRequired
	}
	if kFactor <= 0 {
		kFactor = defaultKFactor
	}
	if initialRating <= 0 {
		initialRating = defaultInitialRating
	}

	season := &models.Season{
		Name:             name,
		Status:           models.SeasonStatusActive,
		EloEnabled:       eloEnabled,
		EloKFactor:       kFactor,
		EloInitialRating: initialRating,
	}
	if err := s.seasonRepo.Create(ctx, season); err != nil {
		if errors.Is(err, repositories.ErrSeasonNameConflict) {
			return nil, fmt.Errorf("%w: season %q already exists", ErrValidationFailed, name)
		}
		return nil, err
	}

	s.logger.Info("season created", slog.Int("season_id", season.ID), slog.String("name", name))
	return season, nil
}

func (s *seasonService) GetSeason(ctx context.Context, id int) (*models.Season, error) {
	season, err := s.seasonRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	return season, nil
}

func (s *seasonService) CompleteSeason(ctx context.Context, id int) (*models.Season, error) {
	season, err := s.GetSeason(ctx, id)
	if err != nil {
		return nil, err
	}
	switch season.Status {
	case models.SeasonStatusCompleted:
		return season, nil
	case models.SeasonStatusRecalculating:
		return nil, ErrRecalculationInProgress
	}
	if err := s.seasonRepo.UpdateStatus(ctx, nil, id, models.SeasonStatusCompleted); err != nil {
		return nil, err
	}
	season.Status = models.SeasonStatusCompleted
	s.logger.Info("season completed", slog.Int("season_id", id))
	return season, nil
}

func (s *seasonService) AddMatch(ctx context.Context, seasonID int, matchDate time.Time) (*models.Match, error) {
	if matchDate.IsZero() {
		return nil, ErrMatchDateRequired
	}
	season, err := s.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if season.Status == models.SeasonStatusCompleted {
		return nil, ErrSeasonCompleted
	}

	count, err := s.matchRepo.CountBySeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	match := &models.Match{
		SeasonID:   seasonID,
		WeekNumber: count + 1,
		MatchDate:  matchDate,
		Status:     models.MatchStatusScheduled,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, err
	}
	s.logger.Info("match night added",
		slog.Int("season_id", seasonID),
		slog.Int("match_id", match.ID),
		slog.Int("week", match.WeekNumber))
	return match, nil
}

func (s *seasonService) ListMatches(ctx context.Context, seasonID int) ([]*models.Match, error) {
	if _, err := s.GetSeason(ctx, seasonID); err != nil {
		return nil, err
	}
	return s.matchRepo.ListBySeason(ctx, seasonID)
}

func (s *seasonService) AddPlayer(ctx context.Context, seasonID, playerID int) (*models.SeasonPlayer, error) {
	season, err := s.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if season.Status == models.SeasonStatusCompleted {
		return nil, ErrSeasonCompleted
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if player.Status != models.PlayerStatusApproved {
		return nil, fmt.Errorf("%w: player %d is not approved for the ladder", ErrValidationFailed, playerID)
	}

	seasonPlayer := &models.SeasonPlayer{
		SeasonID:  seasonID,
		PlayerID:  playerID,
		EloRating: season.EloInitialRating,
	}
	if err := s.seasonPlayerRepo.Create(ctx, seasonPlayer); err != nil {
		if errors.Is(err, repositories.ErrSeasonPlayerConflict) {
			return nil, ErrSeasonPlayerExists
		}
		return nil, err
	}
	return seasonPlayer, nil
}

func (s *seasonService) ListLadderPlayers(ctx context.Context) ([]*models.Player, error) {
	return s.playerRepo.ListLadder(ctx)
}

func (s *seasonService) Standings(ctx context.Context, seasonID int) (*SeasonStandings, error) {
	season, err := s.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	var (
		seasonPlayers []*models.SeasonPlayer
		matchesTotal  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		seasonPlayers, err = s.seasonPlayerRepo.ListBySeason(gctx, seasonID)
		return err
	})
	g.Go(func() error {
		var err error
		matchesTotal, err = s.matchRepo.CountBySeason(gctx, seasonID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]*StandingRow, len(seasonPlayers))
	for i, sp := range seasonPlayers {
		winRate := 0.0
		if sp.GamesPlayed > 0 {
			winRate = float64(sp.GamesWon) / float64(sp.GamesPlayed)
		}
		rows[i] = &StandingRow{Position: i + 1, SeasonPlayer: sp, WinRate: winRate}
	}
	return &SeasonStandings{Season: season, MatchesTotal: matchesTotal, Rows: rows}, nil
}

func (s *seasonService) PlayerRatingHistory(ctx context.Context, seasonID, playerID int) ([]*models.EloHistoryEntry, error) {
	sp, err := s.seasonPlayerRepo.GetBySeasonAndPlayer(ctx, nil, seasonID, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return s.historyRepo.ListBySeasonPlayer(ctx, sp.ID)
}
