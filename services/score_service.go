package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/courtline/tennis-ladder/live"
	"github.com/courtline/tennis-ladder/models"
	"github.com/courtline/tennis-ladder/repositories"
)

// ScoreOutcome tells the caller what happened to a submission. Exactly one of
// Result and Conflict is set: the first accepted score carries the verified
// Result, any later submission carries the Conflict record.
type ScoreOutcome struct {
	Accepted bool             `json:"accepted"`
	Result   *models.Result   `json:"result,omitempty"`
	Conflict *models.Conflict `json:"conflict,omitempty"`
}

type ScoreService interface {
	// SubmitScore records a score for a fixture. The first submission wins;
	// every later submission is parked as a conflict record holding both
	// scores, even when they agree, so the full audit trail survives.
	SubmitScore(ctx context.Context, fixtureID, pair1Score, pair2Score, submittedBy int) (*ScoreOutcome, error)
	// Challenge opens a correction request against the verified result of
	// a fixture.
	Challenge(ctx context.Context, fixtureID, challengerID, proposedPair1Score, proposedPair2Score int, reason string) (*models.Challenge, error)
	// ResolveChallenge closes a pending challenge. Approval retires the
	// original result and records the proposed scores as the new verified
	// result; the original row is kept unverified for audit.
	ResolveChallenge(ctx context.Context, challengeID int, approve bool, decision string, resolvedBy int) (*models.Challenge, error)
	ListConflicts(ctx context.Context, fixtureID int) ([]*models.Conflict, error)
	ListChallenges(ctx context.Context, status models.ChallengeStatus) ([]*models.Challenge, error)
}

type scoreService struct {
	db               *sql.DB
	seasonRepo       repositories.SeasonRepository
	matchRepo        repositories.MatchRepository
	fixtureRepo      repositories.FixtureRepository
	seasonPlayerRepo repositories.SeasonPlayerRepository
	resultRepo       repositories.ResultRepository
	conflictRepo     repositories.ConflictRepository
	challengeRepo    repositories.ChallengeRepository
	rating           RatingService
	hub              Broadcaster
	logger           *slog.Logger
}

func NewScoreService(
	db *sql.DB,
	seasonRepo repositories.SeasonRepository,
	matchRepo repositories.MatchRepository,
	fixtureRepo repositories.FixtureRepository,
	seasonPlayerRepo repositories.SeasonPlayerRepository,
	resultRepo repositories.ResultRepository,
	conflictRepo repositories.ConflictRepository,
	challengeRepo repositories.ChallengeRepository,
	rating RatingService,
	hub Broadcaster,
	logger *slog.Logger,
) ScoreService {
	return &scoreService{
		db:               db,
		seasonRepo:       seasonRepo,
		matchRepo:        matchRepo,
		fixtureRepo:      fixtureRepo,
		seasonPlayerRepo: seasonPlayerRepo,
		resultRepo:       resultRepo,
		conflictRepo:     conflictRepo,
		challengeRepo:    challengeRepo,
		rating:           rating,
		hub:              hub,
		logger:           logger,
	}
}

// fixtureContext bundles the fixture with its match and season, which almost
// every ledger operation needs for its guards.
type fixtureContext struct {
	fixture *models.Fixture
	match   *models.Match
	season  *models.Season
}

func (s *scoreService) loadFixtureContext(ctx context.Context, fixtureID int) (*fixtureContext, error) {
	fixture, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}
	match, err := s.matchRepo.GetByID(ctx, fixture.MatchID)
	if err != nil {
		return nil, fmt.Errorf("loading match %d for fixture %d: %w", fixture.MatchID, fixtureID, err)
	}
	season, err := s.seasonRepo.GetByID(ctx, match.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("loading season %d for fixture %d: %w", match.SeasonID, fixtureID, err)
	}
	return &fixtureContext{fixture: fixture, match: match, season: season}, nil
}

func (fc *fixtureContext) guardWritable() error {
	switch fc.season.Status {
	case models.SeasonStatusCompleted:
		return ErrSeasonCompleted
	case models.SeasonStatusRecalculating:
		return ErrRecalculationInProgress
	}
	return nil
}

func validateScores(pair1Score, pair2Score int) error {
	if pair1Score < 0 || pair2Score < 0 || pair1Score+pair2Score == 0 {
		return ErrScoreInvalid
	}
	return nil
}

func (s *scoreService) SubmitScore(ctx context.Context, fixtureID, pair1Score, pair2Score, submittedBy int) (*ScoreOutcome, error) {
	if err := validateScores(pair1Score, pair2Score); err != nil {
		return nil, err
	}

	fc, err := s.loadFixtureContext(ctx, fixtureID)
	if err != nil {
		return nil, err
	}
	if err := fc.guardWritable(); err != nil {
		return nil, err
	}

	// Advisory pre-check. The uniqueness constraint on verified results is
	// the real arbiter; this just avoids a doomed insert in the common case.
	existing, err := s.resultRepo.GetVerifiedByFixture(ctx, fixtureID)
	if err != nil && !errors.Is(err, repositories.ErrResultNotFound) {
		return nil, err
	}
	if existing != nil {
		return s.handleSecondSubmission(ctx, fc, existing, pair1Score, pair2Score, submittedBy)
	}

	result := &models.Result{
		FixtureID:   fixtureID,
		Pair1Score:  pair1Score,
		Pair2Score:  pair2Score,
		SubmittedBy: submittedBy,
		Verified:    true,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning score transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.resultRepo.Create(ctx, tx, result); err != nil {
		if errors.Is(err, repositories.ErrResultAlreadyRecorded) {
			// Lost the race to a concurrent submission. Re-read the
			// winner and fall through to the conflict path.
			tx.Rollback()
			winner, lookupErr := s.resultRepo.GetVerifiedByFixture(ctx, fixtureID)
			if lookupErr != nil {
				return nil, lookupErr
			}
			return s.handleSecondSubmission(ctx, fc, winner, pair1Score, pair2Score, submittedBy)
		}
		return nil, err
	}

	if err := s.creditStats(ctx, tx, fc, pair1Score, pair2Score); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing score for fixture %d: %w", fixtureID, err)
	}

	s.afterAccepted(ctx, fc, result)
	return &ScoreOutcome{Accepted: true, Result: result}, nil
}

// handleSecondSubmission deals with a submission that arrived after a verified
// result already existed. Every such submission is parked as a conflict, an
// agreeing one included, so the admin view keeps both sides of the story.
func (s *scoreService) handleSecondSubmission(ctx context.Context, fc *fixtureContext, existing *models.Result, pair1Score, pair2Score, submittedBy int) (*ScoreOutcome, error) {
	conflict := &models.Conflict{
		FixtureID:     fc.fixture.ID,
		FirstResultID: existing.ID,
		Pair1Score:    pair1Score,
		Pair2Score:    pair2Score,
		SubmittedBy:   submittedBy,
	}
	if err := s.conflictRepo.Create(ctx, conflict); err != nil {
		return nil, err
	}

	s.logger.Warn("conflicting score submission",
		slog.Int("fixture_id", fc.fixture.ID),
		slog.Int("first_result_id", existing.ID),
		slog.Int("submitted_by", submittedBy))
	if s.hub != nil {
		s.hub.Broadcast(live.Event{
			Type:     live.EventScoreConflict,
			SeasonID: fc.match.SeasonID,
			Payload:  conflict,
		})
	}
	return &ScoreOutcome{Accepted: false, Conflict: conflict}, nil
}

// creditStats books the game onto all four participants inside the caller's
// transaction, creating season entries on first appearance.
func (s *scoreService) creditStats(ctx context.Context, tx *sql.Tx, fc *fixtureContext, pair1Score, pair2Score int) error {
	pair1IDs, pair2IDs := fc.fixture.PairPlayerIDs()
	credit := func(playerIDs [2]int, gamesWon, gamesLost int) error {
		for _, playerID := range playerIDs {
			sp, err := s.seasonPlayerRepo.GetOrCreate(ctx, tx, fc.season.ID, playerID, fc.season.EloInitialRating)
			if err != nil {
				return err
			}
			if err := s.seasonPlayerRepo.IncrementStats(ctx, tx, sp.ID, gamesWon > gamesLost, gamesWon, gamesLost); err != nil {
				return err
			}
		}
		return nil
	}
	if err := credit(pair1IDs, pair1Score, pair2Score); err != nil {
		return err
	}
	return credit(pair2IDs, pair2Score, pair1Score)
}

// afterAccepted runs the best-effort follow-ups to a committed score: the
// rating update, the match completion check and the live broadcast. None of
// them can fail the submission.
func (s *scoreService) afterAccepted(ctx context.Context, fc *fixtureContext, result *models.Result) {
	if err := s.rating.ApplyFixtureResult(ctx, result.FixtureID, result.Pair1Score, result.Pair2Score); err != nil {
		s.logger.Warn("rating update failed, ledger is still authoritative",
			slog.Int("fixture_id", result.FixtureID), slog.Any("error", err))
	}

	if done, err := s.matchFullyScored(ctx, fc.match.ID); err != nil {
		s.logger.Warn("match completion check failed",
			slog.Int("match_id", fc.match.ID), slog.Any("error", err))
	} else if done && fc.match.Status != models.MatchStatusCompleted {
		if err := s.matchRepo.UpdateStatus(ctx, nil, fc.match.ID, models.MatchStatusCompleted); err != nil {
			s.logger.Warn("failed to mark match completed",
				slog.Int("match_id", fc.match.ID), slog.Any("error", err))
		}
	}

	if s.hub != nil {
		s.hub.Broadcast(live.Event{
			Type:     live.EventScoreAccepted,
			SeasonID: fc.match.SeasonID,
			Payload:  result,
		})
	}
}

func (s *scoreService) matchFullyScored(ctx context.Context, matchID int) (bool, error) {
	fixtures, err := s.fixtureRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return false, err
	}
	if len(fixtures) == 0 {
		return false, nil
	}
	for _, fixture := range fixtures {
		if _, err := s.resultRepo.GetVerifiedByFixture(ctx, fixture.ID); err != nil {
			if errors.Is(err, repositories.ErrResultNotFound) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

func (s *scoreService) Challenge(ctx context.Context, fixtureID, challengerID, proposedPair1Score, proposedPair2Score int, reason string) (*models.Challenge, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	if err := validateScores(proposedPair1Score, proposedPair2Score); err != nil {
		return nil, err
	}

	fc, err := s.loadFixtureContext(ctx, fixtureID)
	if err != nil {
		return nil, err
	}
	if err := fc.guardWritable(); err != nil {
		return nil, err
	}

	existing, err := s.resultRepo.GetVerifiedByFixture(ctx, fixtureID)
	if err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	if existing.Pair1Score == proposedPair1Score && existing.Pair2Score == proposedPair2Score {
		return nil, fmt.Errorf("%w: proposed scores match the recorded result", ErrValidationFailed)
	}

	challenge := &models.Challenge{
		FixtureID:          fixtureID,
		OriginalResultID:   existing.ID,
		ChallengerID:       challengerID,
		ProposedPair1Score: proposedPair1Score,
		ProposedPair2Score: proposedPair2Score,
		Reason:             strings.TrimSpace(reason),
		Status:             models.ChallengeStatusPending,
	}
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, err
	}

	s.logger.Info("score challenged",
		slog.Int("fixture_id", fixtureID),
		slog.Int("challenge_id", challenge.ID),
		slog.Int("challenger_id", challengerID))
	return challenge, nil
}

func (s *scoreService) ResolveChallenge(ctx context.Context, challengeID int, approve bool, decision string, resolvedBy int) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, nil, challengeID)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	if challenge.Status != models.ChallengeStatusPending {
		return nil, ErrChallengeAlreadyResolved
	}

	fc, err := s.loadFixtureContext(ctx, challenge.FixtureID)
	if err != nil {
		return nil, err
	}
	// A completed season's ledger is frozen; a pending challenge does not
	// outlive that.
	if err := fc.guardWritable(); err != nil {
		return nil, err
	}

	resolvedAt := time.Now().UTC()
	status := models.ChallengeStatusRejected
	if approve {
		status = models.ChallengeStatusApproved
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning challenge resolution: %w", err)
	}
	defer tx.Rollback()

	// Re-read under the transaction so two admins cannot both resolve it.
	challenge, err = s.challengeRepo.GetByID(ctx, tx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge.Status != models.ChallengeStatusPending {
		return nil, ErrChallengeAlreadyResolved
	}

	var newResult *models.Result
	if approve {
		current, err := s.resultRepo.GetVerifiedByFixture(ctx, challenge.FixtureID)
		if err != nil {
			if errors.Is(err, repositories.ErrResultNotFound) {
				return nil, ErrChallengeResultMismatch
			}
			return nil, err
		}
		// The verified result moved since the challenge was filed; the
		// challenger was disputing scores that no longer stand.
		if current.ID != challenge.OriginalResultID {
			return nil, ErrChallengeResultMismatch
		}

		if err := s.resultRepo.Unverify(ctx, tx, current.ID); err != nil {
			return nil, err
		}
		newResult = &models.Result{
			FixtureID:   challenge.FixtureID,
			Pair1Score:  challenge.ProposedPair1Score,
			Pair2Score:  challenge.ProposedPair2Score,
			SubmittedBy: challenge.ChallengerID,
			Verified:    true,
		}
		if err := s.resultRepo.Create(ctx, tx, newResult); err != nil {
			return nil, err
		}
		if err := s.reconcileStats(ctx, tx, fc, current, newResult); err != nil {
			return nil, err
		}
	}

	if err := s.challengeRepo.UpdateResolution(ctx, tx, challengeID, status, decision, resolvedBy, resolvedAt); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing challenge resolution %d: %w", challengeID, err)
	}

	challenge.Status = status
	challenge.AdminDecision = &decision
	challenge.ResolvedBy = &resolvedBy
	challenge.ResolvedAt = &resolvedAt

	if approve {
		// A correction invalidates every rating computed after the
		// original result, so replay the whole season.
		if _, err := s.rating.RecalculateSeason(ctx, fc.match.SeasonID); err != nil {
			s.logger.Warn("post-correction recalculation failed",
				slog.Int("season_id", fc.match.SeasonID), slog.Any("error", err))
		}
		if s.hub != nil {
			s.hub.Broadcast(live.Event{
				Type:     live.EventScoreAccepted,
				SeasonID: fc.match.SeasonID,
				Payload:  newResult,
			})
		}
	}

	s.logger.Info("challenge resolved",
		slog.Int("challenge_id", challengeID),
		slog.String("status", string(status)),
		slog.Int("resolved_by", resolvedBy))
	return challenge, nil
}

func (s *scoreService) reconcileStats(ctx context.Context, tx *sql.Tx, fc *fixtureContext, old, corrected *models.Result) error {
	pair1IDs, pair2IDs := fc.fixture.PairPlayerIDs()
	winDelta := func(oldWon, newWon bool) int {
		switch {
		case newWon && !oldWon:
			return 1
		case oldWon && !newWon:
			return -1
		}
		return 0
	}

	adjust := func(playerIDs [2]int, matchesWonDelta, gamesWonDelta, gamesLostDelta int) error {
		for _, playerID := range playerIDs {
			sp, err := s.seasonPlayerRepo.GetBySeasonAndPlayer(ctx, tx, fc.season.ID, playerID)
			if err != nil {
				return err
			}
			if err := s.seasonPlayerRepo.AdjustStats(ctx, tx, sp.ID, matchesWonDelta, gamesWonDelta, gamesLostDelta); err != nil {
				return err
			}
		}
		return nil
	}

	if err := adjust(pair1IDs,
		winDelta(old.Pair1Score > old.Pair2Score, corrected.Pair1Score > corrected.Pair2Score),
		corrected.Pair1Score-old.Pair1Score,
		corrected.Pair2Score-old.Pair2Score,
	); err != nil {
		return err
	}
	return adjust(pair2IDs,
		winDelta(old.Pair2Score > old.Pair1Score, corrected.Pair2Score > corrected.Pair1Score),
		corrected.Pair2Score-old.Pair2Score,
		corrected.Pair1Score-old.Pair1Score,
	)
}

func (s *scoreService) ListConflicts(ctx context.Context, fixtureID int) ([]*models.Conflict, error) {
	return s.conflictRepo.ListByFixture(ctx, fixtureID)
}

func (s *scoreService) ListChallenges(ctx context.Context, status models.ChallengeStatus) ([]*models.Challenge, error) {
	return s.challengeRepo.ListByStatus(ctx, status)
}
