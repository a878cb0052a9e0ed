package services

import "errors"

// Shared domain errors, mapped to HTTP statuses in the handlers package.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation errors: rejected before any write.
	ErrValidationFailed    = errors.New("validation failed")
	ErrScoreInvalid        = errors.New("scores must be non-negative and at least one game must have been played")
	ErrSeasonNameRequired  = errors.New("season name is required")
	ErrMatchDateRequired   = errors.New("match date is required")
	ErrReasonRequired      = errors.New("a challenge must state its reason")
	ErrTeamPlayersRequired = errors.New("both teams need at least one player")

	// Policy violations: the write is well-formed but the ledger is frozen
	// or the precondition does not hold.
	ErrSeasonCompleted          = errors.New("season is completed: its score record can no longer change")
	ErrRecalculationInProgress  = errors.New("season ratings are being recalculated, try again shortly")
	ErrChallengeAlreadyResolved = errors.New("challenge has already been resolved")
	ErrChallengeResultMismatch  = errors.New("challenge does not reference the fixture's verified result")
	ErrFixturesAlreadyGenerated = errors.New("fixtures have already been generated for this match")

	ErrEloDisabled        = errors.New("elo is not enabled for this season")
	ErrExportUnavailable  = errors.New("standings export is not configured")
	ErrSeasonNotFound     = errors.New("season not found")
	ErrSeasonPlayerExists = errors.New("player has already joined this season")
	ErrMatchNotFound      = errors.New("match not found")
	ErrFixtureNotFound    = errors.New("fixture not found")
	ErrResultNotFound     = errors.New("result not found")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrPlayerNotFound     = errors.New("player not found")
)
