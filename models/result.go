package models

import "time"

// Result is one recorded score for a fixture. At most one result per fixture
// carries Verified == true; that row is the authoritative score. Corrections
// never mutate a result's scores: a new verified row is inserted and the old
// row's flag is flipped off, so the full submission history survives.
type Result struct {
	ID          int       `json:"id" db:"id"`
	FixtureID   int       `json:"fixture_id" db:"fixture_id"`
	Pair1Score  int       `json:"pair1_score" db:"pair1_score"`
	Pair2Score  int       `json:"pair2_score" db:"pair2_score"`
	SubmittedBy int       `json:"submitted_by" db:"submitted_by"`
	Verified    bool      `json:"verified" db:"verified"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Conflict records a second score submission for a fixture that already had
// one. The first result stays authoritative; the losing submission is kept
// here so an admin can see both scores.
type Conflict struct {
	ID            int       `json:"id" db:"id"`
	FixtureID     int       `json:"fixture_id" db:"fixture_id"`
	FirstResultID int       `json:"first_result_id" db:"first_result_id"`
	Pair1Score    int       `json:"pair1_score" db:"pair1_score"`
	Pair2Score    int       `json:"pair2_score" db:"pair2_score"`
	SubmittedBy   int       `json:"submitted_by" db:"submitted_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type ChallengeStatus string

const (
	ChallengeStatusPending  ChallengeStatus = "pending"
	ChallengeStatusApproved ChallengeStatus = "approved"
	ChallengeStatusRejected ChallengeStatus = "rejected"
)

// Challenge is a player-raised dispute against an existing result, carrying
// the proposed correction. Only admin approval produces a corrected result.
type Challenge struct {
	ID                 int             `json:"id" db:"id"`
	FixtureID          int             `json:"fixture_id" db:"fixture_id"`
	OriginalResultID   int             `json:"original_result_id" db:"original_result_id"`
	ChallengerID       int             `json:"challenger_id" db:"challenger_id"`
	ProposedPair1Score int             `json:"proposed_pair1_score" db:"proposed_pair1_score"`
	ProposedPair2Score int             `json:"proposed_pair2_score" db:"proposed_pair2_score"`
	Reason             string          `json:"reason" db:"reason"`
	Status             ChallengeStatus `json:"status" db:"status"`
	AdminDecision      *string         `json:"admin_decision,omitempty" db:"admin_decision"`
	ResolvedBy         *int            `json:"resolved_by,omitempty" db:"resolved_by"`
	ResolvedAt         *time.Time      `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
}
