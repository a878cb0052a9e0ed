package models

import "time"

// PlayerStatus mirrors the approval state owned by the profile-management
// subsystem. It is stored here so ladder queries can filter on it.
type PlayerStatus string

const (
	PlayerStatusPending  PlayerStatus = "pending"
	PlayerStatusApproved PlayerStatus = "approved"
)

type Player struct {
	ID        int          `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Rank      *int         `json:"rank,omitempty" db:"rank"`
	EloRating int          `json:"elo_rating" db:"elo_rating"`
	InLadder  bool         `json:"in_ladder" db:"in_ladder"`
	Status    PlayerStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}
