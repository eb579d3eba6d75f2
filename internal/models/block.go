package models

import (
	"time"

	"github.com/google/uuid"
)

type Block struct {
	BlockerID uuid.UUID `json:"blocker_id"`
	BlockedID uuid.UUID `json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}

type BlockedUser struct {
	UserID    uuid.UUID `json:"user_id"`
	BlockedAt time.Time `json:"blocked_at"`
}

type BlockStatus string

const (
	BlockStatusNone         BlockStatus = "none"
	BlockStatusBlockedYou   BlockStatus = "blocked_you"
	BlockStatusBlockedByYou BlockStatus = "blocked_by_you"
)

// BlockState is the viewer's perspective on a pair. Both directions are
// reported because blocking is not symmetric.
type BlockState struct {
	Status       BlockStatus `json:"status"`
	BlockedByYou bool        `json:"blocked_by_you"`
	BlockedYou   bool        `json:"blocked_you"`
}
