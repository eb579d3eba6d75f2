package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/pitchside/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileStore is the profile collaborator. The aggregation engine only reads
// profiles and writes their derived aggregate fields; it never creates them.
type ProfileStore interface {
	GetByUser(ctx context.Context, q DBConn, userID uuid.UUID) (*models.Profile, error)
	UpdateAggregate(ctx context.Context, q DBConn, profileID uuid.UUID, aggregate models.Aggregate) error
}

// MatchDirectory is the match collaborator: matchID to participant ids.
type MatchDirectory interface {
	Participants(ctx context.Context, matchID uuid.UUID) ([]uuid.UUID, error)
}

// Notifier receives relationship events after their transaction commits.
type Notifier interface {
	FriendRequestSent(ctx context.Context, request models.FriendRequest) error
	FriendRequestAccepted(ctx context.Context, request models.FriendRequest) error
}
