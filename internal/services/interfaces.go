package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/pitchside/internal/models"
)

// Interfaces consumed by the request layer.

type FriendServiceInterface interface {
	SendRequest(ctx context.Context, requesterID, requesteeID uuid.UUID) (*models.FriendRequest, error)
	AcceptRequest(ctx context.Context, actorID, requestID uuid.UUID) (*models.FriendRequest, error)
	DeclineRequest(ctx context.Context, actorID, requestID uuid.UUID) (*models.FriendRequest, error)
	RemoveFriend(ctx context.Context, actorID, requestID uuid.UUID) (*models.FriendRequest, error)
	GetStatus(ctx context.Context, viewerID, otherID uuid.UUID) (*models.FriendshipView, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error)
	ListPending(ctx context.Context, userID uuid.UUID) (*models.PendingFriendRequests, error)
}

type BlockServiceInterface interface {
	Block(ctx context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error)
	Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error
	Status(ctx context.Context, viewerID, otherID uuid.UUID) (*models.BlockState, error)
	ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error)
}

type RatingServiceInterface interface {
	SubmitRating(ctx context.Context, raterID uuid.UUID, params models.SubmitRatingParams) (*models.Rating, error)
	GetPlayersToRate(ctx context.Context, raterID, matchID uuid.UUID) ([]models.PlayerToRate, error)
}

type AggregateServiceInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Aggregate, error)
}

var (
	_ FriendServiceInterface    = (*FriendService)(nil)
	_ BlockServiceInterface     = (*BlockService)(nil)
	_ RatingServiceInterface    = (*RatingService)(nil)
	_ AggregateServiceInterface = (*Aggregator)(nil)
	_ AggregateRecomputer       = (*Aggregator)(nil)
	_ Recomputer                = (*RecomputeQueue)(nil)
	_ ProfileStore              = (*PostgresProfileStore)(nil)
	_ MatchDirectory            = (*PostgresMatchDirectory)(nil)
	_ Notifier                  = (*LogNotifier)(nil)
)
