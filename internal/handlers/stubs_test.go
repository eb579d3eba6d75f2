package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/pitchside/internal/models"
)

type stubFriendService struct {
	sendFn    func(ctx context.Context, requesterID, requesteeID uuid.UUID) (*models.FriendRequest, error)
	acceptFn  func(ctx context.Context, actorID, requestID uuid.UUID) (*models.FriendRequest, error)
	declineFn func(ctx context.Context, actorID, requestID uuid.UUID) (*models.FriendRequest, error)
	removeFn  func(ctx context.Context, actorID, requestID uuid.UUID) (*models.FriendRequest, error)
	statusFn  func(ctx context.Context, viewerID, otherID uuid.UUID) (*models.FriendshipView, error)
	listFn    func(ctx context.Context, userID uuid.UUID) ([]models.Friend, error)
	pendingFn func(ctx context.Context, userID uuid.UUID) (*models.PendingFriendRequests, error)
}

func (s *stubFriendService) SendRequest(ctx context.Context, requesterID, requesteeID uuid.UUID) (*models.FriendRequest, error) {
	return s.sendFn(ctx, requesterID, requesteeID)
}

func (s *stubFriendService) AcceptRequest(ctx context.Context, actorID, requestID uuid.UUID) (*models.FriendRequest, error) {
	return s.acceptFn(ctx, actorID, requestID)
}

func (s *stubFriendService) DeclineRequest(ctx context.Context, actorID, requestID uuid.UUID) (*models.FriendRequest, error) {
	return s.declineFn(ctx, actorID, requestID)
}

func (s *stubFriendService) RemoveFriend(ctx context.Context, actorID, requestID uuid.UUID) (*models.FriendRequest, error) {
	return s.removeFn(ctx, actorID, requestID)
}

func (s *stubFriendService) GetStatus(ctx context.Context, viewerID, otherID uuid.UUID) (*models.FriendshipView, error) {
	return s.statusFn(ctx, viewerID, otherID)
}

func (s *stubFriendService) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	return s.listFn(ctx, userID)
}

func (s *stubFriendService) ListPending(ctx context.Context, userID uuid.UUID) (*models.PendingFriendRequests, error) {
	return s.pendingFn(ctx, userID)
}

type stubBlockService struct {
	blockFn   func(ctx context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error)
	unblockFn func(ctx context.Context, blockerID, blockedID uuid.UUID) error
	statusFn  func(ctx context.Context, viewerID, otherID uuid.UUID) (*models.BlockState, error)
	listFn    func(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error)
}

func (s *stubBlockService) Block(ctx context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error) {
	return s.blockFn(ctx, blockerID, blockedID)
}

func (s *stubBlockService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	return s.unblockFn(ctx, blockerID, blockedID)
}

func (s *stubBlockService) Status(ctx context.Context, viewerID, otherID uuid.UUID) (*models.BlockState, error) {
	return s.statusFn(ctx, viewerID, otherID)
}

func (s *stubBlockService) ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error) {
	return s.listFn(ctx, blockerID)
}

type stubRatingService struct {
	submitFn  func(ctx context.Context, raterID uuid.UUID, params models.SubmitRatingParams) (*models.Rating, error)
	playersFn func(ctx context.Context, raterID, matchID uuid.UUID) ([]models.PlayerToRate, error)
}

func (s *stubRatingService) SubmitRating(ctx context.Context, raterID uuid.UUID, params models.SubmitRatingParams) (*models.Rating, error) {
	return s.submitFn(ctx, raterID, params)
}

func (s *stubRatingService) GetPlayersToRate(ctx context.Context, raterID, matchID uuid.UUID) ([]models.PlayerToRate, error) {
	return s.playersFn(ctx, raterID, matchID)
}

type stubAggregates struct {
	getFn func(ctx context.Context, userID uuid.UUID) (*models.Aggregate, error)
}

func (s *stubAggregates) Get(ctx context.Context, userID uuid.UUID) (*models.Aggregate, error) {
	return s.getFn(ctx, userID)
}

func withUser(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(SetUserInContext(req.Context(), &models.User{ID: userID}))
}
