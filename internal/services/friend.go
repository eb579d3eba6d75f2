package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HammerMeetNail/pitchside/internal/logging"
	"github.com/HammerMeetNail/pitchside/internal/models"
)

const friendRequestColumns = `id, requester_id, requestee_id, status, created_at, updated_at`

type FriendService struct {
	db       DB
	machine  *FriendRequestMachine
	notifier Notifier
}

func NewFriendService(db DB) *FriendService {
	return &FriendService{db: db, machine: NewFriendRequestMachine()}
}

func (s *FriendService) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// SendRequest opens a pending request from requesterID to requesteeID.
func (s *FriendService) SendRequest(ctx context.Context, requesterID, requesteeID uuid.UUID) (*models.FriendRequest, error) {
	info := RelationError{Op: "send friend request", ActorID: requesterID, TargetID: requesteeID}
	if requesterID == uuid.Nil {
		return nil, classify(ErrUnauthenticated, info)
	}
	if requesteeID == uuid.Nil || requesterID == requesteeID {
		return nil, classify(ErrInvalidTarget, info)
	}

	request := &models.FriendRequest{}
	err := runInTx(ctx, s.db, info.Op, func(tx Tx) error {
		if err := lockPair(ctx, tx, requesterID, requesteeID); err != nil {
			return err
		}
		blocked, err := blockExists(ctx, tx, requesterID, requesteeID)
		if err != nil {
			return err
		}
		active, err := findActiveRequest(ctx, tx, requesterID, requesteeID)
		if err != nil {
			return err
		}
		if err := s.machine.CanCreate(blocked, active != nil); err != nil {
			if active != nil {
				info.RequestID = active.ID
			}
			return err
		}

		err = scanFriendRequest(tx.QueryRow(ctx,
			`INSERT INTO friend_requests (requester_id, requestee_id, status)
			 VALUES ($1, $2, $3)
			 RETURNING `+friendRequestColumns,
			requesterID, requesteeID, models.FriendRequestPending,
		), request)
		if err != nil {
			if pgErrorCode(err) == pgUniqueViolation {
				return ErrAlreadyExists
			}
			return fmt.Errorf("insert friend request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, info)
	}

	s.notify(ctx, "sent", *request)
	return request, nil
}

func (s *FriendService) AcceptRequest(ctx context.Context, actorID, requestID uuid.UUID) (*models.FriendRequest, error) {
	request, err := s.transition(ctx, "accept friend request", actorID, requestID, EventAccept)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, "accepted", *request)
	return request, nil
}

// DeclineRequest covers both a requestee declining and a requester cancelling.
func (s *FriendService) DeclineRequest(ctx context.Context, actorID, requestID uuid.UUID) (*models.FriendRequest, error) {
	return s.transition(ctx, "decline friend request", actorID, requestID, EventDecline)
}

func (s *FriendService) RemoveFriend(ctx context.Context, actorID, requestID uuid.UUID) (*models.FriendRequest, error) {
	return s.transition(ctx, "remove friend", actorID, requestID, EventRemove)
}

func (s *FriendService) transition(ctx context.Context, op string, actorID, requestID uuid.UUID, event FriendRequestEvent) (*models.FriendRequest, error) {
	info := RelationError{Op: op, ActorID: actorID, RequestID: requestID}
	if actorID == uuid.Nil {
		return nil, classify(ErrUnauthenticated, info)
	}
	if requestID == uuid.Nil {
		return nil, classify(ErrNotFound, info)
	}

	request := &models.FriendRequest{}
	err := runInTx(ctx, s.db, op, func(tx Tx) error {
		// The pair is only known after reading the request, so read it once
		// unlocked to learn the lock key, then again under the lock.
		var requesterID, requesteeID uuid.UUID
		err := tx.QueryRow(ctx,
			`SELECT requester_id, requestee_id FROM friend_requests WHERE id = $1`,
			requestID,
		).Scan(&requesterID, &requesteeID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get friend request: %w", err)
		}
		if err := lockPair(ctx, tx, requesterID, requesteeID); err != nil {
			return err
		}

		current := models.FriendRequest{}
		err = scanFriendRequest(tx.QueryRow(ctx,
			`SELECT `+friendRequestColumns+` FROM friend_requests WHERE id = $1 FOR UPDATE`,
			requestID,
		), &current)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock friend request: %w", err)
		}
		role := RoleOf(current, actorID)
		if role != RoleNone {
			info.TargetID = current.Other(actorID)
		}

		blocked, err := blockExists(ctx, tx, current.RequesterID, current.RequesteeID)
		if err != nil {
			return err
		}
		next, err := s.machine.Next(current.Status, event, role, blocked)
		if err != nil {
			return err
		}

		err = scanFriendRequest(tx.QueryRow(ctx,
			`UPDATE friend_requests SET status = $2, updated_at = NOW()
			 WHERE id = $1
			 RETURNING `+friendRequestColumns,
			requestID, next,
		), request)
		if err != nil {
			if pgErrorCode(err) == pgUniqueViolation {
				return ErrAlreadyExists
			}
			return fmt.Errorf("update friend request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, info)
	}
	return request, nil
}

// GetStatus returns the pair's active request, if any, without side effects.
func (s *FriendService) GetStatus(ctx context.Context, viewerID, otherID uuid.UUID) (*models.FriendshipView, error) {
	info := RelationError{Op: "get friendship status", ActorID: viewerID, TargetID: otherID}
	if viewerID == uuid.Nil {
		return nil, classify(ErrUnauthenticated, info)
	}
	if otherID == uuid.Nil || viewerID == otherID {
		return nil, classify(ErrInvalidTarget, info)
	}

	active, err := findActiveRequest(ctx, s.db, viewerID, otherID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return &models.FriendshipView{State: models.FriendshipNone}, nil
	}
	view := &models.FriendshipView{State: models.FriendshipPending, Request: active}
	if active.Status == models.FriendRequestAccepted {
		view.State = models.FriendshipAccepted
	}
	return view, nil
}

func (s *FriendService) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	if userID == uuid.Nil {
		return nil, classify(ErrUnauthenticated, RelationError{Op: "list friends"})
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, requester_id, requestee_id, updated_at
		 FROM friend_requests
		 WHERE (requester_id = $1 OR requestee_id = $1) AND status = $2
		 ORDER BY updated_at DESC`,
		userID, models.FriendRequestAccepted,
	)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	friends := []models.Friend{}
	for rows.Next() {
		var request models.FriendRequest
		if err := rows.Scan(&request.ID, &request.RequesterID, &request.RequesteeID, &request.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		friends = append(friends, models.Friend{
			UserID:    request.Other(userID),
			RequestID: request.ID,
			Since:     request.UpdatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friends: %w", err)
	}
	return friends, nil
}

// ListPending splits the user's pending requests into incoming and outgoing.
func (s *FriendService) ListPending(ctx context.Context, userID uuid.UUID) (*models.PendingFriendRequests, error) {
	if userID == uuid.Nil {
		return nil, classify(ErrUnauthenticated, RelationError{Op: "list pending friend requests"})
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+friendRequestColumns+`
		 FROM friend_requests
		 WHERE (requester_id = $1 OR requestee_id = $1) AND status = $2
		 ORDER BY created_at DESC`,
		userID, models.FriendRequestPending,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending friend requests: %w", err)
	}
	defer rows.Close()

	pending := &models.PendingFriendRequests{
		Incoming: []models.FriendRequest{},
		Outgoing: []models.FriendRequest{},
	}
	for rows.Next() {
		var request models.FriendRequest
		if err := scanFriendRequest(rows, &request); err != nil {
			return nil, fmt.Errorf("scan friend request: %w", err)
		}
		if request.RequesteeID == userID {
			pending.Incoming = append(pending.Incoming, request)
		} else {
			pending.Outgoing = append(pending.Outgoing, request)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friend requests: %w", err)
	}
	return pending, nil
}

func (s *FriendService) notify(ctx context.Context, event string, request models.FriendRequest) {
	if s.notifier == nil {
		return
	}
	var err error
	switch event {
	case "sent":
		err = s.notifier.FriendRequestSent(ctx, request)
	case "accepted":
		err = s.notifier.FriendRequestAccepted(ctx, request)
	}
	if err != nil {
		logging.Warn("Failed to deliver friend request notification", map[string]interface{}{
			"event":      event,
			"request_id": request.ID.String(),
			"error":      err.Error(),
		})
	}
}

// findActiveRequest returns the pending or accepted request for the unordered
// pair, or nil when there is none.
func findActiveRequest(ctx context.Context, q DBConn, userA, userB uuid.UUID) (*models.FriendRequest, error) {
	request := &models.FriendRequest{}
	err := scanFriendRequest(q.QueryRow(ctx,
		`SELECT `+friendRequestColumns+`
		 FROM friend_requests
		 WHERE ((requester_id = $1 AND requestee_id = $2) OR (requester_id = $2 AND requestee_id = $1))
		   AND status IN ('pending', 'accepted')
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userA, userB,
	), request)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active friend request: %w", err)
	}
	return request, nil
}

func scanFriendRequest(row Row, request *models.FriendRequest) error {
	return row.Scan(
		&request.ID,
		&request.RequesterID,
		&request.RequesteeID,
		&request.Status,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
}
