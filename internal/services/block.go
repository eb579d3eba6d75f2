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

type BlockService struct {
	db      DB
	machine *FriendRequestMachine
}

func NewBlockService(db DB) *BlockService {
	return &BlockService{db: db, machine: NewFriendRequestMachine()}
}

// Block records blockerID blocking blockedID and, in the same transaction,
// ends any accepted friendship between them.
func (s *BlockService) Block(ctx context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error) {
	info := RelationError{Op: "block user", ActorID: blockerID, TargetID: blockedID}
	if blockerID == uuid.Nil {
		return nil, classify(ErrUnauthenticated, info)
	}
	if blockedID == uuid.Nil || blockerID == blockedID {
		return nil, classify(ErrInvalidTarget, info)
	}

	block := &models.Block{}
	var removed int64
	err := runInTx(ctx, s.db, info.Op, func(tx Tx) error {
		if err := lockPair(ctx, tx, blockerID, blockedID); err != nil {
			return err
		}

		err := tx.QueryRow(ctx,
			`INSERT INTO user_blocks (blocker_id, blocked_id)
			 VALUES ($1, $2)
			 ON CONFLICT (blocker_id, blocked_id) DO NOTHING
			 RETURNING blocker_id, blocked_id, created_at`,
			blockerID, blockedID,
		).Scan(&block.BlockerID, &block.BlockedID, &block.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAlreadyExists
		}
		if err != nil {
			return fmt.Errorf("insert block: %w", err)
		}

		to, err := s.machine.Next(models.FriendRequestAccepted, EventBlock, RoleSystem, true)
		if err != nil {
			return err
		}
		result, err := tx.Exec(ctx,
			`UPDATE friend_requests SET status = $3, updated_at = NOW()
			 WHERE ((requester_id = $1 AND requestee_id = $2) OR (requester_id = $2 AND requestee_id = $1))
			   AND status = $4`,
			blockerID, blockedID, to, models.FriendRequestAccepted,
		)
		if err != nil {
			return fmt.Errorf("remove friendship on block: %w", err)
		}
		removed = result.RowsAffected()
		return nil
	})
	if err != nil {
		return nil, classify(err, info)
	}

	if removed > 0 {
		logging.Info("Friendship removed by block", map[string]interface{}{
			"blocker_id": blockerID.String(),
			"blocked_id": blockedID.String(),
		})
	}
	return block, nil
}

// Unblock deletes the ordered block if present. Friend requests are left
// untouched; the pair has to re-request.
func (s *BlockService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	info := RelationError{Op: "unblock user", ActorID: blockerID, TargetID: blockedID}
	if blockerID == uuid.Nil {
		return classify(ErrUnauthenticated, info)
	}
	if blockedID == uuid.Nil || blockerID == blockedID {
		return classify(ErrInvalidTarget, info)
	}

	err := runInTx(ctx, s.db, info.Op, func(tx Tx) error {
		if err := lockPair(ctx, tx, blockerID, blockedID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM user_blocks WHERE blocker_id = $1 AND blocked_id = $2`,
			blockerID, blockedID,
		); err != nil {
			return fmt.Errorf("delete block: %w", err)
		}
		return nil
	})
	return classify(err, info)
}

// Status reports the pair from viewerID's side. Both directions are read
// independently; when each has blocked the other, blocked_by_you wins.
func (s *BlockService) Status(ctx context.Context, viewerID, otherID uuid.UUID) (*models.BlockState, error) {
	info := RelationError{Op: "get block status", ActorID: viewerID, TargetID: otherID}
	if viewerID == uuid.Nil {
		return nil, classify(ErrUnauthenticated, info)
	}
	if otherID == uuid.Nil || viewerID == otherID {
		return nil, classify(ErrInvalidTarget, info)
	}

	state := &models.BlockState{Status: models.BlockStatusNone}
	err := s.db.QueryRow(ctx,
		`SELECT
		   EXISTS(SELECT 1 FROM user_blocks WHERE blocker_id = $1 AND blocked_id = $2),
		   EXISTS(SELECT 1 FROM user_blocks WHERE blocker_id = $2 AND blocked_id = $1)`,
		viewerID, otherID,
	).Scan(&state.BlockedByYou, &state.BlockedYou)
	if err != nil {
		return nil, fmt.Errorf("get block status: %w", err)
	}

	switch {
	case state.BlockedByYou:
		state.Status = models.BlockStatusBlockedByYou
	case state.BlockedYou:
		state.Status = models.BlockStatusBlockedYou
	}
	return state, nil
}

// IsBlocked reports whether a block exists in either direction.
func (s *BlockService) IsBlocked(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	if userA == uuid.Nil || userB == uuid.Nil || userA == userB {
		info := RelationError{Op: "check block", ActorID: userA, TargetID: userB}
		return false, classify(ErrInvalidTarget, info)
	}
	return blockExists(ctx, s.db, userA, userB)
}

// ListBlocked returns the users blockerID has blocked, newest first.
func (s *BlockService) ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error) {
	if blockerID == uuid.Nil {
		return nil, classify(ErrUnauthenticated, RelationError{Op: "list blocked users"})
	}

	rows, err := s.db.Query(ctx,
		`SELECT blocked_id, created_at
		 FROM user_blocks
		 WHERE blocker_id = $1
		 ORDER BY created_at DESC`,
		blockerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list blocked users: %w", err)
	}
	defer rows.Close()

	blocked := []models.BlockedUser{}
	for rows.Next() {
		var user models.BlockedUser
		if err := rows.Scan(&user.UserID, &user.BlockedAt); err != nil {
			return nil, fmt.Errorf("scan blocked user: %w", err)
		}
		blocked = append(blocked, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocked users: %w", err)
	}
	return blocked, nil
}

func blockExists(ctx context.Context, q DBConn, userA, userB uuid.UUID) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(
		   SELECT 1 FROM user_blocks
		   WHERE (blocker_id = $1 AND blocked_id = $2) OR (blocker_id = $2 AND blocked_id = $1)
		 )`,
		userA, userB,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check block: %w", err)
	}
	return exists, nil
}
