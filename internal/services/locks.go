package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
)

const advisoryLockSQL = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

// lockPair serializes every transaction touching the unordered pair {a, b}.
// The lock is released when the surrounding transaction ends.
func lockPair(ctx context.Context, q DBConn, userA, userB uuid.UUID) error {
	if _, err := q.Exec(ctx, advisoryLockSQL, pairLockKey(userA, userB)); err != nil {
		return fmt.Errorf("lock pair: %w", err)
	}
	return nil
}

// lockAggregate serializes recomputations of one user's aggregate across processes.
func lockAggregate(ctx context.Context, q DBConn, ratedID uuid.UUID) error {
	if _, err := q.Exec(ctx, advisoryLockSQL, "aggregate:"+ratedID.String()); err != nil {
		return fmt.Errorf("lock aggregate: %w", err)
	}
	return nil
}

func pairLockKey(userA, userB uuid.UUID) string {
	first := userA
	second := userB

	if bytes.Compare(first[:], second[:]) > 0 {
		first, second = second, first
	}
	return "pair:" + first.String() + ":" + second.String()
}
