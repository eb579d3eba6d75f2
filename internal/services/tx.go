package services

import (
	"context"
	"fmt"

	"github.com/HammerMeetNail/pitchside/internal/logging"
)

const maxTxAttempts = 3

// runInTx runs fn inside a transaction, rolling back unless fn succeeds and
// the commit goes through. Serialization failures and deadlocks are retried
// from the top, so fn must be safe to run more than once.
func runInTx(ctx context.Context, db DB, op string, fn func(tx Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = runTxOnce(ctx, db, fn)
		if err == nil || !isRetryableTxError(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		logging.Warn("Retrying transaction after contention", map[string]interface{}{
			"op":      op,
			"attempt": attempt,
			"error":   err.Error(),
		})
	}
	return err
}

func runTxOnce(ctx context.Context, db DB, fn func(tx Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

func isRetryableTxError(err error) bool {
	switch pgErrorCode(err) {
	case pgSerializationFailure, pgDeadlockDetected:
		return true
	}
	return false
}
