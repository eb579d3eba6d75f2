package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/pitchside/internal/models"
)

// Aggregator recomputes a user's aggregate wholesale from the rating ledger.
type Aggregator struct {
	db       DB
	profiles ProfileStore
	cache    *AggregateCache
}

func NewAggregator(db DB, profiles ProfileStore) *Aggregator {
	return &Aggregator{db: db, profiles: profiles}
}

func (a *Aggregator) SetCache(cache *AggregateCache) {
	a.cache = cache
}

// Recompute rebuilds ratedID's aggregate and writes it to their profile in
// one statement. Users without a profile are skipped and nil is returned.
func (a *Aggregator) Recompute(ctx context.Context, ratedID uuid.UUID) (*models.Aggregate, error) {
	var result *models.Aggregate
	err := runInTx(ctx, a.db, "recompute aggregate", func(tx Tx) error {
		result = nil
		if err := lockAggregate(ctx, tx, ratedID); err != nil {
			return err
		}

		profile, err := a.profiles.GetByUser(ctx, tx, ratedID)
		if errors.Is(err, ErrProfileNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		grades, err := loadGrades(ctx, tx, ratedID)
		if err != nil {
			return err
		}
		aggregate := models.ComputeAggregate(grades)
		if err := a.profiles.UpdateAggregate(ctx, tx, profile.ID, aggregate); err != nil {
			return err
		}
		result = &aggregate
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The cache write happens after the lock is released, so it may race
	// with another process's recompute; Store keeps whichever is newer.
	if a.cache != nil {
		if result != nil {
			a.cache.Store(ctx, ratedID, *result)
		} else {
			a.cache.Invalidate(ctx, ratedID)
		}
	}
	return result, nil
}

// Get returns the stored aggregate for userID, preferring the cache. A miss
// repopulates the cache, but a profile read that raced a recompute is older
// than what the recompute cached and is dropped by Store.
func (a *Aggregator) Get(ctx context.Context, userID uuid.UUID) (*models.Aggregate, error) {
	if a.cache != nil {
		if cached, ok := a.cache.Get(ctx, userID); ok {
			return cached, nil
		}
	}

	profile, err := a.profiles.GetByUser(ctx, a.db, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, classify(ErrNotFound, RelationError{Op: "get aggregate", TargetID: userID})
	}
	if err != nil {
		return nil, err
	}
	if a.cache != nil {
		a.cache.Store(ctx, userID, profile.Aggregate)
	}
	return &profile.Aggregate, nil
}
