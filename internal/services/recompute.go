package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/pitchside/internal/logging"
	"github.com/HammerMeetNail/pitchside/internal/models"
)

const DefaultRecomputeTimeout = 10 * time.Second

// AggregateRecomputer is the work a RecomputeQueue runs.
type AggregateRecomputer interface {
	Recompute(ctx context.Context, ratedID uuid.UUID) (*models.Aggregate, error)
}

// RecomputeQueue runs recomputations in the background with at most one
// worker per ratee. Enqueues that arrive while a worker is running collapse
// into a single follow-up run, so the last write always sees the full ledger.
type RecomputeQueue struct {
	recomputer AggregateRecomputer
	timeout    time.Duration

	mu      sync.Mutex
	baseCtx context.Context
	running map[uuid.UUID]bool
	pending map[uuid.UUID]bool
	closed  bool
	wg      sync.WaitGroup
}

func NewRecomputeQueue(recomputer AggregateRecomputer, timeout time.Duration) *RecomputeQueue {
	if timeout <= 0 {
		timeout = DefaultRecomputeTimeout
	}
	return &RecomputeQueue{
		recomputer: recomputer,
		timeout:    timeout,
		baseCtx:    context.Background(),
		running:    map[uuid.UUID]bool{},
		pending:    map[uuid.UUID]bool{},
	}
}

// SetAsyncContext sets the parent context of every run. Values are kept but
// cancellation from request contexts should be stripped by the caller.
func (q *RecomputeQueue) SetAsyncContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	q.mu.Lock()
	q.baseCtx = ctx
	q.mu.Unlock()
}

// Enqueue schedules ratedID. It returns false once the queue is closed.
func (q *RecomputeQueue) Enqueue(ratedID uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	if q.running[ratedID] {
		q.pending[ratedID] = true
		return true
	}
	q.running[ratedID] = true
	q.wg.Add(1)
	go q.work(ratedID)
	return true
}

func (q *RecomputeQueue) work(ratedID uuid.UUID) {
	defer q.wg.Done()
	for {
		q.runOnce(ratedID)

		q.mu.Lock()
		if q.pending[ratedID] {
			delete(q.pending, ratedID)
			q.mu.Unlock()
			continue
		}
		delete(q.running, ratedID)
		q.mu.Unlock()
		return
	}
}

func (q *RecomputeQueue) runOnce(ratedID uuid.UUID) {
	q.mu.Lock()
	base := q.baseCtx
	q.mu.Unlock()

	ctx, cancel := context.WithTimeout(base, q.timeout)
	defer cancel()

	started := time.Now()
	aggregate, err := q.recomputer.Recompute(ctx, ratedID)
	if err != nil {
		logging.Error("Failed to recompute aggregate", map[string]interface{}{
			"rated_id": ratedID.String(),
			"error":    err.Error(),
		})
		return
	}
	if aggregate == nil {
		logging.Debug("Skipped aggregate recompute without profile", map[string]interface{}{
			"rated_id": ratedID.String(),
		})
		return
	}
	logging.Debug("Aggregate recomputed", map[string]interface{}{
		"rated_id":      ratedID.String(),
		"ratings_count": aggregate.RatingsCount,
		"duration_ms":   time.Since(started).Milliseconds(),
	})
}

// Wait blocks until every scheduled recomputation, including follow-ups, has finished.
func (q *RecomputeQueue) Wait() {
	q.wg.Wait()
}

// Close stops accepting work and waits for in-flight runs.
func (q *RecomputeQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wg.Wait()
}
