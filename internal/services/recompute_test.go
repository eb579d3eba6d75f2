package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HammerMeetNail/pitchside/internal/models"
)

type stubRecomputer struct {
	mu       sync.Mutex
	calls    map[uuid.UUID]int
	active   map[uuid.UUID]int
	overlap  atomic.Bool
	release  chan struct{}
	started  chan uuid.UUID
	err      error
	deadline atomic.Bool
}

func newStubRecomputer() *stubRecomputer {
	return &stubRecomputer{
		calls:  map[uuid.UUID]int{},
		active: map[uuid.UUID]int{},
	}
}

func (s *stubRecomputer) Recompute(ctx context.Context, ratedID uuid.UUID) (*models.Aggregate, error) {
	if _, ok := ctx.Deadline(); ok {
		s.deadline.Store(true)
	}

	s.mu.Lock()
	s.calls[ratedID]++
	s.active[ratedID]++
	if s.active[ratedID] > 1 {
		s.overlap.Store(true)
	}
	s.mu.Unlock()

	if s.started != nil {
		s.started <- ratedID
	}
	if s.release != nil {
		<-s.release
	}

	s.mu.Lock()
	s.active[ratedID]--
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	return &models.Aggregate{RatingsCount: 1}, nil
}

func (s *stubRecomputer) callCount(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[id]
}

func TestRecomputeQueue_RunsAndWaits(t *testing.T) {
	stub := newStubRecomputer()
	q := NewRecomputeQueue(stub, time.Second)

	id := uuid.New()
	require.True(t, q.Enqueue(id))
	q.Wait()

	assert.Equal(t, 1, stub.callCount(id))
	assert.True(t, stub.deadline.Load(), "runs should be bounded by the timeout")
}

func TestRecomputeQueue_CoalescesWhileRunning(t *testing.T) {
	stub := newStubRecomputer()
	stub.release = make(chan struct{})
	stub.started = make(chan uuid.UUID, 10)
	q := NewRecomputeQueue(stub, time.Second)

	id := uuid.New()
	require.True(t, q.Enqueue(id))
	<-stub.started

	// Three enqueues during the run collapse into one follow-up.
	q.Enqueue(id)
	q.Enqueue(id)
	q.Enqueue(id)

	stub.release <- struct{}{}
	<-stub.started
	stub.release <- struct{}{}
	q.Wait()

	assert.Equal(t, 2, stub.callCount(id))
	assert.False(t, stub.overlap.Load(), "recomputations for one ratee must not overlap")
}

func TestRecomputeQueue_DifferentRateesRunIndependently(t *testing.T) {
	stub := newStubRecomputer()
	stub.release = make(chan struct{})
	stub.started = make(chan uuid.UUID, 2)
	q := NewRecomputeQueue(stub, time.Second)

	a, b := uuid.New(), uuid.New()
	q.Enqueue(a)
	q.Enqueue(b)
	<-stub.started
	<-stub.started
	close(stub.release)
	q.Wait()

	assert.Equal(t, 1, stub.callCount(a))
	assert.Equal(t, 1, stub.callCount(b))
}

func TestRecomputeQueue_ErrorsAreLoggedNotPropagated(t *testing.T) {
	stub := newStubRecomputer()
	stub.err = errors.New("db down")
	q := NewRecomputeQueue(stub, time.Second)

	id := uuid.New()
	q.Enqueue(id)
	q.Wait()

	assert.Equal(t, 1, stub.callCount(id))
	require.True(t, q.Enqueue(id), "a failed run must not wedge the ratee")
	q.Wait()
	assert.Equal(t, 2, stub.callCount(id))
}

func TestRecomputeQueue_CloseRejectsNewWork(t *testing.T) {
	stub := newStubRecomputer()
	q := NewRecomputeQueue(stub, time.Second)
	q.Close()

	assert.False(t, q.Enqueue(uuid.New()))
}

func TestRecomputeQueue_AsyncContextIsParent(t *testing.T) {
	type key struct{}
	var seen atomic.Value
	q := NewRecomputeQueue(recomputeFunc(func(ctx context.Context, id uuid.UUID) (*models.Aggregate, error) {
		seen.Store(ctx.Value(key{}))
		return nil, nil
	}), 0)
	q.SetAsyncContext(context.WithValue(context.Background(), key{}, "base"))

	q.Enqueue(uuid.New())
	q.Wait()

	assert.Equal(t, "base", seen.Load())
	assert.Equal(t, DefaultRecomputeTimeout, q.timeout)
}

type recomputeFunc func(ctx context.Context, ratedID uuid.UUID) (*models.Aggregate, error)

func (f recomputeFunc) Recompute(ctx context.Context, ratedID uuid.UUID) (*models.Aggregate, error) {
	return f(ctx, ratedID)
}
