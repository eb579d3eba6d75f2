package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/pitchside/internal/models"
)

func gradesTx(t *testing.T, rows [][]any) (*fakeTx, *[]string) {
	t.Helper()
	var locks []string
	tx := &fakeTx{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			locks = append(locks, args[0].(string))
			return fakeCommandTag{}, nil
		},
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			if !strings.Contains(sql, "FROM player_ratings") {
				t.Fatalf("unexpected query: %q", sql)
			}
			return &fakeRows{rows: rows}, nil
		},
	}
	return tx, &locks
}

func TestAggregator_Recompute_WritesWholesaleAggregate(t *testing.T) {
	ratedID := uuid.New()
	profileID := uuid.New()
	s, a, b := "S", "A", "B"

	tx, locks := gradesTx(t, [][]any{
		{&s, nil, nil, nil, nil, nil},
		{&a, &b, nil, nil, nil, nil},
	})
	profiles := &stubProfiles{profiles: map[uuid.UUID]*models.Profile{
		ratedID: {ID: profileID, UserID: ratedID},
	}}

	aggregate, err := NewAggregator(dbWithTx(tx), profiles).Recompute(context.Background(), ratedID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := models.Aggregate{Speed: 90, Defense: 60, OverallScore: 25, RatingsCount: 2}
	if *aggregate != want {
		t.Fatalf("expected %+v, got %+v", want, *aggregate)
	}
	if profiles.updates[profileID] != want {
		t.Fatalf("expected profile write %+v, got %+v", want, profiles.updates[profileID])
	}
	if len(*locks) != 1 || (*locks)[0] != "aggregate:"+ratedID.String() {
		t.Fatalf("expected aggregate lock, got %v", *locks)
	}
}

func TestAggregator_Recompute_IsIdempotent(t *testing.T) {
	ratedID := uuid.New()
	profileID := uuid.New()
	c := "C"
	rows := [][]any{{nil, nil, &c, nil, nil, nil}}
	profiles := &stubProfiles{profiles: map[uuid.UUID]*models.Profile{ratedID: {ID: profileID}}}

	var results []models.Aggregate
	for i := 0; i < 2; i++ {
		tx, _ := gradesTx(t, rows)
		aggregate, err := NewAggregator(dbWithTx(tx), profiles).Recompute(context.Background(), ratedID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		results = append(results, *aggregate)
	}
	if results[0] != results[1] {
		t.Fatalf("expected identical aggregates, got %+v and %+v", results[0], results[1])
	}
}

func TestAggregator_Recompute_NoProfileIsNoop(t *testing.T) {
	tx := &fakeTx{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			t.Fatal("did not expect ratings to be loaded")
			return nil, nil
		},
	}
	profiles := &stubProfiles{}

	aggregate, err := NewAggregator(dbWithTx(tx), profiles).Recompute(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if aggregate != nil {
		t.Fatalf("expected nil aggregate, got %+v", aggregate)
	}
	if len(profiles.updates) != 0 {
		t.Fatal("expected no profile writes")
	}
}

func TestAggregator_Recompute_LoadError(t *testing.T) {
	ratedID := uuid.New()
	var rolledBack bool
	tx := &fakeTx{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			return nil, errors.New("db down")
		},
		RollbackFunc: func(ctx context.Context) error {
			rolledBack = true
			return nil
		},
	}
	profiles := &stubProfiles{profiles: map[uuid.UUID]*models.Profile{ratedID: {ID: uuid.New()}}}

	if _, err := NewAggregator(dbWithTx(tx), profiles).Recompute(context.Background(), ratedID); err == nil {
		t.Fatal("expected error")
	}
	if !rolledBack {
		t.Fatal("expected rollback")
	}
}

func TestAggregator_Get(t *testing.T) {
	userID := uuid.New()
	profiles := &stubProfiles{profiles: map[uuid.UUID]*models.Profile{
		userID: {ID: uuid.New(), Aggregate: models.Aggregate{Speed: 80, RatingsCount: 1}},
	}}
	agg := NewAggregator(&fakeDB{}, profiles)

	got, err := agg.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Speed != 80 || got.RatingsCount != 1 {
		t.Fatalf("unexpected aggregate: %+v", got)
	}

	if _, err := agg.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
