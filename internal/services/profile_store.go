package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HammerMeetNail/pitchside/internal/models"
)

// PostgresProfileStore reads user_profiles, which the profile service owns.
type PostgresProfileStore struct{}

func NewPostgresProfileStore() *PostgresProfileStore {
	return &PostgresProfileStore{}
}

func (s *PostgresProfileStore) GetByUser(ctx context.Context, q DBConn, userID uuid.UUID) (*models.Profile, error) {
	profile := &models.Profile{}
	agg := &profile.Aggregate
	err := q.QueryRow(ctx,
		`SELECT id, user_id, display_name, favorite_position,
		        speed, defense, offense, passing, shooting, dribbling,
		        overall_score, ratings_count, updated_at
		 FROM user_profiles
		 WHERE user_id = $1`,
		userID,
	).Scan(
		&profile.ID, &profile.UserID, &profile.DisplayName, &profile.FavoritePosition,
		&agg.Speed, &agg.Defense, &agg.Offense, &agg.Passing, &agg.Shooting, &agg.Dribbling,
		&agg.OverallScore, &agg.RatingsCount, &profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// UpdateAggregate overwrites every derived field in a single write.
func (s *PostgresProfileStore) UpdateAggregate(ctx context.Context, q DBConn, profileID uuid.UUID, aggregate models.Aggregate) error {
	result, err := q.Exec(ctx,
		`UPDATE user_profiles
		 SET speed = $2, defense = $3, offense = $4, passing = $5, shooting = $6, dribbling = $7,
		     overall_score = $8, ratings_count = $9, updated_at = NOW()
		 WHERE id = $1`,
		profileID,
		aggregate.Speed, aggregate.Defense, aggregate.Offense,
		aggregate.Passing, aggregate.Shooting, aggregate.Dribbling,
		aggregate.OverallScore, aggregate.RatingsCount,
	)
	if err != nil {
		return fmt.Errorf("update aggregate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
