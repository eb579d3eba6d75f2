package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HammerMeetNail/pitchside/internal/models"
)

const (
	DefaultDisplayName = "Egoist"
	DefaultPosition    = "Midfield"

	maxSuggestionLength = 500
)

// Recomputer schedules an aggregate recomputation for a rated user.
type Recomputer interface {
	Enqueue(ratedID uuid.UUID) bool
}

type RatingService struct {
	db         DB
	matches    MatchDirectory
	profiles   ProfileStore
	recomputer Recomputer
}

func NewRatingService(db DB, matches MatchDirectory, profiles ProfileStore, recomputer Recomputer) *RatingService {
	return &RatingService{db: db, matches: matches, profiles: profiles, recomputer: recomputer}
}

// SubmitRating appends one immutable rating and schedules the ratee's
// aggregate for recomputation.
func (s *RatingService) SubmitRating(ctx context.Context, raterID uuid.UUID, params models.SubmitRatingParams) (*models.Rating, error) {
	info := RelationError{Op: "submit rating", ActorID: raterID, TargetID: params.RatedID, MatchID: params.MatchID}
	if raterID == uuid.Nil {
		return nil, classify(ErrUnauthenticated, info)
	}
	if params.RatedID == uuid.Nil || params.MatchID == uuid.Nil {
		return nil, classify(ErrInvalidTarget, info)
	}
	if raterID == params.RatedID {
		return nil, classify(ErrSelfRating, info)
	}
	if err := validateGrades(params.Grades); err != nil {
		return nil, classify(err, info)
	}
	suggestion := strings.TrimSpace(params.Suggestion)
	if utf8.RuneCountInString(suggestion) > maxSuggestionLength {
		suggestion = string([]rune(suggestion)[:maxSuggestionLength])
	}

	rating := &models.Rating{
		MatchID:    params.MatchID,
		RaterID:    raterID,
		RatedID:    params.RatedID,
		Grades:     models.AttributeGrades{},
		Suggestion: suggestion,
	}
	for attr, grade := range params.Grades {
		rating.Grades[attr] = grade
	}

	args := []any{params.MatchID, raterID, params.RatedID}
	for _, attr := range models.Attributes {
		args = append(args, gradeArg(rating.Grades, attr))
	}
	args = append(args, nullableText(suggestion))

	// The unique triple makes this insert the existence check; a conflict
	// returns no row instead of an error.
	err := s.db.QueryRow(ctx,
		`INSERT INTO player_ratings
		   (match_id, rater_id, rated_id, speed, defense, offense, passing, shooting, dribbling, suggestion)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (match_id, rater_id, rated_id) DO NOTHING
		 RETURNING id, created_at`,
		args...,
	).Scan(&rating.ID, &rating.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == pgUniqueViolation {
		return nil, classify(ErrAlreadySubmitted, info)
	}
	if err != nil {
		return nil, fmt.Errorf("insert rating: %w", err)
	}

	if s.recomputer != nil {
		s.recomputer.Enqueue(params.RatedID)
	}
	return rating, nil
}

// GetPlayersToRate lists every other participant of matchID and whether
// raterID has already rated them. Unknown matches yield an empty list.
func (s *RatingService) GetPlayersToRate(ctx context.Context, raterID, matchID uuid.UUID) ([]models.PlayerToRate, error) {
	info := RelationError{Op: "get players to rate", ActorID: raterID, MatchID: matchID}
	if raterID == uuid.Nil {
		return nil, classify(ErrUnauthenticated, info)
	}
	if matchID == uuid.Nil {
		return nil, classify(ErrInvalidTarget, info)
	}

	participants, err := s.matches.Participants(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match participants: %w", err)
	}

	rated, err := s.ratedBy(ctx, raterID, matchID)
	if err != nil {
		return nil, err
	}

	players := []models.PlayerToRate{}
	for _, userID := range participants {
		if userID == raterID {
			continue
		}
		player := models.PlayerToRate{
			UserID:       userID,
			AlreadyRated: rated[userID],
			DisplayName:  DefaultDisplayName,
			Position:     DefaultPosition,
		}
		profile, err := s.profiles.GetByUser(ctx, s.db, userID)
		switch {
		case errors.Is(err, ErrProfileNotFound):
		case err != nil:
			return nil, fmt.Errorf("get player profile: %w", err)
		default:
			if profile.DisplayName != "" {
				player.DisplayName = profile.DisplayName
			}
			if profile.FavoritePosition != "" {
				player.Position = profile.FavoritePosition
			}
		}
		players = append(players, player)
	}
	return players, nil
}

func (s *RatingService) ratedBy(ctx context.Context, raterID, matchID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := s.db.Query(ctx,
		`SELECT rated_id FROM player_ratings WHERE match_id = $1 AND rater_id = $2`,
		matchID, raterID,
	)
	if err != nil {
		return nil, fmt.Errorf("list submitted ratings: %w", err)
	}
	defer rows.Close()

	rated := map[uuid.UUID]bool{}
	for rows.Next() {
		var ratedID uuid.UUID
		if err := rows.Scan(&ratedID); err != nil {
			return nil, fmt.Errorf("scan submitted rating: %w", err)
		}
		rated[ratedID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submitted ratings: %w", err)
	}
	return rated, nil
}

// loadGrades returns every rating of ratedID, one AttributeGrades per row.
func loadGrades(ctx context.Context, q DBConn, ratedID uuid.UUID) ([]models.AttributeGrades, error) {
	rows, err := q.Query(ctx,
		`SELECT speed, defense, offense, passing, shooting, dribbling
		 FROM player_ratings
		 WHERE rated_id = $1`,
		ratedID,
	)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.AttributeGrades
	for rows.Next() {
		values := make([]*string, len(models.Attributes))
		dest := make([]any, len(values))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}

		grades := models.AttributeGrades{}
		for i, attr := range models.Attributes {
			if values[i] != nil {
				grades[attr] = models.Grade(*values[i])
			}
		}
		ratings = append(ratings, grades)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}

func validateGrades(grades models.AttributeGrades) error {
	for attr, grade := range grades {
		if !attr.Valid() || !grade.Valid() {
			return ErrInvalidGrade
		}
	}
	return nil
}

func gradeArg(grades models.AttributeGrades, attr models.Attribute) *string {
	grade, ok := grades[attr]
	if !ok {
		return nil
	}
	value := string(grade)
	return &value
}

func nullableText(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
