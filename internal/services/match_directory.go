package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// PostgresMatchDirectory reads match_participants, which the match service owns.
type PostgresMatchDirectory struct {
	db DBConn
}

func NewPostgresMatchDirectory(db DBConn) *PostgresMatchDirectory {
	return &PostgresMatchDirectory{db: db}
}

func (d *PostgresMatchDirectory) Participants(ctx context.Context, matchID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := d.db.Query(ctx,
		`SELECT user_id FROM match_participants WHERE match_id = $1 ORDER BY joined_at, user_id`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	participants := []uuid.UUID{}
	for rows.Next() {
		var userID uuid.UUID
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return participants, nil
}
