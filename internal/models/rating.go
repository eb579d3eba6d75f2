package models

import (
	"time"

	"github.com/google/uuid"
)

type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

var gradeScores = map[Grade]float64{
	GradeS: 100,
	GradeA: 80,
	GradeB: 60,
	GradeC: 40,
	GradeD: 20,
}

// Score returns the numeric value of a letter grade and whether it is valid.
func (g Grade) Score() (float64, bool) {
	score, ok := gradeScores[g]
	return score, ok
}

func (g Grade) Valid() bool {
	_, ok := gradeScores[g]
	return ok
}

type Attribute string

const (
	AttributeSpeed     Attribute = "speed"
	AttributeDefense   Attribute = "defense"
	AttributeOffense   Attribute = "offense"
	AttributePassing   Attribute = "passing"
	AttributeShooting  Attribute = "shooting"
	AttributeDribbling Attribute = "dribbling"
)

// Attributes lists every rated attribute in storage column order.
var Attributes = []Attribute{
	AttributeSpeed,
	AttributeDefense,
	AttributeOffense,
	AttributePassing,
	AttributeShooting,
	AttributeDribbling,
}

func (a Attribute) Valid() bool {
	for _, known := range Attributes {
		if a == known {
			return true
		}
	}
	return false
}

// AttributeGrades holds the grades one rater gave. Skipped attributes are absent.
type AttributeGrades map[Attribute]Grade

type Rating struct {
	ID         uuid.UUID       `json:"id"`
	MatchID    uuid.UUID       `json:"match_id"`
	RaterID    uuid.UUID       `json:"rater_id"`
	RatedID    uuid.UUID       `json:"rated_id"`
	Grades     AttributeGrades `json:"grades"`
	Suggestion string          `json:"suggestion,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type SubmitRatingParams struct {
	MatchID    uuid.UUID
	RatedID    uuid.UUID
	Grades     AttributeGrades
	Suggestion string
}

type PlayerToRate struct {
	UserID       uuid.UUID `json:"user_id"`
	AlreadyRated bool      `json:"already_rated"`
	DisplayName  string    `json:"display_name"`
	Position     string    `json:"position"`
}
