package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is owned by the profile collaborator. The core only reads identity
// fields and writes Aggregate.
type Profile struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	DisplayName      string    `json:"display_name"`
	FavoritePosition string    `json:"favorite_position"`
	Aggregate        Aggregate `json:"aggregate"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Aggregate is the derived rating summary. Only the aggregation engine sets it.
type Aggregate struct {
	Speed        float64 `json:"speed"`
	Defense      float64 `json:"defense"`
	Offense      float64 `json:"offense"`
	Passing      float64 `json:"passing"`
	Shooting     float64 `json:"shooting"`
	Dribbling    float64 `json:"dribbling"`
	OverallScore float64 `json:"overall_score"`
	RatingsCount int     `json:"ratings_count"`
}

func (a Aggregate) AttributeScore(attr Attribute) float64 {
	switch attr {
	case AttributeSpeed:
		return a.Speed
	case AttributeDefense:
		return a.Defense
	case AttributeOffense:
		return a.Offense
	case AttributePassing:
		return a.Passing
	case AttributeShooting:
		return a.Shooting
	case AttributeDribbling:
		return a.Dribbling
	}
	return 0
}

func (a *Aggregate) setAttributeScore(attr Attribute, score float64) {
	switch attr {
	case AttributeSpeed:
		a.Speed = score
	case AttributeDefense:
		a.Defense = score
	case AttributeOffense:
		a.Offense = score
	case AttributePassing:
		a.Passing = score
	case AttributeShooting:
		a.Shooting = score
	case AttributeDribbling:
		a.Dribbling = score
	}
}

// ComputeAggregate derives the summary from a user's complete rating set.
// Each attribute averages only the ratings that specified it; an attribute no
// rater specified scores 0. OverallScore is the plain mean of all six attribute
// averages, so skipped attributes pull it down. RatingsCount counts every
// rating regardless of which attributes it carries.
func ComputeAggregate(ratings []AttributeGrades) Aggregate {
	sums := make(map[Attribute]float64, len(Attributes))
	counts := make(map[Attribute]int, len(Attributes))

	for _, grades := range ratings {
		for _, attr := range Attributes {
			grade, ok := grades[attr]
			if !ok {
				continue
			}
			score, valid := grade.Score()
			if !valid {
				continue
			}
			sums[attr] += score
			counts[attr]++
		}
	}

	agg := Aggregate{RatingsCount: len(ratings)}
	var total float64
	for _, attr := range Attributes {
		var avg float64
		if counts[attr] > 0 {
			avg = sums[attr] / float64(counts[attr])
		}
		agg.setAttributeScore(attr, avg)
		total += avg
	}
	agg.OverallScore = total / float64(len(Attributes))
	return agg
}
