package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeAggregate_MixedAttributes(t *testing.T) {
	ratings := []AttributeGrades{
		{AttributeSpeed: GradeS},
		{AttributeSpeed: GradeA, AttributeDefense: GradeB},
	}

	agg := ComputeAggregate(ratings)

	assert.Equal(t, 90.0, agg.Speed)
	assert.Equal(t, 60.0, agg.Defense)
	assert.Equal(t, 0.0, agg.Offense)
	assert.Equal(t, 0.0, agg.Passing)
	assert.Equal(t, 0.0, agg.Shooting)
	assert.Equal(t, 0.0, agg.Dribbling)
	assert.Equal(t, 25.0, agg.OverallScore)
	assert.Equal(t, 2, agg.RatingsCount)
}

func TestComputeAggregate_Empty(t *testing.T) {
	agg := ComputeAggregate(nil)
	assert.Equal(t, Aggregate{}, agg)
}

func TestComputeAggregate_RatingWithNoGradesStillCounts(t *testing.T) {
	agg := ComputeAggregate([]AttributeGrades{{}, {AttributeDribbling: GradeD}})

	assert.Equal(t, 2, agg.RatingsCount)
	assert.Equal(t, 20.0, agg.Dribbling)
	assert.InDelta(t, 20.0/6, agg.OverallScore, 1e-9)
}

func TestComputeAggregate_AllGradesFull(t *testing.T) {
	full := AttributeGrades{}
	for _, attr := range Attributes {
		full[attr] = GradeS
	}

	agg := ComputeAggregate([]AttributeGrades{full, full, full})

	for _, attr := range Attributes {
		assert.Equal(t, 100.0, agg.AttributeScore(attr), attr)
	}
	assert.Equal(t, 100.0, agg.OverallScore)
	assert.Equal(t, 3, agg.RatingsCount)
}

func TestComputeAggregate_IgnoresUnknownGrades(t *testing.T) {
	agg := ComputeAggregate([]AttributeGrades{
		{AttributePassing: Grade("Z")},
		{AttributePassing: GradeC},
	})

	assert.Equal(t, 40.0, agg.Passing)
	assert.Equal(t, 2, agg.RatingsCount)
}

func TestComputeAggregate_Idempotent(t *testing.T) {
	ratings := []AttributeGrades{
		{AttributeShooting: GradeA, AttributeOffense: GradeC},
		{AttributeShooting: GradeB},
		{AttributeDefense: GradeS, AttributePassing: GradeD},
	}

	first := ComputeAggregate(ratings)
	second := ComputeAggregate(ratings)

	assert.Equal(t, first, second)
}

func TestGradeScore(t *testing.T) {
	cases := map[Grade]float64{GradeS: 100, GradeA: 80, GradeB: 60, GradeC: 40, GradeD: 20}
	for grade, want := range cases {
		got, ok := grade.Score()
		assert.True(t, ok, grade)
		assert.Equal(t, want, got, grade)
	}
	_, ok := Grade("E").Score()
	assert.False(t, ok)
	assert.False(t, Grade("").Valid())
}

func TestAttributeValid(t *testing.T) {
	assert.True(t, AttributeDribbling.Valid())
	assert.False(t, Attribute("stamina").Valid())
}

func TestFriendRequestHelpers(t *testing.T) {
	assert.True(t, FriendRequestPending.Active())
	assert.True(t, FriendRequestAccepted.Active())
	assert.False(t, FriendRequestDeclined.Active())
	assert.True(t, FriendRequestRemoved.Terminal())
	assert.False(t, FriendRequestPending.Terminal())
}
