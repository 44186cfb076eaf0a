package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
)

func cbcRules() []*models.GradeRule {
	return []*models.GradeRule{
		{GradeCode: "EE", GradePoints: 4, PerformanceLevel: "Exceeding Expectation", MinMark: 80, MaxMark: 100, SortOrder: 1},
		{GradeCode: "ME", GradePoints: 3, PerformanceLevel: "Meeting Expectation", MinMark: 65, MaxMark: 79.99, SortOrder: 2},
		{GradeCode: "AE", GradePoints: 2, PerformanceLevel: "Approaching Expectation", MinMark: 50, MaxMark: 64.99, SortOrder: 3},
		{GradeCode: "BE", GradePoints: 1, PerformanceLevel: "Below Expectation", MinMark: 0, MaxMark: 49.99, SortOrder: 4},
	}
}

func TestResolveBoundaries(t *testing.T) {
	r := NewResolver(cbcRules())

	cases := []struct {
		mark float64
		want string
	}{
		{100, "EE"},
		{80, "EE"},
		{79.99, "ME"},
		{65, "ME"},
		{64.99, "AE"},
		{50, "AE"},
		{49.99, "BE"},
		{0, "BE"},
	}
	for _, tc := range cases {
		got := r.Resolve(tc.mark)
		assert.Equal(t, tc.want, got.GradeCode, "mark %.2f", tc.mark)
	}
}

func TestResolveOutOfRangeIsUngraded(t *testing.T) {
	r := NewResolver(cbcRules())

	assert.Equal(t, Ungraded, r.Resolve(101))
	assert.Equal(t, Ungraded, r.Resolve(-1))

	// a gap in a partially configured scale degrades the same way
	gappy := NewResolver([]*models.GradeRule{
		{GradeCode: "EE", PerformanceLevel: "Exceeding Expectation", MinMark: 80, MaxMark: 100},
	})
	assert.Equal(t, Ungraded, gappy.Resolve(40))
}

func TestResolveFirstMatchWins(t *testing.T) {
	// overlapping intervals resolve to the earlier rule in sort order
	r := NewResolver([]*models.GradeRule{
		{GradeCode: "A", PerformanceLevel: "First", MinMark: 50, MaxMark: 100, SortOrder: 1},
		{GradeCode: "B", PerformanceLevel: "Second", MinMark: 50, MaxMark: 100, SortOrder: 2},
	})
	assert.Equal(t, "A", r.Resolve(75).GradeCode)
}

func TestResolveCarriesRuleDetails(t *testing.T) {
	r := NewResolver(cbcRules())
	got := r.Resolve(90)

	assert.Equal(t, "EE", got.GradeCode)
	assert.InDelta(t, 4, got.GradePoints, 1e-9)
	assert.Equal(t, "Exceeding Expectation", got.PerformanceLevel)
}

func TestEmpty(t *testing.T) {
	assert.True(t, NewResolver(nil).Empty())
	assert.False(t, NewResolver(cbcRules()).Empty())

	// an empty cache resolves everything to Ungraded
	assert.Equal(t, Ungraded, NewResolver(nil).Resolve(55))
}
