package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecompute(t *testing.T) {
	t.Run("WeightedMean", func(t *testing.T) {
		components := []GradeComponent{
			{Type: ComponentSupervisorScore, Score: 8.0, Weight: 0.7},
			{Type: ComponentCompanyScore, Score: 9.0, Weight: 0.3},
		}

		final, letter := Recompute(components)
		assert.InDelta(t, 8.3, final, 1e-9)
		assert.Equal(t, "B+", letter)
	})

	t.Run("ZeroTotalWeight", func(t *testing.T) {
		components := []GradeComponent{
			{Type: ComponentSupervisorScore, Score: 8.0, Weight: 0},
			{Type: ComponentCompanyScore, Score: 9.0, Weight: 0},
		}

		final, letter := Recompute(components)
		assert.Equal(t, 0.0, final)
		assert.Equal(t, "F", letter)
	})

	t.Run("PartialWeightNormalizes", func(t *testing.T) {
		// Only the supervisor component carries weight; the mean is taken
		// over the weight actually present.
		components := []GradeComponent{
			{Type: ComponentSupervisorScore, Score: 6.0, Weight: 0.7},
			{Type: ComponentCompanyScore, Score: 9.0, Weight: 0},
		}

		final, _ := Recompute(components)
		assert.InDelta(t, 6.0, final, 1e-9)
	})

	t.Run("Deterministic", func(t *testing.T) {
		components := []GradeComponent{
			{Type: ComponentSupervisorScore, Score: 7.25, Weight: 0.7},
			{Type: ComponentCompanyScore, Score: 8.75, Weight: 0.3},
		}

		first, firstLetter := Recompute(components)
		second, secondLetter := Recompute(components)
		assert.Equal(t, first, second)
		assert.Equal(t, firstLetter, secondLetter)
	})
}

func TestLetterGrade(t *testing.T) {
	cases := []struct {
		grade  float64
		letter string
	}{
		{10.0, "A+"},
		{9.0, "A+"},
		{8.9, "A"},
		{8.5, "A"},
		{8.3, "B+"},
		{8.0, "B+"},
		{7.0, "B"},
		{6.5, "C+"},
		{5.5, "C"},
		{5.0, "D+"},
		{4.0, "D"},
		{3.9, "F"},
		{0.0, "F"},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.letter, LetterGrade(tc.grade), "grade %.1f", tc.grade)
	}
}

func TestIsPassing(t *testing.T) {
	assert.True(t, IsPassing(5.0))
	assert.True(t, IsPassing(8.3))
	assert.False(t, IsPassing(4.99))
}

func TestApplyComponentUpdates(t *testing.T) {
	t.Run("RecomputesFinalGrade", func(t *testing.T) {
		rec := newTestRecord()

		score1, score2 := 8.0, 9.0
		events, err := rec.ApplyComponentUpdates([]ComponentUpdate{
			{Type: ComponentSupervisorScore, Score: &score1},
			{Type: ComponentCompanyScore, Score: &score2},
		})
		require.NoError(t, err)

		require.NotNil(t, rec.FinalGrade)
		assert.InDelta(t, 8.3, *rec.FinalGrade, 1e-9)
		assert.Equal(t, "B+", rec.LetterGrade)
		assert.Contains(t, events, EventAllComponentsGraded)
	})

	t.Run("NoEventWhileScoreMissing", func(t *testing.T) {
		rec := newTestRecord()

		score := 8.0
		events, err := rec.ApplyComponentUpdates([]ComponentUpdate{
			{Type: ComponentSupervisorScore, Score: &score},
		})
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("RejectsOutOfRangeScore", func(t *testing.T) {
		rec := newTestRecord()

		bad := 10.5
		_, err := rec.ApplyComponentUpdates([]ComponentUpdate{
			{Type: ComponentSupervisorScore, Score: &bad},
		})
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.Zero(t, rec.GradeComponents[0].Score)
	})

	t.Run("RejectsOutOfRangeWeight", func(t *testing.T) {
		rec := newTestRecord()

		bad := 1.5
		_, err := rec.ApplyComponentUpdates([]ComponentUpdate{
			{Type: ComponentCompanyScore, Weight: &bad},
		})
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("UnknownComponent", func(t *testing.T) {
		rec := newTestRecord()

		score := 5.0
		_, err := rec.ApplyComponentUpdates([]ComponentUpdate{
			{Type: "peer_score", Score: &score},
		})
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("CommentOnlyUpdateKeepsScore", func(t *testing.T) {
		rec := newTestRecord()

		score := 7.0
		_, err := rec.ApplyComponentUpdates([]ComponentUpdate{
			{Type: ComponentSupervisorScore, Score: &score},
		})
		require.NoError(t, err)

		comment := "solid work on the backend tasks"
		_, err = rec.ApplyComponentUpdates([]ComponentUpdate{
			{Type: ComponentSupervisorScore, Comment: &comment},
		})
		require.NoError(t, err)

		assert.Equal(t, 7.0, rec.GradeComponents[0].Score)
		assert.Equal(t, comment, rec.GradeComponents[0].Comment)
	})
}
