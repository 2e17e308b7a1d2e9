package exam

import (
	"testing"

	"lms/models/course"
	"lms/services/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeAnswers(t *testing.T) {
	questions := []course.ExamQuestion{
		{CorrectAnswer: 2, Points: 3},
		{CorrectAnswer: 0, Points: 1},
		{CorrectAnswer: 1, Points: 1},
	}

	tests := []struct {
		name    string
		answers []int
		score   int
		pct     float64
	}{
		{"all correct", []int{2, 0, 1}, 5, 100},
		{"weighted question only", []int{2, 1, 0}, 3, 60},
		{"none correct", []int{0, 1, 0}, 0, 0},
		{"short answer list", []int{2}, 3, 60},
		{"extra answers ignored", []int{2, 0, 1, 4, 4}, 5, 100},
		{"nil answers", nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := GradeAnswers(questions, tt.answers)
			require.NoError(t, err)
			assert.Equal(t, tt.score, g.Score)
			assert.Equal(t, 5, g.TotalPoints)
			assert.InDelta(t, tt.pct, g.Percentage, 0.0001)
		})
	}
}

func TestGradeAnswers_NoPointsRejected(t *testing.T) {
	_, err := GradeAnswers(nil, []int{0})
	assert.ErrorIs(t, err, apperr.ErrInvariantViolation)

	_, err = GradeAnswers([]course.ExamQuestion{{CorrectAnswer: 0, Points: 0}}, []int{0})
	assert.ErrorIs(t, err, apperr.ErrInvariantViolation)
}

func TestGradeAnswers_ExactPassingScorePasses(t *testing.T) {
	questions := make([]course.ExamQuestion, 100)
	for i := range questions {
		questions[i] = course.ExamQuestion{CorrectAnswer: 1, Points: 1}
	}

	for correct := 1; correct <= 100; correct++ {
		answers := make([]int, 100)
		for i := 0; i < correct; i++ {
			answers[i] = 1
		}

		g, err := GradeAnswers(questions, answers)
		require.NoError(t, err)
		assert.Equal(t, float64(correct), g.Percentage, "%d/100", correct)
		assert.Equal(t, course.AttemptPassed, Status(g.Percentage, float64(correct)), "%d/100", correct)
		assert.Equal(t, course.AttemptFailed, Status(g.Percentage, float64(correct+1)), "%d/100", correct)
	}
}

func TestGradeAnswers_WeightedBoundary(t *testing.T) {
	// 7 of 25 points is exactly 28%
	questions := []course.ExamQuestion{
		{CorrectAnswer: 0, Points: 7},
		{CorrectAnswer: 0, Points: 18},
	}
	g, err := GradeAnswers(questions, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, course.AttemptPassed, Status(g.Percentage, 28))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, course.AttemptPassed, Status(50, 50))
	assert.Equal(t, course.AttemptPassed, Status(100, 70))
	assert.Equal(t, course.AttemptFailed, Status(69.99, 70))
	assert.Equal(t, course.AttemptPassed, Status(0, 0))
}
