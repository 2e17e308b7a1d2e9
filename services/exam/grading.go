package exam

import (
	"lms/models/course"
	"lms/services/apperr"
)

// Grade is the scored outcome of one set of answers.
type Grade struct {
	Score       int
	TotalPoints int
	Percentage  float64
}

// GradeAnswers scores answers against questions in order. answers[i] is the
// chosen option index for questions[i]; missing answers score nothing and
// extra answers are ignored.
//
// An exam whose questions are worth zero points in total cannot produce a
// percentage, so it is rejected instead of being scored.
func GradeAnswers(questions []course.ExamQuestion, answers []int) (Grade, error) {
	var g Grade
	for i, q := range questions {
		g.TotalPoints += q.Points
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			g.Score += q.Points
		}
	}

	if g.TotalPoints <= 0 {
		return Grade{}, apperr.Invariant("exam has no scorable questions")
	}

	// Scale before dividing so a score sitting exactly on a whole-number
	// passing score is not rounded below it.
	g.Percentage = float64(g.Score*100) / float64(g.TotalPoints)
	return g, nil
}

// Status maps a percentage to passed or failed. Reaching the passing score
// exactly counts as a pass.
func Status(percentage, passingScore float64) string {
	if percentage >= passingScore {
		return course.AttemptPassed
	}
	return course.AttemptFailed
}
