package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question types
const (
	QuestionMultipleChoice = "multiple-choice"
	QuestionTrueFalse      = "true-false"
)

// Attempt status values
const (
	AttemptPending = "pending"
	AttemptPassed  = "passed"
	AttemptFailed  = "failed"
)

// Exam is an ordered set of questions attached to a course
type Exam struct {
	gorm.Model
	CourseID     uint           `json:"course_id" gorm:"index;not null"`
	Title        string         `json:"title" gorm:"not null"`
	Description  string         `json:"description"`
	TimeLimit    int            `json:"time_limit" gorm:"default:60"` // In minutes
	PassingScore float64        `json:"passing_score" gorm:"default:70"`
	CreatedBy    uint           `json:"created_by" gorm:"not null"`
	Questions    []ExamQuestion `json:"questions,omitempty" gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE"`
}

// ExamQuestion is a single scored question. CorrectAnswer is the index into Options.
type ExamQuestion struct {
	gorm.Model
	ExamID        uint                        `json:"exam_id" gorm:"index;not null"`
	QuestionText  string                      `json:"question_text" gorm:"not null"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer int                         `json:"-"`
	Type          string                      `json:"type" gorm:"type:varchar(20);default:'multiple-choice'"`
	Points        int                         `json:"points" gorm:"default:1"`
	OrderIndex    int                         `json:"order_index" gorm:"default:0"`
}

// ExamAttempt is one scored submission. Rows are never updated after creation.
type ExamAttempt struct {
	gorm.Model
	UserID        uint                     `json:"user_id" gorm:"index:idx_attempt_user_exam;not null"`
	ExamID        uint                     `json:"exam_id" gorm:"index:idx_attempt_user_exam;not null"`
	CourseID      uint                     `json:"course_id" gorm:"index;not null"`
	Answers       datatypes.JSONSlice[int] `json:"answers"`
	Score         int                      `json:"score"`
	TotalPoints   int                      `json:"total_points"`
	Percentage    float64                  `json:"percentage"`
	Status        string                   `json:"status" gorm:"type:varchar(20);default:'pending'"`
	CompletedAt   time.Time                `json:"completed_at"`
	CertificateID *uint                    `json:"certificate_id"`
}
