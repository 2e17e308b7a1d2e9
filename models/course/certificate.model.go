package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is issued for a passing exam attempt
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"index;not null"`
	CourseID          uint      `json:"course_id" gorm:"index;not null"`
	ExamID            uint      `json:"exam_id" gorm:"index;not null"`
	AttemptID         uint      `json:"attempt_id" gorm:"uniqueIndex;not null"`
	CertificateNumber string    `json:"certificate_number" gorm:"uniqueIndex;not null"`
	IssuedAt          time.Time `json:"issued_at"`
}
