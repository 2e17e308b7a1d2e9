package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment status values
const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentCancelled = "cancelled"
)

// Compliance status values
const (
	ComplianceNotStarted   = "not_started"
	ComplianceCompliant    = "compliant"
	ComplianceExpiringSoon = "expiring_soon"
	ComplianceExpired      = "expired"
)

// Enrollment tracks a user's enrollment in a course with progress and compliance
type Enrollment struct {
	gorm.Model
	UserID           uint                      `json:"user_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	CourseID         uint                      `json:"course_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	Progress         int                       `json:"progress" gorm:"default:0"` // Completion percentage (0-100)
	Status           string                    `json:"status" gorm:"type:varchar(20);default:'active'"`
	ComplianceStatus string                    `json:"compliance_status" gorm:"type:varchar(20);index;default:'not_started'"`
	CompletedModules datatypes.JSONSlice[uint] `json:"completed_modules"`
	EnrolledAt       time.Time                 `json:"enrolled_at"`
	CompletedAt      *time.Time                `json:"completed_at"`
	ExpiresAt        *time.Time                `json:"expires_at"`

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

// HasCompletedModule reports whether moduleID is already recorded
func (e *Enrollment) HasCompletedModule(moduleID uint) bool {
	for _, id := range e.CompletedModules {
		if id == moduleID {
			return true
		}
	}
	return false
}
