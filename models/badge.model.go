package models

import (
	"time"

	"gorm.io/gorm"
)

// Badge criteria types
const (
	CriteriaExamPassed       = "exam_passed"
	CriteriaLessonsCompleted = "lessons_completed"
	CriteriaCourseCompleted  = "course_completed"
	CriteriaPointsMilestone  = "points_milestone"
)

// Badge is an achievement a user earns once its criteria value is reached
type Badge struct {
	gorm.Model
	Name          string `json:"name" gorm:"unique;not null"`
	Description   string `json:"description" gorm:"not null"`
	Icon          string `json:"icon"`
	CriteriaType  string `json:"criteria_type" gorm:"type:varchar(32);index;not null"`
	CriteriaValue int    `json:"criteria_value" gorm:"not null"`
}

// UserBadge records a badge granted to a user
type UserBadge struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_user_badge;not null"`
	BadgeID   uint      `json:"badge_id" gorm:"uniqueIndex:idx_user_badge;not null"`
	Badge     Badge     `json:"badge" gorm:"foreignKey:BadgeID"`
	AwardedAt time.Time `json:"awarded_at"`
}
