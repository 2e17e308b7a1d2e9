package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values
const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
	RoleManager    = "MANAGER"
)

type User struct {
	gorm.Model
	Name           string      `json:"name" gorm:"default:''"`
	Email          string      `json:"email" gorm:"unique;not null"`
	Password       string      `json:"-" gorm:"not null"`
	Role           string      `json:"role" gorm:"default:'STUDENT'"`
	OrganizationID *uint       `json:"organization_id" gorm:"index"`
	Points         int         `json:"points" gorm:"default:0"`
	LastLogin      *time.Time  `json:"last_login"`
	Badges         []UserBadge `json:"badges,omitempty" gorm:"foreignKey:UserID"`
	IsDeleted      bool        `json:"-" gorm:"default:false"`
}
