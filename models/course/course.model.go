package course

import "gorm.io/gorm"

// Course status values
const (
	CourseDraft    = "DRAFT"
	CourseActive   = "ACTIVE"
	CourseArchived = "ARCHIVED"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Author         string  `json:"author"`
	Status         string  `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, ARCHIVED
	IsPublished    bool    `json:"is_published" gorm:"default:false"`
	Price          float64 `json:"price" gorm:"default:0"`
	IsMandatory    bool    `json:"is_mandatory" gorm:"default:false"`
	OrganizationID *uint   `json:"organization_id" gorm:"index"`

	// 0 means no recertification required
	RecertificationDays int `json:"recertification_days" gorm:"default:0"`

	Modules   []Module `json:"modules,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	IsDeleted bool     `json:"-" gorm:"default:false"`
}

// HasModule reports whether moduleID belongs to the course
func (c *Course) HasModule(moduleID uint) bool {
	for _, m := range c.Modules {
		if m.ID == moduleID {
			return true
		}
	}
	return false
}
