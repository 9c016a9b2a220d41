package models

import (
	"time"

	"gorm.io/gorm"
)

// Technician represents a service provider who can be assigned to repair
// requests. Technicians are managed by admins and do not log in.
type Technician struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	Specialization string         `gorm:"not null" json:"specialization"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Technician model
func (Technician) TableName() string {
	return "technicians"
}
