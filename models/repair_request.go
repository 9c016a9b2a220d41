package models

import (
	"time"

	"gorm.io/gorm"
)

// Status is the lifecycle state of a repair request.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusAssigned Status = "Assigned"
	StatusPaid     Status = "Paid"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusPaid:
		return true
	}
	return false
}

// RepairRequest represents a customer-submitted repair ticket
type RepairRequest struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	UserID               uint           `gorm:"not null;index" json:"user_id"` // foreign key to users table, immutable after creation
	User                 User           `gorm:"foreignKey:UserID" json:"customer"`
	Device               string         `gorm:"not null" json:"device"`
	Issue                string         `gorm:"not null" json:"issue"`
	Status               Status         `gorm:"not null;default:'Pending'" json:"status"`
	AssignedTechnicianID *uint          `gorm:"index" json:"assigned_technician_id"` // nullable, set when an admin assigns
	AssignedTechnician   *Technician    `gorm:"foreignKey:AssignedTechnicianID" json:"assigned_technician,omitempty"`
	PhotoS3Key           *string        `json:"photo_s3_key,omitempty"`       // nullable, S3 key for the device photo
	PhotoURL             *string        `gorm:"-" json:"photo_url,omitempty"` // computed field, presigned URL for the photo
	Payments             []Payment      `gorm:"foreignKey:RequestID" json:"payments,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the RepairRequest model
func (RepairRequest) TableName() string {
	return "repair_requests"
}
