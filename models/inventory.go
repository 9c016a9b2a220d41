package models

import "time"

// Inventory represents a spare-parts stock record managed by admins.
// Parts are hard-deleted; there is no usage tracking against requests.
type Inventory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PartName  string    `gorm:"not null" json:"part_name"`
	Quantity  int       `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	Price     float64   `gorm:"not null;check:price >= 0" json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Inventory model
func (Inventory) TableName() string {
	return "inventory"
}
