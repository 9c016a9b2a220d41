package models

import "time"

// PaymentStatus is the settlement state of a single payment record.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

// Payment represents a payment recorded against a repair request. Payments
// are an append-only log; a request may accumulate several records
// (installments). The request's Status field is a cached projection of this
// history, updated in the same transaction that inserts a Paid payment.
type Payment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	RequestID uint          `gorm:"not null;index" json:"request_id"` // foreign key to repair_requests table
	Request   RepairRequest `gorm:"foreignKey:RequestID" json:"-"`    // don't include the full request in JSON
	Amount    float64       `gorm:"not null;check:amount > 0" json:"amount"`
	Status    PaymentStatus `gorm:"not null;default:'Pending'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
