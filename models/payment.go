package models

import "time"

// Payment statuses as reported by the payment provider's feed.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment records a user's entry-fee payment for an event. Rows are created
// and updated only by the payment feed worker; the rest of the service reads
// payment status and never computes it.
type Payment struct {
	ID      string `json:"id" gorm:"primaryKey"`
	UserID  string `json:"user_id" gorm:"not null;uniqueIndex:idx_payments_user_event"`
	EventID string `json:"event_id" gorm:"not null;uniqueIndex:idx_payments_user_event"`

	Amount            float64    `json:"amount"`
	Status            string     `json:"status" gorm:"default:'pending'"`
	ExternalPaymentID string     `json:"external_payment_id" gorm:"uniqueIndex;not null"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
