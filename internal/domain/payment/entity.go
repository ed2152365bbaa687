package payment

import "time"

type Status string

const (
	StatusAuthorized Status = "authorized"
	StatusCaptured   Status = "captured"
	StatusVoided     Status = "voided"
	StatusRefunded   Status = "refunded"
)

// Payment is a hold placed against a booking's total at creation time.
// Reference is the externally-visible handle used by the capture callback.
type Payment struct {
	ID         int64      `gorm:"column:id;primaryKey" json:"id"`
	BookingID  int64      `gorm:"column:booking_id;index:idx_payments_booking" json:"booking_id"`
	Reference  string     `gorm:"column:reference;uniqueIndex:idx_payments_reference" json:"reference"`
	Amount     int64      `gorm:"column:amount" json:"amount"`
	Currency   string     `gorm:"column:currency" json:"currency"`
	Status     Status     `gorm:"column:status" json:"status"`
	CapturedAt *time.Time `gorm:"column:captured_at" json:"captured_at,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
