package booking

import "time"

type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusDeclined   BookingStatus = "declined"
	StatusCancelled  BookingStatus = "cancelled"
	StatusPaid       BookingStatus = "paid"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleArtist   Role = "artist"
	RoleAdmin    Role = "admin"
)

// Actor is the authenticated principal a handler resolved from the token.
type Actor struct {
	ID   int64
	Role Role
}

// BookedService is one line item of a booking, priced in minor currency
// units (tiyn).
type BookedService struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	Price           int64  `json:"price"`
}

// StatusChange is one entry of the append-only status history.
type StatusChange struct {
	Status    BookingStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}

// Booking is the aggregate the lifecycle operates on. Status and
// PaymentStatus advance independently; StatusHistory records every
// transition in order.
type Booking struct {
	ID                 int64           `json:"id"`
	BookingNumber      string          `json:"booking_number"`
	CustomerID         int64           `json:"customer_id"`
	ArtistID           int64           `json:"artist_id"`
	ServiceType        string          `json:"service_type"`
	Occasion           string          `json:"occasion,omitempty"`
	Services           []BookedService `json:"services"`
	ScheduledDate      time.Time       `json:"scheduled_date"`
	StartTime          time.Time       `json:"start_time"`
	EndTime            time.Time       `json:"end_time"`
	Location           string          `json:"location,omitempty"`
	Subtotal           int64           `json:"subtotal"`
	PlatformFee        int64           `json:"platform_fee"`
	Tax                int64           `json:"tax"`
	TotalAmount        int64           `json:"total_amount"`
	Status             BookingStatus   `json:"status"`
	PaymentStatus      PaymentStatus   `json:"payment_status"`
	StatusHistory      []StatusChange  `json:"status_history"`
	DeclineReason      string          `json:"decline_reason,omitempty"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
	CompletedBy        *int64          `json:"completed_by,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
