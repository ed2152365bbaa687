package booking

import "context"

// BookingRepository is the persistence port for the booking aggregate
type BookingRepository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	// UpdateStatusConditional applies a compare-and-swap status update:
	// the write only succeeds while the stored status still equals expected.
	// A lost race surfaces as ErrInvalidStatusTransition, a missing row as
	// ErrNotFound. extra carries columns that change together with the
	// status (completed_at, reasons, payment_status).
	UpdateStatusConditional(ctx context.Context, id int64, expected, next BookingStatus, entry StatusChange, extra map[string]any) (*Booking, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status PaymentStatus) (*Booking, error)
	ListByCustomer(ctx context.Context, customerID int64, f ListFilters) ([]Booking, error)
	ListByArtist(ctx context.Context, artistID int64, f ListFilters) ([]Booking, error)
}

// ListFilters narrows booking list queries
type ListFilters struct {
	Status BookingStatus
	Limit  int
	Offset int
}

// NotificationSender is implemented by the notification service
type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, b *Booking) error
	NotifyBookingStatus(ctx context.Context, recipientID int64, b *Booking, status BookingStatus) error
}

// SystemMessenger is implemented by the chat service; posts a localized
// system message into the customer-artist conversation for a status change.
type SystemMessenger interface {
	PostStatusMessage(ctx context.Context, b *Booking, status BookingStatus) error
}

// AuthorizationResult is the outcome of a successful payment hold
type AuthorizationResult struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
}

// PaymentAuthorizer places a hold for the booking total at creation time
// and releases settled funds when a paid booking is cancelled. Unlike
// notifications, authorization is synchronous: a decline fails the booking
// creation. Refund runs detached.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, b *Booking) (*AuthorizationResult, error)
	Refund(ctx context.Context, bookingID int64) error
}

// Dispatcher runs side-effect tasks detached from the request path.
// Task errors are logged by the dispatcher, never returned to the caller.
type Dispatcher interface {
	Submit(name string, fn func(ctx context.Context) error)
}
