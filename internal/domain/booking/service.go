package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const createRetries = 3

// Service is the single authority for mutating booking status. It enforces
// transition legality and actor authorization before the storage write, then
// hands notifications and chat messages to the dispatcher as detached,
// best-effort work. Once the storage write commits, side-effect failures
// never alter the result.
type Service struct {
	repo      BookingRepository
	payments  PaymentAuthorizer
	notifier  NotificationSender
	messenger SystemMessenger
	tasks     Dispatcher
	log       *zap.Logger
}

func NewService(
	repo BookingRepository,
	payments PaymentAuthorizer,
	notifier NotificationSender,
	messenger SystemMessenger,
	tasks Dispatcher,
	log *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		payments:  payments,
		notifier:  notifier,
		messenger: messenger,
		tasks:     tasks,
		log:       log,
	}
}

// CreateBooking persists a new pending booking, authorizes the payment hold
// synchronously (a decline fails the call), then fires the artist
// notification and the "pending" system message without awaiting them.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	quote := PriceServices(req.Services)
	now := time.Now()

	b := &Booking{
		CustomerID:    req.CustomerID,
		ArtistID:      req.ArtistID,
		ServiceType:   req.ServiceType,
		Occasion:      req.Occasion,
		Services:      req.Services,
		ScheduledDate: req.ScheduledDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Location:      req.Location,
		Subtotal:      quote.Subtotal,
		PlatformFee:   quote.PlatformFee,
		Tax:           quote.Tax,
		TotalAmount:   quote.Total,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		StatusHistory: []StatusChange{{Status: StatusPending, Timestamp: now}},
	}

	var err error
	for attempt := 0; attempt < createRetries; attempt++ {
		b.BookingNumber = NewBookingNumber()
		err = s.repo.Create(ctx, b)
		if !errors.Is(err, ErrNumberCollision) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	// Payment authorization is a first-class synchronous dependency: its
	// failure propagates, unlike every other side effect.
	if _, err := s.payments.Authorize(ctx, b); err != nil {
		if _, markErr := s.repo.UpdatePaymentStatus(ctx, b.ID, PaymentFailed); markErr != nil {
			s.log.Error("failed to mark payment failed",
				zap.Int64("booking_id", b.ID), zap.Error(markErr))
		}
		return nil, fmt.Errorf("payment authorization failed: %w", err)
	}

	created := *b
	s.tasks.Submit("booking.notify_created", func(ctx context.Context) error {
		return wrapBooking(created.ID, s.notifier.NotifyBookingCreated(ctx, &created))
	})
	s.tasks.Submit("booking.system_message", func(ctx context.Context) error {
		return wrapBooking(created.ID, s.messenger.PostStatusMessage(ctx, &created, StatusPending))
	})

	return b, nil
}

// AcceptBooking moves a pending booking to confirmed. Only the booked artist
// may accept.
func (s *Service) AcceptBooking(ctx context.Context, bookingID, artistID int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, ErrOnlyPendingAccept
	}
	if b.ArtistID != artistID {
		return nil, ErrForbidden
	}

	updated, err := s.transition(ctx, bookingID, StatusPending, StatusConfirmed, nil)
	if errors.Is(err, ErrInvalidStatusTransition) {
		// Lost the race against a concurrent transition.
		return nil, ErrOnlyPendingAccept
	}
	if err != nil {
		return nil, err
	}

	s.notifyStatus(updated, updated.CustomerID, StatusConfirmed)
	return updated, nil
}

// DeclineBooking moves a pending booking to declined, storing the artist's
// reason outside the transition table.
func (s *Service) DeclineBooking(ctx context.Context, bookingID, artistID int64, reason string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, ErrOnlyPendingDecline
	}
	if b.ArtistID != artistID {
		return nil, ErrForbidden
	}

	var extra map[string]any
	if reason != "" {
		extra = map[string]any{"decline_reason": reason}
	}
	updated, err := s.transition(ctx, bookingID, StatusPending, StatusDeclined, extra)
	if errors.Is(err, ErrInvalidStatusTransition) {
		return nil, ErrOnlyPendingDecline
	}
	if err != nil {
		return nil, err
	}

	s.notifyStatus(updated, updated.CustomerID, StatusDeclined)
	s.postSystemMessage(updated, StatusDeclined)
	return updated, nil
}

// CancelPendingBooking lets the owning customer withdraw a booking that the
// artist has not yet answered.
func (s *Service) CancelPendingBooking(ctx context.Context, bookingID, customerID int64, reason string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, ErrOnlyPendingCancel
	}
	if b.CustomerID != customerID {
		return nil, ErrForbidden
	}

	var extra map[string]any
	if reason != "" {
		extra = map[string]any{"cancellation_reason": reason}
	}
	updated, err := s.transition(ctx, bookingID, StatusPending, StatusCancelled, extra)
	if errors.Is(err, ErrInvalidStatusTransition) {
		return nil, ErrOnlyPendingCancel
	}
	if err != nil {
		return nil, err
	}

	s.notifyStatus(updated, updated.ArtistID, StatusCancelled)
	s.postSystemMessage(updated, StatusCancelled)
	return updated, nil
}

// StartBooking marks the service as underway. Legal from confirmed or paid.
func (s *Service) StartBooking(ctx context.Context, bookingID, artistID int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ArtistID != artistID {
		return nil, ErrForbidden
	}
	if !IsValidTransition(b.Status, StatusInProgress) {
		return nil, ErrInvalidStatusTransition
	}

	updated, err := s.transition(ctx, bookingID, b.Status, StatusInProgress, nil)
	if err != nil {
		return nil, err
	}

	s.notifyStatus(updated, updated.CustomerID, StatusInProgress)
	s.postSystemMessage(updated, StatusInProgress)
	return updated, nil
}

// CompleteBooking finishes a booking. Beyond the plain transition table this
// carries a compound precondition: the booking must be in progress AND paid.
func (s *Service) CompleteBooking(ctx context.Context, bookingID, artistID int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ArtistID != artistID {
		return nil, ErrForbidden
	}
	if b.Status != StatusInProgress || b.PaymentStatus != PaymentPaid {
		return nil, ErrNotCompletable
	}

	now := time.Now()
	updated, err := s.transition(ctx, bookingID, StatusInProgress, StatusCompleted, map[string]any{
		"completed_at": now,
		"completed_by": artistID,
	})
	if errors.Is(err, ErrInvalidStatusTransition) {
		return nil, ErrNotCompletable
	}
	if err != nil {
		return nil, err
	}

	s.notifyStatus(updated, updated.CustomerID, StatusCompleted)
	s.postSystemMessage(updated, StatusCompleted)
	return updated, nil
}

// MarkPaid records a settled payment and, when the booking is still
// confirmed, advances it to paid. Called from the payment capture path with
// system authority; a lost status race is logged, the payment status still
// sticks.
func (s *Service) MarkPaid(ctx context.Context, bookingID int64) (*Booking, error) {
	b, err := s.repo.UpdatePaymentStatus(ctx, bookingID, PaymentPaid)
	if err != nil {
		return nil, err
	}

	if b.Status == StatusConfirmed {
		updated, err := s.transition(ctx, bookingID, StatusConfirmed, StatusPaid, nil)
		if err == nil {
			b = updated
		} else if errors.Is(err, ErrInvalidStatusTransition) {
			s.log.Warn("booking moved while marking paid", zap.Int64("booking_id", bookingID))
		} else {
			return nil, err
		}
	}

	s.notifyStatus(b, b.CustomerID, StatusPaid)
	s.notifyStatus(b, b.ArtistID, StatusPaid)
	return b, nil
}

// UpdateStatusValidated is the generic transition path used by admin flows.
// The transition table gates legality; ownership rules are per-transition:
// a customer may only cancel their own pending booking (delegated to
// CancelPendingBooking), every other transition through this path is
// admin-only.
func (s *Service) UpdateStatusValidated(ctx context.Context, bookingID int64, newStatus BookingStatus, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !IsValidTransition(b.Status, newStatus) {
		return nil, ErrInvalidStatusTransition
	}

	switch actor.Role {
	case RoleCustomer:
		if b.Status == StatusPending && newStatus == StatusCancelled && b.CustomerID == actor.ID {
			return s.CancelPendingBooking(ctx, bookingID, actor.ID, "")
		}
		return nil, ErrForbidden
	case RoleArtist:
		// Artists go through the dedicated accept/decline/start/complete
		// endpoints, which carry their own precondition checks.
		return nil, ErrForbidden
	case RoleAdmin:
		// fall through to the generic write below
	default:
		return nil, ErrForbidden
	}

	var extra map[string]any
	if newStatus == StatusCompleted {
		now := time.Now()
		extra = map[string]any{"completed_at": now, "completed_by": actor.ID}
	}
	updated, err := s.transition(ctx, bookingID, b.Status, newStatus, extra)
	if err != nil {
		return nil, err
	}

	if newStatus == StatusCancelled && updated.PaymentStatus == PaymentPaid {
		s.refundPayment(updated.ID)
	}
	s.notifyStatus(updated, updated.CustomerID, newStatus)
	s.notifyStatus(updated, updated.ArtistID, newStatus)
	s.postSystemMessage(updated, newStatus)
	return updated, nil
}

// refundPayment releases the settled payment after a cancellation. The
// cancellation itself has already committed; a failed refund is logged by
// the dispatcher for manual follow-up.
func (s *Service) refundPayment(bookingID int64) {
	s.tasks.Submit("booking.refund", func(ctx context.Context) error {
		if err := s.payments.Refund(ctx, bookingID); err != nil {
			return wrapBooking(bookingID, err)
		}
		_, err := s.repo.UpdatePaymentStatus(ctx, bookingID, PaymentRefunded)
		return wrapBooking(bookingID, err)
	})
}

// GetBooking returns a booking visible to the actor: either side of the
// booking or an admin.
func (s *Service) GetBooking(ctx context.Context, bookingID int64, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case RoleAdmin:
		return b, nil
	case RoleCustomer:
		if b.CustomerID == actor.ID {
			return b, nil
		}
	case RoleArtist:
		if b.ArtistID == actor.ID {
			return b, nil
		}
	}
	return nil, ErrForbidden
}

func (s *Service) ListForActor(ctx context.Context, actor Actor, f ListFilters) ([]Booking, error) {
	switch actor.Role {
	case RoleCustomer:
		return s.repo.ListByCustomer(ctx, actor.ID, f)
	case RoleArtist:
		return s.repo.ListByArtist(ctx, actor.ID, f)
	default:
		return nil, ErrForbidden
	}
}

func (s *Service) transition(ctx context.Context, id int64, expected, next BookingStatus, extra map[string]any) (*Booking, error) {
	return s.repo.UpdateStatusConditional(ctx, id, expected, next, StatusChange{
		Status:    next,
		Timestamp: time.Now(),
	}, extra)
}

func (s *Service) notifyStatus(b *Booking, recipientID int64, status BookingStatus) {
	snapshot := *b
	s.tasks.Submit("booking.notify_"+string(status), func(ctx context.Context) error {
		return wrapBooking(snapshot.ID, s.notifier.NotifyBookingStatus(ctx, recipientID, &snapshot, status))
	})
}

func (s *Service) postSystemMessage(b *Booking, status BookingStatus) {
	snapshot := *b
	s.tasks.Submit("booking.system_message_"+string(status), func(ctx context.Context) error {
		return wrapBooking(snapshot.ID, s.messenger.PostStatusMessage(ctx, &snapshot, status))
	})
}

func wrapBooking(id int64, err error) error {
	if err != nil {
		return fmt.Errorf("booking %d: %w", id, err)
	}
	return nil
}

func validateCreate(req CreateBookingRequest) error {
	if req.CustomerID <= 0 || req.ArtistID <= 0 {
		return ErrValidation
	}
	if req.CustomerID == req.ArtistID {
		return ErrValidation
	}
	if len(req.Services) == 0 {
		return ErrValidation
	}
	for _, svc := range req.Services {
		if svc.Price < 0 || svc.DurationMinutes < 0 {
			return ErrValidation
		}
	}
	if !req.EndTime.After(req.StartTime) {
		return ErrValidation
	}
	return nil
}
