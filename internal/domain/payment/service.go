package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"glambook/internal/domain/booking"
)

const defaultCurrency = "USD"

// Service places, captures and refunds payment holds. Authorize implements
// booking.PaymentAuthorizer and is the one side effect the orchestrator
// awaits synchronously.
type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Authorize places a hold for the booking total. A zero or negative total
// is a decline; storage failures also surface as authorization failures.
func (s *Service) Authorize(ctx context.Context, b *booking.Booking) (*booking.AuthorizationResult, error) {
	if b.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: amount %d", ErrDeclined, b.TotalAmount)
	}

	p := &Payment{
		BookingID: b.ID,
		Reference: uuid.New().String(),
		Amount:    b.TotalAmount,
		Currency:  defaultCurrency,
		Status:    StatusAuthorized,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeclined, err)
	}

	s.log.Info("payment hold authorized",
		zap.Int64("booking_id", b.ID),
		zap.String("reference", p.Reference),
		zap.Int64("amount", p.Amount))

	return &booking.AuthorizationResult{Reference: p.Reference, Amount: p.Amount}, nil
}

// Capture settles an authorized hold and returns the payment. The caller
// (capture callback handler) is responsible for advancing the booking.
func (s *Service) Capture(ctx context.Context, reference string) (*Payment, error) {
	p, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := s.repo.UpdateStatus(ctx, p.ID, StatusAuthorized, StatusCaptured, &now); err != nil {
		return nil, err
	}
	p.Status = StatusCaptured
	p.CapturedAt = &now
	return p, nil
}

// Refund is the booking orchestrator's hook for cancelled paid bookings.
func (s *Service) Refund(ctx context.Context, bookingID int64) error {
	_, err := s.RefundForBooking(ctx, bookingID)
	return err
}

// RefundForBooking refunds the captured payment of a booking, if any
func (s *Service) RefundForBooking(ctx context.Context, bookingID int64) (*Payment, error) {
	p, err := s.repo.GetLatestForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusCaptured {
		return nil, ErrNotRefundable
	}
	if err := s.repo.UpdateStatus(ctx, p.ID, StatusCaptured, StatusRefunded, nil); err != nil {
		return nil, err
	}
	p.Status = StatusRefunded
	return p, nil
}
