package review

import (
	"context"

	"glambook/internal/domain/booking"
)

const maxCommentLength = 2000

// BookingReader gives the review flow access to booking state
type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*booking.Booking, error)
}

type Service struct {
	repo     Repository
	bookings BookingReader
}

func NewService(repo Repository, bookings BookingReader) *Service {
	return &Service{repo: repo, bookings: bookings}
}

type CreateReviewRequest struct {
	BookingID int64  `json:"booking_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

// CreateReview lets the customer of a completed booking rate the artist.
// One review per booking.
func (s *Service) CreateReview(ctx context.Context, customerID int64, req CreateReviewRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if len(req.Comment) > maxCommentLength {
		return nil, ErrCommentTooLong
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if b.Status != booking.StatusCompleted {
		return nil, ErrBookingNotReviewed
	}

	exists, err := s.repo.ExistsForBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	rev := &Review{
		BookingID:  b.ID,
		CustomerID: customerID,
		ArtistID:   b.ArtistID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

type ArtistRating struct {
	Average float64  `json:"average"`
	Count   int64    `json:"count"`
	Reviews []Review `json:"reviews"`
}

func (s *Service) ListForArtist(ctx context.Context, artistID int64, limit, offset int) (*ArtistRating, error) {
	avg, count, err := s.repo.AverageRating(ctx, artistID)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListByArtist(ctx, artistID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ArtistRating{Average: avg, Count: count, Reviews: list}, nil
}
