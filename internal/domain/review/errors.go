package review

import "errors"

var (
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong     = errors.New("comment exceeds maximum length")
	ErrBookingNotReviewed = errors.New("only completed bookings can be reviewed")
	ErrAlreadyReviewed    = errors.New("booking already has a review")
	ErrForbidden          = errors.New("forbidden")
)
