package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("booking not found")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrOnlyPendingAccept       = errors.New("only pending bookings can be accepted")
	ErrOnlyPendingDecline      = errors.New("only pending bookings can be declined")
	ErrOnlyPendingCancel       = errors.New("only pending bookings can be cancelled")
	ErrNotCompletable          = errors.New("only paid bookings in progress can be completed")
	ErrNumberCollision         = errors.New("booking number collision")
)

// IsConflict reports whether err maps to HTTP 409: the requested transition
// is not legal from the booking's current state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrInvalidStatusTransition) ||
		errors.Is(err, ErrOnlyPendingAccept) ||
		errors.Is(err, ErrOnlyPendingDecline) ||
		errors.Is(err, ErrOnlyPendingCancel) ||
		errors.Is(err, ErrNotCompletable)
}
