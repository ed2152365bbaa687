package booking

// transitions is the single source of truth for lifecycle legality.
// Declined, cancelled and completed are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusDeclined, StatusCancelled},
	StatusConfirmed:  {StatusPaid, StatusCancelled, StatusInProgress},
	StatusPaid:       {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusDeclined:   {},
	StatusCancelled:  {},
	StatusCompleted:  {},
}

// IsValidTransition reports whether from -> to is a legal lifecycle step.
// Unknown statuses have no legal transitions.
func IsValidTransition(from, to BookingStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(status BookingStatus) bool {
	allowed, ok := transitions[status]
	return ok && len(allowed) == 0
}

// AllowedTransitions returns the legal next statuses, nil for terminal or
// unknown statuses.
func AllowedTransitions(from BookingStatus) []BookingStatus {
	allowed := transitions[from]
	if len(allowed) == 0 {
		return nil
	}
	out := make([]BookingStatus, len(allowed))
	copy(out, allowed)
	return out
}
