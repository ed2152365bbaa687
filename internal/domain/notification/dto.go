package notification

type UpdatePreferencesRequest struct {
	BookingCreated    *bool `json:"booking_created"`
	BookingConfirmed  *bool `json:"booking_confirmed"`
	BookingDeclined   *bool `json:"booking_declined"`
	BookingCancelled  *bool `json:"booking_cancelled"`
	BookingInProgress *bool `json:"booking_in_progress"`
	BookingCompleted  *bool `json:"booking_completed"`
	NewMessage        *bool `json:"new_message"`
	Marketing         *bool `json:"marketing"`
}

func (r UpdatePreferencesRequest) changes() map[string]any {
	out := map[string]any{}
	set := func(column string, v *bool) {
		if v != nil {
			out[column] = *v
		}
	}
	set("booking_created", r.BookingCreated)
	set("booking_confirmed", r.BookingConfirmed)
	set("booking_declined", r.BookingDeclined)
	set("booking_cancelled", r.BookingCancelled)
	set("booking_in_progress", r.BookingInProgress)
	set("booking_completed", r.BookingCompleted)
	set("new_message", r.NewMessage)
	set("marketing", r.Marketing)
	return out
}

type RegisterTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required"`
}

type RemoveTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
}
