package booking

import "time"

type CreateBookingRequest struct {
	CustomerID    int64           `json:"customer_id"`
	ArtistID      int64           `json:"artist_id" binding:"required"`
	ServiceType   string          `json:"service_type" binding:"required"`
	Occasion      string          `json:"occasion"`
	Services      []BookedService `json:"services" binding:"required"`
	ScheduledDate time.Time       `json:"scheduled_date" binding:"required"`
	StartTime     time.Time       `json:"start_time" binding:"required"`
	EndTime       time.Time       `json:"end_time" binding:"required"`
	Location      string          `json:"location"`
}

type DeclineBookingRequest struct {
	Reason string `json:"reason"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type UpdateStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required"`
}
