package payment

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"glambook/internal/domain/booking"
	"glambook/internal/pkg/response"
)

// BookingMarker advances a booking once its payment settles
type BookingMarker interface {
	MarkPaid(ctx context.Context, bookingID int64) (*booking.Booking, error)
}

type Handler struct {
	svc      *Service
	bookings BookingMarker
}

func NewHandler(svc *Service, bookings BookingMarker) *Handler {
	return &Handler{svc: svc, bookings: bookings}
}

type captureRequest struct {
	Reference string `json:"reference" binding:"required"`
}

// Capture is the settlement callback: it captures the hold and advances
// the booking to paid.
func (h *Handler) Capture(c *gin.Context) {
	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	p, err := h.svc.Capture(c.Request.Context(), req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		case errors.Is(err, ErrNotCapturable):
			response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "capture failed")
		}
		return
	}

	b, err := h.bookings.MarkPaid(c.Request.Context(), p.BookingID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to update booking payment status")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p, "booking": b})
}

// RegisterRoutes mounts the gateway callbacks. The group must carry
// internal-token auth; these are not user-facing endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/capture", h.Capture)
}
