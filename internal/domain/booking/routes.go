package booking

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the booking lifecycle endpoints. All routes assume
// the auth middleware has resolved user_id and role.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.Create)
	rg.GET("/bookings", h.ListMine)
	rg.GET("/bookings/:id", h.Get)

	rg.PATCH("/bookings/:id/accept", h.Accept)
	rg.PATCH("/bookings/:id/decline", h.Decline)
	rg.PATCH("/bookings/:id/cancel", h.Cancel)
	rg.PATCH("/bookings/:id/start", h.Start)
	rg.PATCH("/bookings/:id/complete", h.Complete)
}

// RegisterAdminRoutes mounts the generic validated transition path
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.PATCH("/bookings/:id/status", h.UpdateStatus)
}
