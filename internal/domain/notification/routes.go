package notification

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the inbox, preference and device-token endpoints.
// All routes assume the auth middleware has resolved user_id.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.List)
	rg.PATCH("/notifications/:id/read", h.MarkRead)
	rg.PATCH("/notifications/read-all", h.MarkAllRead)

	rg.GET("/notifications/preferences", h.GetPreferences)
	rg.PATCH("/notifications/preferences", h.UpdatePreferences)

	rg.POST("/notifications/device-tokens", h.RegisterDeviceToken)
	rg.DELETE("/notifications/device-tokens", h.RemoveDeviceToken)
}
