package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"glambook/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.svc.repo.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to load notifications")
		return
	}
	unread, err := h.svc.repo.CountUnread(c.Request.Context(), userID)
	if err != nil {
		unread = 0
	}
	response.Success(c, http.StatusOK, ListResponse{Notifications: list, UnreadCount: unread})
}

func (h *Handler) MarkRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION", "invalid notification id")
		return
	}
	if err := h.svc.repo.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to mark as read")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked": true})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if err := h.svc.repo.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to mark all as read")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked": true})
}

func (h *Handler) GetPreferences(c *gin.Context) {
	userID := c.GetInt64("user_id")
	prefs, err := h.svc.getOrCreatePreferences(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to load preferences")
		return
	}
	response.Success(c, http.StatusOK, prefs)
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	userID := c.GetInt64("user_id")
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	changes := req.changes()
	if len(changes) == 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION", "no preference fields provided")
		return
	}
	// Ensure the row exists for first-time users before the partial update.
	if _, err := h.svc.getOrCreatePreferences(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to load preferences")
		return
	}
	prefs, err := h.svc.repo.UpdatePreferences(c.Request.Context(), userID, changes)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to update preferences")
		return
	}
	response.Success(c, http.StatusOK, prefs)
}

func (h *Handler) RegisterDeviceToken(c *gin.Context) {
	userID := c.GetInt64("user_id")
	var req RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	token := &DeviceToken{
		UserID:   userID,
		Token:    req.Token,
		Platform: req.Platform,
	}
	if err := h.svc.repo.RegisterToken(c.Request.Context(), token); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to register device token")
		return
	}
	response.Success(c, http.StatusCreated, token)
}

func (h *Handler) RemoveDeviceToken(c *gin.Context) {
	var req RemoveTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	if err := h.svc.repo.DeactivateTokens(c.Request.Context(), []string{req.Token}); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to remove device token")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}
