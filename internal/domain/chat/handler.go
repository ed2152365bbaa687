package chat

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"glambook/internal/pkg/response"
)

type Handler struct {
	svc *Service
	hub *Hub
}

func NewHandler(svc *Service, hub *Hub) *Handler {
	return &Handler{svc: svc, hub: hub}
}

type startConversationRequest struct {
	ArtistID   int64 `json:"artist_id"`
	CustomerID int64 `json:"customer_id"`
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// StartConversation opens (or returns) the caller's thread with the
// counterpart. Customers pass artist_id, artists pass customer_id.
func (h *Handler) StartConversation(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")

	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	var customerID, artistID int64
	switch role {
	case "artist":
		customerID, artistID = req.CustomerID, userID
	default:
		customerID, artistID = userID, req.ArtistID
	}
	if customerID <= 0 || artistID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION", "counterpart id is required")
		return
	}

	conv, err := h.svc.StartConversation(c.Request.Context(), customerID, artistID)
	if err != nil {
		if errors.Is(err, ErrCannotChatSelf) {
			response.Error(c, http.StatusBadRequest, "VALIDATION", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to start conversation")
		return
	}
	response.Success(c, http.StatusOK, conv)
}

func (h *Handler) ListConversations(c *gin.Context) {
	userID := c.GetInt64("user_id")
	list, err := h.svc.ListConversations(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to load conversations")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) ListMessages(c *gin.Context) {
	userID := c.GetInt64("user_id")
	conversationID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	msgs, err := h.svc.ListMessages(c.Request.Context(), userID, conversationID, limit, offset)
	if err != nil {
		writeChatError(c, err)
		return
	}
	response.Success(c, http.StatusOK, msgs)
}

func (h *Handler) SendMessage(c *gin.Context) {
	userID := c.GetInt64("user_id")
	conversationID := c.Param("id")

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	msg, err := h.svc.SendMessage(c.Request.Context(), userID, conversationID, req.Content)
	if err != nil {
		writeChatError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, msg)
}

// ServeWS upgrades to the realtime event socket
func (h *Handler) ServeWS(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if err := h.hub.ServeWS(c.Writer, c.Request, userID); err != nil {
		response.Error(c, http.StatusBadRequest, "WEBSOCKET", "failed to upgrade connection")
	}
}

func writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrConversationNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotParticipant):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrCannotChatSelf):
		response.Error(c, http.StatusBadRequest, "VALIDATION", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "chat operation failed")
	}
}
