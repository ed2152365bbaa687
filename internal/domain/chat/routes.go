package chat

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/conversations", h.StartConversation)
	rg.GET("/conversations", h.ListConversations)
	rg.GET("/conversations/:id/messages", h.ListMessages)
	rg.POST("/conversations/:id/messages", h.SendMessage)
	rg.GET("/chat/ws", h.ServeWS)
}
