package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/draftforge/draftforge-backend/internal/services"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (ch *ChatHandler) SendMessage(c *gin.Context) {
	projectID, ok := paramUUID(c, "project_id")
	if !ok {
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	reply, err := ch.chatService.SendMessage(c.Request.Context(), projectID, req.Message)
	if err != nil {
		RespondError(c, generationStatus(err), "chat_failed", err)
		return
	}
	RespondOK(c, gin.H{"reply": reply})
}
