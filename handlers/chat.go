package handlers

import (
	"github.com/gin-gonic/gin"

	"chatwire/middleware"
	"chatwire/models"
	"chatwire/protocol"
	"chatwire/store"
	"chatwire/utils"
)

type ChatHandler struct {
	Messages *protocol.Messages
	Friends  *protocol.Friends
}

type SendMessageRequest struct {
	ChatID string `json:"chatId" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

// ChatPreview is one row of the chat sidebar: the friend plus the newest
// message of the shared log, if any.
type ChatPreview struct {
	ChatID      string          `json:"chatId"`
	Friend      models.User     `json:"friend"`
	LastMessage *models.Message `json:"lastMessage,omitempty"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.UnprocessableEntity(c, "invalid request payload")
		return
	}

	msg, err := h.Messages.Send(c.Request.Context(), userID, req.ChatID, req.Text)
	if err != nil {
		respondProtocolError(c, err)
		return
	}

	utils.Success(c, msg)
}

func (h *ChatHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)
	chatID := c.Param("id")

	messages, err := h.Messages.History(c.Request.Context(), userID, chatID)
	if err != nil {
		respondProtocolError(c, err)
		return
	}

	utils.Success(c, messages)
}

func (h *ChatHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	friends, err := h.Friends.List(c.Request.Context(), userID)
	if err != nil {
		respondProtocolError(c, err)
		return
	}

	previews := make([]ChatPreview, 0, len(friends))
	for _, friend := range friends {
		last, err := h.Messages.Last(c.Request.Context(), userID, friend.ID)
		if err != nil {
			respondProtocolError(c, err)
			return
		}
		previews = append(previews, ChatPreview{
			ChatID:      store.ChatID(userID, friend.ID),
			Friend:      friend,
			LastMessage: last,
		})
	}

	utils.Success(c, previews)
}
