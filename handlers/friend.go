package handlers

import (
	"github.com/gin-gonic/gin"

	"chatwire/middleware"
	"chatwire/protocol"
	"chatwire/utils"
)

type FriendHandler struct {
	Friends *protocol.Friends
}

type AddFriendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type FriendIDRequest struct {
	ID string `json:"id" binding:"required"`
}

func (h *FriendHandler) Add(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req AddFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.UnprocessableEntity(c, "invalid request payload")
		return
	}

	if err := h.Friends.SendRequest(c.Request.Context(), userID, req.Email); err != nil {
		respondProtocolError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "friend request sent"})
}

func (h *FriendHandler) Accept(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req FriendIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.UnprocessableEntity(c, "invalid request payload")
		return
	}

	if err := h.Friends.Accept(c.Request.Context(), userID, req.ID); err != nil {
		respondProtocolError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "friend added"})
}

func (h *FriendHandler) Decline(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req FriendIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.UnprocessableEntity(c, "invalid request payload")
		return
	}

	if err := h.Friends.Decline(c.Request.Context(), userID, req.ID); err != nil {
		respondProtocolError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "friend request declined"})
}

func (h *FriendHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	friends, err := h.Friends.List(c.Request.Context(), userID)
	if err != nil {
		respondProtocolError(c, err)
		return
	}

	utils.Success(c, friends)
}

func (h *FriendHandler) Requests(c *gin.Context) {
	userID := middleware.GetUserID(c)

	requests, err := h.Friends.Requests(c.Request.Context(), userID)
	if err != nil {
		respondProtocolError(c, err)
		return
	}

	utils.Success(c, requests)
}
