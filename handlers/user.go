package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"chatwire/middleware"
	"chatwire/models"
	"chatwire/store"
	"chatwire/utils"
)

type UserHandler struct {
	Store store.Store
}

func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)

	raw, err := h.Store.Get(c.Request.Context(), store.UserKey(userID))
	if err != nil {
		utils.InternalError(c, "store error")
		return
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		utils.InternalError(c, "store error")
		return
	}

	utils.Success(c, user)
}

// Lookup resolves an email to its public user record, for addressing friend
// requests from the client.
func (h *UserHandler) Lookup(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		utils.BadRequest(c, "email is required")
		return
	}

	ctx := c.Request.Context()

	id, err := h.Store.Get(ctx, store.UserEmailKey(email))
	if err == store.ErrNotFound {
		utils.NotFound(c, "user not found")
		return
	}
	if err != nil {
		utils.InternalError(c, "store error")
		return
	}

	raw, err := h.Store.Get(ctx, store.UserKey(id))
	if err != nil {
		utils.InternalError(c, "store error")
		return
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		utils.InternalError(c, "store error")
		return
	}

	utils.Success(c, user)
}
