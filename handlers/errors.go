package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"chatwire/protocol"
	"chatwire/utils"
)

// respondProtocolError maps protocol sentinels onto the HTTP surface:
// authorization failures are 401, every guard rejection is 400, anything
// unclassified (store or publish transport) is 500.
func respondProtocolError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, protocol.ErrNotParticipant),
		errors.Is(err, protocol.ErrNotFriends):
		utils.Unauthorized(c, err.Error())
	case errors.Is(err, protocol.ErrUserNotFound),
		errors.Is(err, protocol.ErrSelfRequest),
		errors.Is(err, protocol.ErrRequestExists),
		errors.Is(err, protocol.ErrAlreadyFriends),
		errors.Is(err, protocol.ErrNoRequest),
		errors.Is(err, protocol.ErrBadChatID),
		errors.Is(err, protocol.ErrEmptyMessage):
		utils.BadRequest(c, err.Error())
	default:
		utils.InternalError(c, "internal server error")
	}
}
