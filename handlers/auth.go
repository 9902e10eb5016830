package handlers

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"chatwire/middleware"
	"chatwire/models"
	"chatwire/store"
	"chatwire/utils"
)

type AuthHandler struct {
	Store store.Store
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Image    string `json:"image"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	if _, err := h.Store.Get(ctx, store.UserEmailKey(req.Email)); err == nil {
		utils.BadRequest(c, "email already registered")
		return
	} else if err != store.ErrNotFound {
		utils.InternalError(c, "store error")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.InternalError(c, "failed to hash password")
		return
	}

	user := models.User{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
		Image: req.Image,
	}
	record, err := json.Marshal(user)
	if err != nil {
		utils.InternalError(c, "failed to encode user")
		return
	}

	if err := h.Store.Set(ctx, store.UserKey(user.ID), string(record)); err != nil {
		utils.InternalError(c, "failed to create user")
		return
	}
	if err := h.Store.Set(ctx, store.UserEmailKey(user.Email), user.ID); err != nil {
		utils.InternalError(c, "failed to create user")
		return
	}
	if err := h.Store.Set(ctx, store.PasswordKey(user.ID), string(hashedPassword)); err != nil {
		utils.InternalError(c, "failed to create user")
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		utils.InternalError(c, "failed to generate token")
		return
	}

	utils.Success(c, AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	userID, err := h.Store.Get(ctx, store.UserEmailKey(req.Email))
	if err == store.ErrNotFound {
		utils.Unauthorized(c, "invalid email or password")
		return
	}
	if err != nil {
		utils.InternalError(c, "store error")
		return
	}

	hash, err := h.Store.Get(ctx, store.PasswordKey(userID))
	if err != nil {
		utils.Unauthorized(c, "invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		utils.Unauthorized(c, "invalid email or password")
		return
	}

	user, err := h.loadUser(ctx, userID)
	if err != nil {
		utils.InternalError(c, "store error")
		return
	}

	token, err := utils.GenerateToken(userID)
	if err != nil {
		utils.InternalError(c, "failed to generate token")
		return
	}

	utils.Success(c, AuthResponse{Token: token, User: *user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	utils.Success(c, nil)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	userID := middleware.GetUserID(c)

	token, err := utils.GenerateToken(userID)
	if err != nil {
		utils.InternalError(c, "failed to generate token")
		return
	}

	utils.Success(c, gin.H{"token": token})
}

func (h *AuthHandler) loadUser(ctx context.Context, id string) (*models.User, error) {
	raw, err := h.Store.Get(ctx, store.UserKey(id))
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}
	return &user, nil
}
