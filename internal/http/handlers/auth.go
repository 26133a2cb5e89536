package handlers

import (
	"errors"
	"net/http"
	"time"

	"zurich_todo/internal/logger"
	"zurich_todo/internal/repository"
	"zurich_todo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	users *repository.UserRepository
}

func NewAuthHandler(users *repository.UserRepository) *AuthHandler {
	return &AuthHandler{users: users}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials against username or email and issues a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error", err.Error())
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.GetByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(c, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		logger.Error("login lookup failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to log in", nil)
		return
	}

	if !service.CheckPassword(user.Password, req.Password) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		logger.Error("token generation failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to log in", nil)
		return
	}

	if err := h.users.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		logger.Warn("failed to update last_login", "error", err, "user_id", user.ID)
	}

	respond(c, http.StatusOK, gin.H{"token": token, "user": user}, "Login successful")
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	val, ok := c.Get("user_id")
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	userID, ok := val.(uuid.UUID)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "User not found", nil)
			return
		}
		logger.Error("profile lookup failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to retrieve profile", nil)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user}, "Profile retrieved successfully")
}
