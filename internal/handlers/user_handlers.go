package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/01moynul/marketd/internal/middleware"
	"github.com/01moynul/marketd/internal/models"
	"github.com/01moynul/marketd/internal/store"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/login
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Find User By Email ---
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := h.Store.GetUserByEmail(c.Request.Context(), h.Store.DB(), email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		respondError(c, err, log.Fields{"email": email})
		return
	}

	// 3. --- Check Password ---
	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		respondError(c, err, log.Fields{"userID": user.ID})
		return
	}
	if !match {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// 4. --- Generate JWT ---
	token, err := h.Tokens.GenerateToken(user.ID)
	if err != nil {
		respondError(c, err, log.Fields{"userID": user.ID})
		return
	}

	// 5. --- Send Success Response ---
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Ping is the handler for GET /v1/ping
func (h *Handlers) Ping(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		middleware.Logger(c).WithError(err).Error("database ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
