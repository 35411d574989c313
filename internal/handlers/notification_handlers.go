package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/01moynul/marketd/internal/store"
)

//
// --- Notification Handlers ---
//

const inboxLimit = 50

// GetMyNotifications is the handler for GET /v1/notifications
// It retrieves the logged-in user's notifications, unread and newest first.
func (h *Handlers) GetMyNotifications(c *gin.Context) {
	// 1. --- Get User ID ---
	actor := currentActor(c)
	if actor == nil {
		return
	}

	// 2. --- Query Database ---
	notifications, err := h.Store.ListNotifications(c.Request.Context(), h.Store.DB(), actor.ID(), inboxLimit)
	if err != nil {
		respondError(c, err, log.Fields{"userID": actor.ID()})
		return
	}

	// 3. --- Send Success Response ---
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationAsRead is the handler for PATCH /v1/notifications/:id/read
// Only the owner's rows are touched, so another user's ID reads as not found.
func (h *Handlers) MarkNotificationAsRead(c *gin.Context) {
	// 1. --- Get IDs ---
	actor := currentActor(c)
	if actor == nil {
		return
	}
	notificationID, ok := paramID(c, "id")
	if !ok {
		return
	}

	// 2. --- Execute Update ---
	err := h.Store.MarkNotificationRead(c.Request.Context(), h.Store.DB(), notificationID, actor.ID())
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found or you do not have permission to update it"})
		return
	}
	if err != nil {
		respondError(c, err, log.Fields{"userID": actor.ID(), "notificationID": notificationID})
		return
	}

	// 3. --- Send Success Response ---
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
