package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/01moynul/marketd/internal/models"
)

type RecordPaymentRequest struct {
	Method models.PaymentMethod `json:"method" binding:"required,oneof=cash card"`
}

// RecordPayment is the handler for POST /v1/orders/:id/payment
func (h *Handlers) RecordPayment(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.Orders.RecordPayment(c.Request.Context(), actor, orderID, req.Method)
	if err != nil {
		respondError(c, err, log.Fields{"userID": actor.ID(), "orderID": orderID, "method": req.Method})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}
