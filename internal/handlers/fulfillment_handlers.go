package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/01moynul/marketd/internal/models"
)

//
// --- Fulfillment Handlers (Admin / Vendor / Rider) ---
//

type AssignRiderRequest struct {
	RiderID int64 `json:"rider_id" binding:"required,gt=0"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type DeliveryStatusRequest struct {
	Status   models.OrderStatus `json:"status" binding:"required,oneof=shipped delivered failed"`
	MarkPaid bool               `json:"mark_paid"`
}

// AssignRider is the handler for PATCH /v1/orders/:id/rider
func (h *Handlers) AssignRider(c *gin.Context) {
	// 1. --- Get IDs ---
	actor := currentActor(c)
	if actor == nil {
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	// 2. --- Bind & Validate JSON ---
	var req AssignRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 3. --- Assign ---
	order, effects, err := h.Orders.AssignRider(c.Request.Context(), actor, orderID, req.RiderID)
	if err != nil {
		respondError(c, err, log.Fields{"userID": actor.ID(), "orderID": orderID, "riderID": req.RiderID})
		return
	}

	// 4. --- Notify the rider, then respond ---
	h.Notifier.Dispatch(effects...)
	c.JSON(http.StatusOK, gin.H{"message": "Rider assigned", "order": order})
}

// UpdateOrderStatus is the handler for PATCH /v1/orders/:id/status
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, effects, err := h.Orders.UpdateStatus(c.Request.Context(), actor, orderID, req.Status)
	if err != nil {
		respondError(c, err, log.Fields{"userID": actor.ID(), "orderID": orderID, "status": req.Status})
		return
	}

	h.Notifier.Dispatch(effects...)
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}

// UpdateDeliveryStatus is the handler for PATCH /v1/rider/orders/:id/status
// Only the assigned rider gets past the 404.
func (h *Handlers) UpdateDeliveryStatus(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req DeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update, effects, err := h.Orders.UpdateDeliveryStatus(c.Request.Context(), actor, orderID, req.Status, req.MarkPaid)
	if err != nil {
		respondError(c, err, log.Fields{"userID": actor.ID(), "orderID": orderID, "status": req.Status})
		return
	}

	h.Notifier.Dispatch(effects...)
	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery status updated",
		"order":   update.Order,
		"payment": update.Payment,
	})
}

// GetRiderOrders is the handler for GET /v1/rider/orders
func (h *Handlers) GetRiderOrders(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}
	list, err := h.Orders.ListRiderOrders(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, log.Fields{"userID": actor.ID()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}
