package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/01moynul/marketd/internal/orders"
)

//
// --- Order Handlers ---
//

// AddressRequest is the delivery address sent with a new order.
type AddressRequest struct {
	Street     string   `json:"street" binding:"required"`
	City       string   `json:"city" binding:"required"`
	State      string   `json:"state" binding:"required"`
	PostalCode string   `json:"postal_code" binding:"required"`
	Country    string   `json:"country" binding:"required"`
	Building   *string  `json:"building"`
	Latitude   *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude  *float64 `json:"longitude" binding:"omitempty,longitude"`
}

type OrderItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type PlaceOrderRequest struct {
	Address AddressRequest     `json:"address" binding:"required"`
	Items   []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r PlaceOrderRequest) input() orders.PlaceOrderInput {
	in := orders.PlaceOrderInput{
		Address: orders.AddressInput{
			Street:     r.Address.Street,
			City:       r.Address.City,
			State:      r.Address.State,
			PostalCode: r.Address.PostalCode,
			Country:    r.Address.Country,
			Building:   r.Address.Building,
			Latitude:   r.Address.Latitude,
			Longitude:  r.Address.Longitude,
		},
		Items: make([]orders.LineRequest, len(r.Items)),
	}
	for i, item := range r.Items {
		in.Items[i] = orders.LineRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return in
}

// PlaceOrder is the handler for POST /v1/orders
func (h *Handlers) PlaceOrder(c *gin.Context) {
	// 1. --- Get Customer ---
	actor := currentActor(c)
	if actor == nil {
		return
	}

	// 2. --- Bind & Validate JSON ---
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 3. --- Place the order (one transaction) ---
	detail, effects, err := h.Orders.PlaceOrder(c.Request.Context(), actor, req.input())
	if err != nil {
		respondError(c, err, log.Fields{"userID": actor.ID(), "items": req.Items})
		return
	}

	// 4. --- Notify the vendor, then respond ---
	h.Notifier.Dispatch(effects...)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   detail,
	})
}

// GetMyOrders is the handler for GET /v1/orders/me
func (h *Handlers) GetMyOrders(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}
	list, err := h.Orders.ListMyOrders(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, log.Fields{"userID": actor.ID()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// GetOrders is the handler for GET /v1/orders
// Admins see every order; vendors see orders of their own businesses.
func (h *Handlers) GetOrders(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}
	list, err := h.Orders.ListOrders(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, log.Fields{"userID": actor.ID()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// GetOrder is the handler for GET /v1/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	detail, err := h.Orders.GetOrder(c.Request.Context(), actor, orderID)
	if err != nil {
		respondError(c, err, log.Fields{"userID": actor.ID(), "orderID": orderID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": detail})
}

// GetBusinessOrders is the handler for GET /v1/businesses/:id/orders
func (h *Handlers) GetBusinessOrders(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}
	businessID, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := h.Orders.ListBusinessOrders(c.Request.Context(), actor, businessID)
	if err != nil {
		respondError(c, err, log.Fields{"userID": actor.ID(), "businessID": businessID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}
