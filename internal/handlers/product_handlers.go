package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/01moynul/marketd/internal/orders"
)

// CreateProductRequest lists one product. Price accepts a JSON number or string.
type CreateProductRequest struct {
	Name  string          `json:"name" binding:"required,max=255"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock" binding:"gte=0"`
}

// CreateProduct is the handler for POST /v1/vendor/businesses/:id/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}

	// 1. Resolve the business from the path
	businessID, ok := paramID(c, "id")
	if !ok {
		return
	}

	// 2. Bind the listing
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 3. Persist under the vendor's business
	product, err := h.Orders.CreateProduct(c.Request.Context(), actor, businessID, orders.ProductInput{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		respondError(c, err, log.Fields{"userID": actor.ID(), "businessID": businessID})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// GetProduct is the handler for GET /v1/products/:id
func (h *Handlers) GetProduct(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	product, err := h.Orders.GetProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, log.Fields{"productID": productID})
		return
	}
	c.JSON(http.StatusOK, product)
}
