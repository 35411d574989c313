package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type CreateBusinessRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// CreateBusiness is the handler for POST /v1/vendor/businesses
func (h *Handlers) CreateBusiness(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}

	var req CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	business, err := h.Orders.CreateBusiness(c.Request.Context(), actor, req.Name)
	if err != nil {
		respondError(c, err, log.Fields{"userID": actor.ID(), "name": req.Name})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Business created successfully",
		"business": business,
	})
}
