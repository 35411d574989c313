package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/01moynul/marketd/internal/access"
	"github.com/01moynul/marketd/internal/middleware"
	"github.com/01moynul/marketd/internal/orders"
)

// statusFor maps the order error taxonomy to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, orders.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, orders.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, orders.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, orders.ErrInsufficientStock),
		errors.Is(err, orders.ErrConflict),
		errors.Is(err, orders.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, orders.ErrInvalidRider),
		errors.Is(err, orders.ErrMixedBusiness):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondError writes err to the client. Internal failures are logged with
// fields and replaced by a generic message.
func respondError(c *gin.Context, err error, fields log.Fields) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		middleware.Logger(c).WithError(err).WithFields(fields).Error("request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// currentActor returns the authenticated actor. The route groups guarantee
// AuthMiddleware ran first.
func currentActor(c *gin.Context) access.Actor {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return nil
	}
	return actor
}

// paramID parses a positive integer path parameter, answering 400 otherwise.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
