package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/01moynul/marketd/internal/access"
	"github.com/01moynul/marketd/internal/auth"
	"github.com/01moynul/marketd/internal/models"
	"github.com/01moynul/marketd/internal/store"
)

const (
	userIDKey = "userID"
	actorKey  = "actor"
)

// AuthMiddleware validates the bearer token, loads the user and stores
// both the user ID and the resolved Actor on the context.
func AuthMiddleware(tokens *auth.TokenManager, st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			return
		}

		// 2. --- Validate Token ---
		userID, err := tokens.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// 3. --- Load the user behind the token ---
		user, err := st.GetUser(c.Request.Context(), st.DB(), userID)
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if err != nil {
			Logger(c).WithError(err).WithField("userID", userID).Error("failed to load authenticated user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		actor, err := access.FromUser(user)
		if err != nil {
			Logger(c).WithError(err).Warn("user has an unknown role")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		// 4. --- Success ---
		c.Set(userIDKey, userID)
		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware. It rejects callers whose role
// is not one of roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found in context (AuthMiddleware must run first)"})
			return
		}
		for _, role := range roles {
			if actor.Role() == role {
				c.Next()
				return
			}
		}
		log.WithFields(log.Fields{
			"userID": actor.ID(),
			"role":   actor.Role(),
			"path":   c.FullPath(),
		}).Debug("role check failed")
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient role"})
	}
}

// ActorFrom returns the Actor set by AuthMiddleware.
func ActorFrom(c *gin.Context) (access.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return nil, false
	}
	actor, ok := v.(access.Actor)
	return actor, ok
}

// SetActor is used by tests and internal callers that authenticate by other means.
func SetActor(c *gin.Context, actor access.Actor) {
	c.Set(userIDKey, actor.ID())
	c.Set(actorKey, actor)
}
