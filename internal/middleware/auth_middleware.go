package middleware

import (
	"strings"

	"simbengride/internal/models"
	"simbengride/internal/services"
	"simbengride/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextSessionID = "session_id"
	ContextUser      = "user"
)

// AuthRequired validates the bearer token and loads the session actor into
// the request context. Handlers read the actor; they never mutate it
// directly — all writes go through the session service.
func AuthRequired(sessions services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		sessionID, user, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set(ContextSessionID, sessionID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// AdminRequired ensures the session actor is an admin.
func AdminRequired() gin.HandlerFunc {
	return roleRequired(models.RoleAdmin)
}

// OwnerRequired ensures the session actor is a vehicle owner.
func OwnerRequired() gin.HandlerFunc {
	return roleRequired(models.RoleOwner)
}

// RiderRequired ensures the session actor is a rider.
func RiderRequired() gin.HandlerFunc {
	return roleRequired(models.RoleRider)
}

func roleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		if user.Role != role {
			utils.ForbiddenResponse(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the session actor set by AuthRequired, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUser)
	if !exists {
		return nil
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SessionID returns the session id set by AuthRequired.
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
