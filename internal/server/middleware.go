package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/craftedcv/craftedcv/internal/authorization"
)

const (
	contextUserIDKey = "user_id"
	contextEmailKey  = "user_email"
	contextRoleKey   = "user_role"
)

// AuthRequired validates the bearer token and loads the caller's identity
// into the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.issuer.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		userID, err := snowflake.ParseString(claims.Subject)
		if err != nil || userID == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Set(contextEmailKey, claims.Email)
		c.Set(contextRoleKey, claims.Role)
		c.Next()
	}
}

// RequireAction gates a route on the caller's role.
func (s *Server) RequireAction(action authorization.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authorization.Allowed(currentRole(c), action) {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) snowflake.ID {
	value, ok := c.Get(contextUserIDKey)
	if !ok {
		return 0
	}
	id, _ := value.(snowflake.ID)
	return id
}

func currentRole(c *gin.Context) string {
	return c.GetString(contextRoleKey)
}
