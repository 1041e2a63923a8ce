package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atlashq/backend/internal/models"
	"github.com/atlashq/backend/pkg/response"
)

// ContextUser is the key for the authenticated user in gin context.
const ContextUser = "current_user"

// SessionLookup resolves an active session id to its user. A nil user with a
// nil error means no active session matched.
type SessionLookup interface {
	GetBySession(ctx context.Context, sessionID uuid.UUID) (*models.User, error)
}

// Session returns a middleware that authenticates requests by session cookie.
// The cookie value is the opaque session id; expired sessions never resolve.
func Session(users SessionLookup, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cookieName)
		if err != nil || raw == "" {
			response.Unauthorized(c, "missing session")
			c.Abort()
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Unauthorized(c, "invalid session")
			c.Abort()
			return
		}
		user, err := users.GetBySession(c.Request.Context(), id)
		if err != nil {
			response.Internal(c, "session lookup failed")
			c.Abort()
			return
		}
		if user == nil {
			response.Unauthorized(c, "invalid or expired session")
			c.Abort()
			return
		}
		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Session, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
