package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/medipos/internal/storecontext"
)

const (
	sessionCookieName = "medipos_session"
	contextUserIDKey  = "user_id"
	contextRoleKey    = "role"
)

// Role gates reuse the storecontext constants so routing and services agree.
const (
	RoleAdmin   = storecontext.RoleAdmin
	RoleDealer  = storecontext.RoleDealer
	RoleCounter = storecontext.RoleCounter
)

// AuthRequired resolves the session token from the cookie or the
// Authorization header and injects the resolved identity into the request
// context. Services downstream read the store and role from there.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		identity, err := s.authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := c.Request.Context()
		ctx = storecontext.WithStoreID(ctx, identity.StoreID)
		ctx = storecontext.WithRole(ctx, identity.Role)
		ctx = storecontext.WithUserID(ctx, identity.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Set(contextUserIDKey, identity.UserID)
		c.Set(contextRoleKey, identity.Role)
		c.Next()
	}
}

// RequireRole closes a route to every role not listed.
func (s *Server) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := storecontext.RoleFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil {
		if trimmed := strings.TrimSpace(cookie); trimmed != "" {
			return trimmed
		}
	}

	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
