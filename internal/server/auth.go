package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/medipos/internal/auth/domain"
	"github.com/smallbiznis/medipos/internal/storecontext"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authSvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.setSessionCookie(c, result.Token, result.ExpiresAt)

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) Logout(c *gin.Context) {
	token := sessionToken(c)
	if token != "" {
		if err := s.authSvc.Logout(c.Request.Context(), token); err != nil {
			AbortWithError(c, err)
			return
		}
	}

	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"logged_out": true}})
}

func (s *Server) Me(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := storecontext.UserIDFromContext(ctx)
	storeID, _ := storecontext.StoreIDFromContext(ctx)
	role, _ := storecontext.RoleFromContext(ctx)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"user_id":  userID.String(),
		"store_id": storeID.String(),
		"role":     role,
	}})
}

func (s *Server) CreateUser(c *gin.Context) {
	var req authdomain.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.authSvc.CreateUser(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, maxAge, "/", "", s.cfg.AuthCookieSecure, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", s.cfg.AuthCookieSecure, true)
}

func isAuthValidationError(err error) bool {
	switch err {
	case authdomain.ErrInvalidStore,
		authdomain.ErrInvalidRole,
		authdomain.ErrInvalidEmail,
		authdomain.ErrInvalidPassword:
		return true
	default:
		return false
	}
}
