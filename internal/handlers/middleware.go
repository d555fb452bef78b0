package handlers

import (
	"net/http"
	"strings"

	"smartbin/internal/service"

	"github.com/gin-gonic/gin"
)

const claimsContextKey = "claims"

// authMiddleware validates the bearer token and stashes its claims in the
// Gin context.
func (h *Handler) authMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	claims, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(claimsContextKey, claims)
	c.Next()
}

// mustClaims returns the claims stored by authMiddleware. Only valid on
// routes behind the middleware.
func mustClaims(c *gin.Context) *service.Claims {
	v, _ := c.Get(claimsContextKey)
	claims, _ := v.(*service.Claims)
	return claims
}
