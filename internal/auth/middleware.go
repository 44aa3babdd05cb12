package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsKey = "auth_claims"

// Gate guards routes behind bearer-token authentication. Every mutation of
// the contact resources and all inbox reads go through it; only the public
// contact-form submission and contact method listing bypass it.
type Gate struct {
	secret []byte
}

func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// RequireAuth aborts with 401 unless the request carries a valid bearer token.
func (g *Gate) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
			})
			return
		}
		claims, err := ValidateToken(g.secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
			})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the authenticated user has the admin
// role. Must run after RequireAuth.
func (g *Gate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok || claims.Role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Admin access required",
			})
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by RequireAuth.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
