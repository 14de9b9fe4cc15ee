package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"tunevault/internal/apperr"
	"tunevault/internal/services"
)

const claimsKey = "claims"

// Authenticated validates the bearer token and stores the claims on the
// request context. Requests without a valid token are rejected.
func Authenticated(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			Fail(c, apperr.New(apperr.Unauthorized))
			c.Abort()
			return
		}
		claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			Fail(c, err)
			c.Abort()
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects callers whose token does not carry the role. It must
// run after Authenticated.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			Fail(c, apperr.New(apperr.Unauthorized))
			c.Abort()
			return
		}
		for _, r := range claims.Roles {
			if r == role {
				c.Next()
				return
			}
		}
		Fail(c, apperr.Unauthorizedf("insufficient permissions"))
		c.Abort()
	}
}

// CurrentClaims returns the authenticated caller's claims, or nil.
func CurrentClaims(c *gin.Context) *services.Claims {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*services.Claims)
	return claims
}
