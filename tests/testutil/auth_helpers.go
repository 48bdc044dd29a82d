package testutil

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/stitchly-app/stitchly-api/middleware"
	"github.com/stitchly-app/stitchly-api/models"
)

// MockAuth returns a middleware that populates the context the same way
// Authenticate does, without requiring a real token.
func MockAuth(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := &middleware.Claims{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: user.Email,
			},
		}
		c.Set("user_id", user.ID)
		c.Set("claims", claims)
		c.Next()
	}
}

// SetMockAuthContext sets up an authenticated test context directly.
func SetMockAuthContext(c *gin.Context, user *models.User) {
	claims := &middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.Email,
		},
	}
	c.Set("user_id", user.ID)
	c.Set("claims", claims)
}
