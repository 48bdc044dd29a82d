package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/models"
)

func testConfig() *config.Config {
	return &config.Config{GoEnv: "test", JWTSecret: "middleware-test-secret"}
}

func testUser() *models.User {
	return &models.User{
		ID:    42,
		Email: "jwt@test.com",
		Role:  models.RoleClient,
	}
}

func protectedRouter(cfg *config.Config, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := []gin.HandlerFunc{Authenticate(cfg)}
	if role != "" {
		handlers = append(handlers, RequireRole(role))
	}
	handlers = append(handlers, func(c *gin.Context) {
		userID, err := GetUserID(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"user_id": userID}})
	})
	router.GET("/protected", handlers...)
	return router
}

func getWithToken(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIssueAndAuthenticate(t *testing.T) {
	cfg := testConfig()
	router := protectedRouter(cfg, "")

	token, err := IssueToken(cfg, testUser())
	require.NoError(t, err)

	w := getWithToken(router, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
}

func TestAuthenticateRejections(t *testing.T) {
	cfg := testConfig()
	router := protectedRouter(cfg, "")

	expired := func() string {
		claims := &Claims{
			UserID: 42,
			Email:  "jwt@test.com",
			Role:   models.RoleClient,
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
		require.NoError(t, err)
		return token
	}

	wrongSecret := func() string {
		token, err := IssueToken(&config.Config{JWTSecret: "another-secret"}, testUser())
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not.a.jwt"},
		{"expired token", expired()},
		{"wrong secret", wrongSecret()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := getWithToken(router, tt.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthenticateRejectsUnsignedAlgorithm(t *testing.T) {
	cfg := testConfig()
	router := protectedRouter(cfg, "")

	claims := &Claims{UserID: 42, Role: models.RoleClient, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	w := getWithToken(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	cfg := testConfig()

	clientToken, err := IssueToken(cfg, testUser())
	require.NoError(t, err)

	tailorUser := testUser()
	tailorUser.Role = models.RoleTailor
	tailorToken, err := IssueToken(cfg, tailorUser)
	require.NoError(t, err)

	router := protectedRouter(cfg, models.RoleClient)

	w := getWithToken(router, clientToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = getWithToken(router, tailorToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
