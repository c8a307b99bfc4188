package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"take_exam_backend/internal/config"
	"take_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "auth-middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: testSecret},
	}
}

func newAuthRouter(roles ...util.UserRole) *gin.Engine {
	router := gin.New()
	group := router.Group("/api")
	group.Use(AuthMiddleware(testAuthConfig()))
	if len(roles) > 0 {
		group.Use(RoleMiddleware(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": user.UserID})
	})
	return router
}

func mintToken(t *testing.T, role util.UserRole, ttl time.Duration) string {
	t.Helper()
	token, err := util.GenerateJWT("user-1", role, testSecret, ttl)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_ValidBearerToken(t *testing.T) {
	router := newAuthRouter()
	token := mintToken(t, util.Student, time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthMiddleware_TokenFromQuery(t *testing.T) {
	router := newAuthRouter()
	token := mintToken(t, util.Student, time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/protected?token="+token, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	router := newAuthRouter()

	expired := mintToken(t, util.Student, -time.Hour)
	wrongKey, err := util.GenerateJWT("user-1", util.Student, "some-other-secret", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing token", ""},
		{"expired token", "Bearer " + expired},
		{"wrong signing key", "Bearer " + wrongKey},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	router := newAuthRouter(util.Teacher)

	cases := []struct {
		name   string
		role   util.UserRole
		status int
	}{
		{"student forbidden", util.Student, http.StatusForbidden},
		{"teacher allowed", util.Teacher, http.StatusOK},
		{"admin bypasses role check", util.Admin, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
			req.Header.Set("Authorization", "Bearer "+mintToken(t, tc.role, time.Hour))
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
