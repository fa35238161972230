package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/plannr-dev/plannr/db"
	"github.com/plannr-dev/plannr/internal/auth"
	"github.com/plannr-dev/plannr/internal/middleware"
	"github.com/plannr-dev/plannr/internal/models"
	"github.com/plannr-dev/plannr/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMiddlewareTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	db.DB = conn

	r := gin.New()
	r.GET("/protected", middleware.AuthMiddleware(), func(ctx *gin.Context) {
		user, err := utils.GetCurrentUser(ctx)
		require.NoError(t, err)
		ctx.JSON(http.StatusOK, gin.H{"id": user.ID})
	})

	return r
}

func createTestUser(t *testing.T, email string) models.User {
	t.Helper()

	user := models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "irrelevant",
	}
	require.NoError(t, db.DB.Create(&user).Error)

	return user
}

func protectedRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)

	if header != "" {
		req.Header.Set("Authorization", header)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	r := setupMiddlewareTest(t)

	w := protectedRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized")
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	r := setupMiddlewareTest(t)

	w := protectedRequest(r, "Token abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Bearer")
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	r := setupMiddlewareTest(t)

	w := protectedRequest(r, "Bearer not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired")
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	r := setupMiddlewareTest(t)
	user := createTestUser(t, "expired@x.com")

	claims := jwt.MapClaims{
		"user_id": float64(user.ID),
		"email":   user.Email,
		"exp":     time.Now().Add(-time.Minute).Unix(),
	}

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	w := protectedRequest(r, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	r := setupMiddlewareTest(t)
	user := createTestUser(t, "valid@x.com")

	token, err := auth.GenerateJWT(user.ID, user.Email)
	require.NoError(t, err)

	w := protectedRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

// A token whose subject was deleted after issuance must be rejected with
// 401, never 404 or 500.
func TestAuthMiddlewareDeletedUser(t *testing.T) {
	r := setupMiddlewareTest(t)
	user := createTestUser(t, "gone@x.com")

	token, err := auth.GenerateJWT(user.ID, user.Email)
	require.NoError(t, err)

	require.NoError(t, db.DB.Delete(&user).Error)

	w := protectedRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}
