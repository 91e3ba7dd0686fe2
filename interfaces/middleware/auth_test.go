package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-hub/infrastructure/configuration"
	"social-hub/infrastructure/utils"
)

func serveWithAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, *string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var gotUserID string
	router := gin.New()
	router.Use(Auth())
	router.GET("/protected", func(c *gin.Context) {
		gotUserID = c.GetString("user_id")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	router.ServeHTTP(w, req)
	return w, &gotUserID
}

func TestAuth_ValidTokenSetsUserID(t *testing.T) {
	configuration.C.App.SecretKey = "test-secret"
	token, err := utils.GenerateToken(map[string]interface{}{
		"iss":       "42",
		"user_name": "alice",
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(time.Hour).Unix(),
	}, "test-secret")
	require.NoError(t, err)

	w, userID := serveWithAuth(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", *userID)
}

func TestAuth_MissingHeaderRejected(t *testing.T) {
	w, _ := serveWithAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_MalformedHeaderRejected(t *testing.T) {
	w, _ := serveWithAuth(t, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_WrongSignatureRejected(t *testing.T) {
	configuration.C.App.SecretKey = "test-secret"
	token, err := utils.GenerateToken(map[string]interface{}{
		"iss": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, "other-secret")
	require.NoError(t, err)

	w, _ := serveWithAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ExpiredTokenRejected(t *testing.T) {
	configuration.C.App.SecretKey = "test-secret"
	token, err := utils.GenerateToken(map[string]interface{}{
		"iss": "42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, "test-secret")
	require.NoError(t, err)

	w, _ := serveWithAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
