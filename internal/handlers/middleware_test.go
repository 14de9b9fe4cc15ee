package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunevault/internal/apperr"
	"tunevault/internal/models"
	"tunevault/internal/services"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *services.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := services.NewTokenService("test-secret", 60)

	router := gin.New()
	router.GET("/me", Authenticated(tokens), func(c *gin.Context) {
		OK(c, CurrentClaims(c).Username)
	})
	router.GET("/admin", Authenticated(tokens), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		OKMessage(c, "welcome")
	})
	return router, tokens
}

func doRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAuthenticatedRejectsMissingToken(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	w := doRequest(router, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	env := decodeEnvelope(t, w)
	assert.False(t, env.IsSuccess)
	assert.Equal(t, apperr.Unauthorized, env.StatusCode)
}

func TestAuthenticatedRejectsGarbageToken(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	w := doRequest(router, http.MethodGet, "/me", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticatedAcceptsValidToken(t *testing.T) {
	router, tokens := newAuthTestRouter(t)
	token, err := tokens.Issue("ali", "1", []string{models.RoleUser}, "stamp")
	require.NoError(t, err)

	w := doRequest(router, http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	assert.True(t, env.IsSuccess)
	assert.Equal(t, "ali", env.Data)
}

func TestRequireRoleRejectsNonAdmin(t *testing.T) {
	router, tokens := newAuthTestRouter(t)
	token, err := tokens.Issue("ali", "1", []string{models.RoleUser}, "stamp")
	require.NoError(t, err)

	w := doRequest(router, http.MethodGet, "/admin", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleAcceptsAdmin(t *testing.T) {
	router, tokens := newAuthTestRouter(t)
	token, err := tokens.Issue("boss", "1", []string{models.RoleAdmin}, "stamp")
	require.NoError(t, err)

	w := doRequest(router, http.MethodGet, "/admin", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFailTranslatesAppErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/missing", func(c *gin.Context) {
		Fail(c, apperr.NotFoundf("artist not found"))
	})

	w := doRequest(router, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	env := decodeEnvelope(t, w)
	assert.False(t, env.IsSuccess)
	assert.Equal(t, apperr.NotFound, env.StatusCode)
	assert.Equal(t, "artist not found", env.Message)
}

func TestFailHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		Fail(c, assert.AnError)
	})

	w := doRequest(router, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	env := decodeEnvelope(t, w)
	assert.Equal(t, apperr.ServerError.Message(), env.Message)
	assert.NotContains(t, env.Message, assert.AnError.Error())
}
