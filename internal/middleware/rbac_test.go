package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/naac-sar-api/internal/models"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
)

type tokenStub map[string]models.UserRole

func (s tokenStub) ValidateToken(token string) (*models.JWTClaims, error) {
	role, ok := s[token]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return &models.JWTClaims{UserID: token, Role: role}, nil
}

func guardedRouter(required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ProtectWrites(tokenStub{"admin": models.RoleAdmin, "iqac": models.RoleIQAC, "viewer": models.RoleViewer}, required))
	handler := func(c *gin.Context) {
		user := "anonymous"
		if claims, ok := CurrentUser(c); ok {
			user = claims.UserID
		}
		c.String(http.StatusOK, user)
	}
	router.GET("/scores", handler)
	router.POST("/criteria3/createResponse313", handler)
	return router
}

func serve(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestProtectWritesRequired(t *testing.T) {
	router := guardedRouter(true)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/scores", "").Code)
	assert.Equal(t, "viewer", serve(router, http.MethodGet, "/scores", "viewer").Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodPost, "/criteria3/createResponse313", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodPost, "/criteria3/createResponse313", "forged").Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/criteria3/createResponse313", "viewer").Code)

	rec := serve(router, http.MethodPost, "/criteria3/createResponse313", "iqac")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "iqac", rec.Body.String())
	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/criteria3/createResponse313", "admin").Code)
}

func TestProtectWritesDisabled(t *testing.T) {
	router := guardedRouter(false)

	rec := serve(router, http.MethodPost, "/criteria3/createResponse313", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Equal(t, "viewer", serve(router, http.MethodPost, "/criteria3/createResponse313", "viewer").Body.String())
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWT(tokenStub{"admin": models.RoleAdmin, "viewer": models.RoleViewer}), RequireRoles(models.RoleAdmin))
	router.DELETE("/criteria/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/criteria/1", "admin").Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodDelete, "/criteria/1", "viewer").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodDelete, "/criteria/1", "").Code)
}
