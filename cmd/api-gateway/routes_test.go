package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/naac-sar-api/internal/handler"
	"github.com/noah-isme/naac-sar-api/internal/service"
	"github.com/noah-isme/naac-sar-api/pkg/config"
)

func testRouter(t *testing.T, env string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: env, APIPrefix: "/api/v1", JWT: config.JWTConfig{Secret: "test", AuthRequired: true}}
	metrics := service.NewMetricsService()
	var r *gin.Engine
	require.NotPanics(t, func() {
		r = newRouter(cfg, zap.NewNop(), routeDeps{
			tokens:    service.NewTokenService(service.TokenConfig{Secret: "test"}),
			metrics:   metrics,
			responses: handler.NewCriteriaResponseHandler(nil, nil),
			iiqa:      handler.NewIIQAHandler(nil),
			profiles:  handler.NewExtendedProfileHandler(nil),
			criteria:  handler.NewCriteriaMasterHandler(nil),
			scores:    handler.NewScoreHandler(nil, nil, nil, nil),
			ops:       handler.NewMetricsHandler(metrics, nil),
		})
	})
	return r
}

func TestRouterRegistersEveryGroup(t *testing.T) {
	r := testRouter(t, config.EnvDevelopment)
	routes := map[string]bool{}
	for _, route := range r.Routes() {
		routes[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/criteria3/createResponse313",
		"GET /api/v1/criteria3/score313",
		"GET /api/v1/criteria3/getResponsesByCriteriaCode/:criteriaCode",
		"POST /api/v1/iiqa/createIIQAForm",
		"GET /api/v1/extendedprofile",
		"GET /api/v1/criteria/:code",
		"DELETE /api/v1/criteria/:id",
		"GET /api/v1/scores/summary",
		"POST /api/v1/scores/recompute",
		"GET /metrics",
		"GET /docs/*any",
	} {
		assert.True(t, routes[want], want)
	}

	prod := testRouter(t, config.EnvProduction)
	for _, route := range prod.Routes() {
		assert.NotEqual(t, "/docs/*any", route.Path)
	}
}

func TestRouterRejectsAnonymousWrites(t *testing.T) {
	r := testRouter(t, config.EnvDevelopment)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/scores/recompute", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
