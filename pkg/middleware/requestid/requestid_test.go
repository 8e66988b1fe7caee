package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, inbound string) (*httptest.ResponseRecorder, string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Middleware())
	var fromGin, fromCtx string
	r.GET("/api/v1/scores", func(c *gin.Context) {
		fromGin = Value(c)
		fromCtx = FromContext(c.Request.Context())
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/scores", nil)
	if inbound != "" {
		req.Header.Set(Header, inbound)
	}
	r.ServeHTTP(w, req)
	return w, fromGin, fromCtx
}

func TestMiddlewareKeepsGatewayID(t *testing.T) {
	inbound := uuid.NewString()
	w, fromGin, fromCtx := serve(t, inbound)

	assert.Equal(t, inbound, fromGin)
	assert.Equal(t, inbound, fromCtx)
	assert.Equal(t, inbound, w.Header().Get(Header))
}

func TestMiddlewareReplacesMalformedID(t *testing.T) {
	w, fromGin, _ := serve(t, "not-a-uuid")

	_, err := uuid.Parse(w.Header().Get(Header))
	assert.NoError(t, err)
	assert.Equal(t, w.Header().Get(Header), fromGin)
}

func TestFromContextWithoutID(t *testing.T) {
	assert.Empty(t, FromContext(context.Background()))
}
