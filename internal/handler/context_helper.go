package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
)

// queryInt reads an optional non-negative integer query parameter. Absent means 0.
func queryInt(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, appErrors.Validationf("%s must be a non-negative integer", name)
	}
	return value, nil
}

// paramID reads a positive integer path parameter.
func paramID(c *gin.Context, name string) (int64, error) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || value <= 0 {
		return 0, appErrors.Validationf("%s must be a positive integer", name)
	}
	return value, nil
}

// bindBody decodes an optional JSON body. An empty body leaves dest untouched.
func bindBody(c *gin.Context, dest interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dest)
}
