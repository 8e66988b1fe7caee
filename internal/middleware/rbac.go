package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/naac-sar-api/internal/models"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
	"github.com/noah-isme/naac-sar-api/pkg/response"
)

// WriterRoles may create, update and delete records and trigger scoring.
var WriterRoles = []models.UserRole{models.RoleAdmin, models.RoleIQAC}

// RBAC enforces role-based access control for routes.
func RBAC(allowed ...string) gin.HandlerFunc {
	allowedRoles := make(map[models.UserRole]struct{}, len(allowed))
	for _, a := range allowed {
		allowedRoles[models.UserRole(a)] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowedRoles[claims.Role]; ok {
			c.Next()
			return
		}
		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

// RequireRoles is a helper that accepts a list of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return RBAC(allowed...)
}

func isRead(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// ProtectWrites requires a writer token on mutating requests when required is set.
// Reads, and every request when required is false, only attach claims if a token is sent.
func ProtectWrites(tokens TokenValidator, required bool) gin.HandlerFunc {
	writers := make(map[models.UserRole]struct{}, len(WriterRoles))
	for _, r := range WriterRoles {
		writers[r] = struct{}{}
	}
	return func(c *gin.Context) {
		token, ok := bearer(c)
		if !required || isRead(c.Request.Method) {
			if ok {
				if claims, err := tokens.ValidateToken(token); err == nil {
					c.Set(ContextUserKey, claims)
				}
			}
			c.Next()
			return
		}
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, err := tokens.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if _, allowed := writers[claims.Role]; !allowed {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, claims)
		c.Next()
	}
}
