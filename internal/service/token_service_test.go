package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/naac-sar-api/internal/models"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
)

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func claimsFor(role models.UserRole, issuer string, expires time.Time) models.JWTClaims {
	return models.JWTClaims{
		UserID: "u-1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
}

func TestTokenServiceValidateToken(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", Issuer: "iqac"})

	token := signToken(t, jwt.SigningMethodHS256, []byte("secret"), claimsFor("iqac", "iqac", time.Now().Add(time.Hour)))
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleIQAC, claims.Role)
}

func TestTokenServiceRejectsInvalidTokens(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", Issuer: "iqac"})

	cases := map[string]string{
		"wrong secret": signToken(t, jwt.SigningMethodHS256, []byte("other"), claimsFor(models.RoleAdmin, "iqac", time.Now().Add(time.Hour))),
		"wrong method": signToken(t, jwt.SigningMethodHS512, []byte("secret"), claimsFor(models.RoleAdmin, "iqac", time.Now().Add(time.Hour))),
		"wrong issuer": signToken(t, jwt.SigningMethodHS256, []byte("secret"), claimsFor(models.RoleAdmin, "portal", time.Now().Add(time.Hour))),
		"expired":      signToken(t, jwt.SigningMethodHS256, []byte("secret"), claimsFor(models.RoleAdmin, "iqac", time.Now().Add(-time.Hour))),
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
		})
	}
}
