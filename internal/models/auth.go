package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the roles carried by bearer tokens.
type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleIQAC   UserRole = "IQAC"
	RoleViewer UserRole = "VIEWER"
)

// JWTClaims represents the JWT payload issued by the institution's identity provider.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
