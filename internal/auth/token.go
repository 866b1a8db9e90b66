// Package auth validates the bearer tokens issued by the identity service.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"khushi/internal/config"
	"khushi/internal/domain"
)

// Claims is the identity asserted by an access token.
type Claims struct {
	jwt.RegisteredClaims
	TenantID uuid.UUID       `json:"tenant_id"`
	UserID   uuid.UUID       `json:"user_id"`
	Role     domain.UserRole `json:"role"`
}

// TokenValidator turns a bearer token into caller identity.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

type jwtValidator struct {
	cfg config.JWTConfig
}

// NewTokenValidator creates an HMAC validator for tokens signed with cfg.Secret.
func NewTokenValidator(cfg config.JWTConfig) TokenValidator {
	return &jwtValidator{cfg: cfg}
}

func (v *jwtValidator) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	if err := claims.check(); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *Claims) check() error {
	if c.TenantID == uuid.Nil || c.UserID == uuid.Nil {
		return fmt.Errorf("%w: token carries no tenant or user", domain.ErrUnauthorized)
	}
	switch c.Role {
	case domain.RoleAdmin, domain.RoleAccountant, domain.RoleStaff:
		return nil
	}
	return fmt.Errorf("%w: unknown role %q", domain.ErrUnauthorized, c.Role)
}
