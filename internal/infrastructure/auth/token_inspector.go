package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Eltn555/admin/domain"
)

// JWTInspector implements domain.TokenInspector. The backend owns the
// signing key, so claims are read unverified and used for display only.
type JWTInspector struct {
	parser *jwt.Parser
}

// NewJWTInspector creates a new token inspector
func NewJWTInspector() *JWTInspector {
	return &JWTInspector{parser: jwt.NewParser()}
}

// Inspect implements domain.TokenInspector. Opaque tokens yield
// domain.ErrTokenOpaque.
func (i *JWTInspector) Inspect(token string) (*domain.TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenOpaque, err)
	}

	info := &domain.TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if info.Subject == "" {
		if uid, ok := claims["user_id"]; ok {
			info.Subject = fmt.Sprint(uid)
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	return info, nil
}

var _ domain.TokenInspector = (*JWTInspector)(nil)
