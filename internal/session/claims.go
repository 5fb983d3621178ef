package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/strongcode/gymbook/pkg/domain"
)

// ErrNoClaims is returned when the token carries no readable payload.
var ErrNoClaims = errors.New("token has no readable claims")

// ParseClaims decodes the JWT payload of token without verifying its
// signature. The result is for display only.
func ParseClaims(token string) (domain.Claims, error) {
	tok, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return domain.Claims{}, fmt.Errorf("session.ParseClaims: %w", ErrNoClaims)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Claims{}, fmt.Errorf("session.ParseClaims: %w", ErrNoClaims)
	}

	var c domain.Claims
	if v, ok := claims["user_id"].(float64); ok {
		c.UserID = int(v)
	}
	if v, ok := claims["is_admin"].(bool); ok {
		c.IsAdmin = v
	}
	exp, err := claims.GetExpirationTime()
	if err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
