package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sponsorregistration/internal/domain"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	Admin bool `json:"admin"`
}

type jwtSessionCodec struct {
	secret []byte
}

// NewJWTSessionCodec returns a SessionCodec that signs session tokens with
// HS256 using the given secret. The token travels in an HttpOnly cookie.
func NewJWTSessionCodec(secret string) domain.SessionCodec {
	return &jwtSessionCodec{secret: []byte(secret)}
}

func (c *jwtSessionCodec) Issue(accountID string, isAdmin bool, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Admin: isAdmin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

func (c *jwtSessionCodec) Verify(tokenString string) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid session token")
	}
	return claims.Subject, nil
}
