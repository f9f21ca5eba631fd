package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ariefcatur/go-detail-market.git/internal/orders"
)

const TokenTTL = 24 * time.Hour

type Claims struct {
	Role orders.Role `json:"role"`
	jwt.RegisteredClaims
}

func IssueToken(secret, actorID string, role orders.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
