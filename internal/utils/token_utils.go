package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims accepted by the API. Subject carries the account ID.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT generates a new HS256 token for accountID acting as role.
func GenerateJWT(accountID string, role domain.Role, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	if accountID == "" || !role.IsValid() {
		return "", fmt.Errorf("cannot issue token for account %q with role %q", accountID, role)
	}
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a JWT token string, validates its signature and standard claims,
// and requires a subject and a known role.
func ParseAndValidateJWT(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" || !claims.Role.IsValid() {
		return nil, fmt.Errorf("%w: missing subject or unknown role %q", jwt.ErrTokenInvalidClaims, claims.Role)
	}

	return claims, nil
}

// IsExpiryError reports whether err came from an expired or not-yet-valid token.
func IsExpiryError(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet)
}
