// Package auth validates the HS256 JWTs minted by the external auth
// provider. Token issuance lives at the provider; this package only mirrors
// its claim shape so the API can check signatures, expiry and token type.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

// Token types as the auth provider writes them into the "type" claim
const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims mirrors the provider's JWT payload
type Claims struct {
	UserID uint      `json:"user_id"`
	Type   TokenType `json:"type"`
	jwt.RegisteredClaims
}

// ValidateAccessToken parses and verifies an access token. Signature,
// expiry and the "type" claim must all check out.
func ValidateAccessToken(tokenString, secretKey string) (*Claims, error) {
	return parseClaims(tokenString, secretKey, AccessToken)
}

// ValidateRefreshToken parses and verifies a refresh token
func ValidateRefreshToken(tokenString, secretKey string) (*Claims, error) {
	return parseClaims(tokenString, secretKey, RefreshToken)
}

func parseClaims(tokenString, secretKey string, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != expected {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

// NewToken mints a token in the provider's format. Production tokens come
// from the auth provider; this exists for tests and local tooling. A
// non-positive ttl yields an already-expired token.
func NewToken(userID uint, secretKey string, ttl time.Duration, tokenType TokenType) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
}
