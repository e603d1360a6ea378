package mockbackend

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid JWT")
	ErrExpiredToken = errors.New("JWT expired")
)

// Claims mirrors the access token layout of the hosted auth service.
type Claims struct {
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (m *tokenIssuer) issue(acct *account) (string, error) {
	now := m.now()
	claims := Claims{
		Email: acct.email,
		Role:  "authenticated",
		UserMetadata: map[string]any{
			"name": acct.metadata.Name,
			"role": acct.metadata.Role,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.id,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "mockbackend/auth/v1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenIssuer) validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
