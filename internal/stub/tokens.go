package stub

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// accessTokenTTL matches the identity provider's default session length
const accessTokenTTL = time.Hour

// Claims mirrors the provider's access token payload
type Claims struct {
	Email        string       `json:"email"`
	Role         string       `json:"role"`
	UserMetadata userMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

type userMetadata struct {
	DisplayName string `json:"display_name,omitempty"`
}

// Tokens issues and verifies HS256 access tokens
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates an issuer for secret
func NewTokens(secret string) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("JWT secret not configured")
	}
	return &Tokens{secret: []byte(secret), ttl: accessTokenTTL, now: time.Now}, nil
}

// Issue creates a signed access token for user
func (t *Tokens) Issue(user *User) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)

	claims := Claims{
		Email:        user.Email,
		Role:         "authenticated",
		UserMetadata: userMetadata{DisplayName: user.DisplayName},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Audience:  jwt.ClaimStrings{"authenticated"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate verifies signature and expiry and returns the claims
func (t *Tokens) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token missing subject")
	}
	return claims, nil
}
