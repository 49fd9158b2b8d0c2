// Package auth resolves caller identity from bearer tokens issued by the
// external identity provider. The service never issues tokens in production.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/azkar-hub/azkar-hub/internal/domain/shared"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken is returned when no bearer token is present.
	ErrMissingToken = errors.New("auth: missing bearer token")

	// ErrInvalidToken is returned when the token fails verification.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Claims are the token claims the service reads. Subject carries the user ID.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTResolver verifies HS256 tokens and extracts the subject.
type JWTResolver struct {
	secret []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
}

// NewJWTResolver creates a resolver. An empty issuer skips the iss check.
func NewJWTResolver(secret, issuer string) *JWTResolver {
	return &JWTResolver{
		secret: []byte(secret),
		issuer: issuer,
		leeway: 30 * time.Second,
		now:    time.Now,
	}
}

// Resolve verifies tokenString and returns the user it identifies.
func (r *JWTResolver) Resolve(tokenString string) (shared.UserID, error) {
	if tokenString == "" {
		return "", ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(r.leeway),
		jwt.WithTimeFunc(r.now),
	}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	return shared.UserID(sub), nil
}

// Issue signs a token for userID. Used by local tooling and tests.
func (r *JWTResolver) Issue(userID shared.UserID, ttl time.Duration) (string, error) {
	now := r.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(userID),
			Issuer:    r.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
