package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestJWTResolver_RoundTrip(t *testing.T) {
	r := NewJWTResolver(secret, "azkar-auth")

	token, err := r.Issue("user-42", time.Hour)
	require.NoError(t, err)

	user, err := r.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", user.String())
}

func TestJWTResolver_Rejects(t *testing.T) {
	r := NewJWTResolver(secret, "azkar-auth")
	valid, err := r.Issue("user-42", time.Hour)
	require.NoError(t, err)

	expired, err := r.Issue("user-42", -time.Hour)
	require.NoError(t, err)

	otherIssuer, err := NewJWTResolver(secret, "someone-else").Issue("user-42", time.Hour)
	require.NoError(t, err)

	wrongKey, err := NewJWTResolver("ffffffffffffffffffffffffffffffff", "azkar-auth").Issue("user-42", time.Hour)
	require.NoError(t, err)

	noSubject, err := r.Issue("", time.Hour)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: "user-42",
		Issuer:  "azkar-auth",
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := map[string]string{
		"expired":    expired,
		"issuer":     otherIssuer,
		"signature":  wrongKey,
		"no subject": noSubject,
		"wrong alg":  hs512,
		"garbage":    "not.a.jwt",
		"tampered":   valid + "x",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := r.Resolve(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err = r.Resolve("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestJWTResolver_IssuerOptional(t *testing.T) {
	token, err := NewJWTResolver(secret, "anyone").Issue("u1", time.Hour)
	require.NoError(t, err)

	user, err := NewJWTResolver(secret, "").Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", string(user))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Empty(t, BearerToken("Basic abc"))
	assert.Empty(t, BearerToken(""))
}
