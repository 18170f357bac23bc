package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_MintResolve(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)

	tok, err := ti.Mint("user1", "admin")
	require.NoError(t, err)

	claims, err := ti.Resolve(tok)
	require.NoError(t, err)
	assert.Equal(t, "user1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.NotNil(t, claims.IssuedAt)
}

func TestTokenIssuer_Expired(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	start := time.Now()
	ti.now = func() time.Time { return start }

	tok, err := ti.Mint("user1", "user")
	require.NoError(t, err)

	ti.now = func() time.Time { return start.Add(2 * time.Hour) }

	_, err = ti.Resolve(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	tok, err := NewTokenIssuer("secret", time.Hour).Mint("user1", "user")
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).Resolve(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	_, err := NewTokenIssuer("secret", time.Hour).Resolve("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "user1",
		Type:   "auth",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Resolve(s)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_RequiresUserID(t *testing.T) {
	_, err := NewTokenIssuer("secret", time.Hour).Mint("", "user")
	assert.Error(t, err)
}
