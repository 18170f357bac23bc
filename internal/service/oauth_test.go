package service

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func googleToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("whatever"))
	require.NoError(t, err)

	return tok
}

func TestGoogleAssertionDecoder(t *testing.T) {
	raw := googleToken(t, jwt.MapClaims{
		"sub":     "1234",
		"aud":     "client-a",
		"email":   "bob@example.com",
		"name":    "Bob",
		"picture": "https://img.test/bob.png",
	})

	id, err := GoogleAssertionDecoder{}.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, &Identity{Subject: "1234", Name: "Bob", Email: "bob@example.com", Avatar: "https://img.test/bob.png"}, id)

	_, err = GoogleAssertionDecoder{ClientID: "client-a"}.Decode(raw)
	assert.NoError(t, err)

	_, err = GoogleAssertionDecoder{ClientID: "client-b"}.Decode(raw)
	assert.ErrorIs(t, err, ErrAssertionInvalid)
}

func TestGoogleAssertionDecoder_Invalid(t *testing.T) {
	for _, raw := range []string{"", "garbage", googleToken(t, jwt.MapClaims{"sub": "1"})} {
		_, err := GoogleAssertionDecoder{}.Decode(raw)
		assert.ErrorIs(t, err, ErrAssertionInvalid, raw)
	}
}
