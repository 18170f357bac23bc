package service

import (
	"errors"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what a third party identity provider tells us about a user.
// Whoever produces it is responsible for having checked it.
type Identity struct {
	Subject string
	Name    string
	Email   string
	Avatar  string
}

type AssertionDecoder interface {
	Decode(raw string) (*Identity, error)
}

var ErrAssertionInvalid = errors.New("invalid identity assertion")

type googleClaims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// GoogleAssertionDecoder reads the claims of a Google ID token. The
// signature is NOT checked here, the token is expected to have been
// validated by the client library that obtained it. When ClientID is set
// the audience has to match it.
type GoogleAssertionDecoder struct {
	ClientID string
}

func (g GoogleAssertionDecoder) Decode(raw string) (*Identity, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrAssertionInvalid
	}

	var claims googleClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, errors.Join(ErrAssertionInvalid, err)
	}

	if g.ClientID != "" && !slices.Contains(claims.Audience, g.ClientID) {
		return nil, ErrAssertionInvalid
	}

	if claims.Email == "" {
		return nil, ErrAssertionInvalid
	}

	return &Identity{
		Subject: claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
		Avatar:  claims.Picture,
	}, nil
}
