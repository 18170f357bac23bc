package internal

import (
	"bitwise74/gallery-api/internal/service"
	"bitwise74/gallery-api/pkg/security"
	"bitwise74/gallery-api/pkg/validators"

	"gorm.io/gorm"
)

// Deps is everything a handler may need. It's built once at startup.
type Deps struct {
	DB       *gorm.DB
	Argon    *security.ArgonHash
	Tokens   *security.TokenIssuer
	Store    service.ObjectStore
	Decoder  service.AssertionDecoder
	Auth     *service.Auth
	Media    *service.Media
	Contacts *service.Contacts
	Users    *service.Users
	Upload   validators.ImageOpts
	// SecureCookies marks the auth cookie as https only
	SecureCookies bool
}
