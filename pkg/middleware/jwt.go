package middleware

import (
	"errors"
	"net/http"
	"strings"

	"bitwise74/gallery-api/internal/apperr"
	"bitwise74/gallery-api/internal/model"
	"bitwise74/gallery-api/internal/policy"
	"bitwise74/gallery-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewJWTMiddleware requires a valid bearer token. The token is read from the
// Authorization header and, for browsers, the auth_token cookie. Tokens are
// trusted as is, nothing is looked up in the database.
func NewJWTMiddleware(tokens *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, present := bearer(c)
		if !present {
			abortAuth(c, apperr.ErrNotAuthenticated)
			return
		}

		if !authenticate(c, tokens, tokenStr) {
			return
		}

		c.Next()
	}
}

// NewOptionalJWTMiddleware lets anonymous requests through. A token that is
// present but invalid is still rejected.
func NewOptionalJWTMiddleware(tokens *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, present := bearer(c)
		if !present {
			c.Next()
			return
		}

		if !authenticate(c, tokens, tokenStr) {
			return
		}

		c.Next()
	}
}

// RequireAdmin must run after NewJWTMiddleware
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			abortAuth(c, apperr.ErrNotAuthenticated)
			return
		}

		if !policy.CanManageUsers(actor) {
			abortAuth(c, apperr.ErrAdminOnly)
			return
		}

		c.Next()
	}
}

// ActorFrom returns the authenticated caller, if any
func ActorFrom(c *gin.Context) (policy.Actor, bool) {
	v, ok := c.Get("actor")
	if !ok {
		return policy.Actor{}, false
	}

	actor, ok := v.(policy.Actor)
	return actor, ok
}

func authenticate(c *gin.Context, tokens *security.TokenIssuer, tokenStr string) bool {
	claims, err := tokens.Resolve(tokenStr)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			abortAuth(c, apperr.ErrTokenExpired)
			return false
		}

		zap.L().Debug("Rejected token", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
		abortAuth(c, apperr.ErrTokenInvalid)
		return false
	}

	role, err := model.ParseRole(claims.Role)
	if err != nil {
		abortAuth(c, apperr.ErrTokenInvalid)
		return false
	}

	c.Set("userID", claims.UserID)
	c.Set("actor", policy.Actor{ID: claims.UserID, Role: role})

	return true
}

// bearer returns the token and whether any credential was sent at all. A
// header with another scheme or no token counts as sent, the token is then
// empty and fails to resolve.
func bearer(c *gin.Context) (string, bool) {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok), true
		}

		return "", true
	}

	tok, err := c.Cookie("auth_token")
	if err != nil || tok == "" {
		return "", false
	}

	return tok, true
}

func abortAuth(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		status = http.StatusUnauthorized
	}

	abort(c, status, apperr.Message(err))
}
