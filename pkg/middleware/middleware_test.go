package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bitwise74/gallery-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(NewRequestIDMiddleware())
	r.Use(mw...)

	r.Any("/", func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role, "authed": ok})
	})

	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMiddleware(t *testing.T) {
	tokens := security.NewTokenIssuer("secret", time.Hour)
	r := newEngine(NewJWTMiddleware(tokens))

	valid, err := tokens.Mint("user1", "admin")
	require.NoError(t, err)

	expired, err := security.NewTokenIssuer("secret", -time.Minute).Mint("user1", "user")
	require.NoError(t, err)

	badRole, err := tokens.Mint("user1", "root")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
		msg    string
	}{
		{"no token", "", "", http.StatusUnauthorized, "Not authorized, no token"},
		{"bearer", "Bearer " + valid, "", http.StatusOK, ""},
		{"lowercase scheme", "bearer " + valid, "", http.StatusOK, ""},
		{"cookie", "", valid, http.StatusOK, ""},
		{"wrong scheme", "Basic " + valid, "", http.StatusUnauthorized, "Not authorized, token failed"},
		{"scheme without token", "Bearer", "", http.StatusUnauthorized, "Not authorized, token failed"},
		{"garbage", "Bearer garbage", "", http.StatusUnauthorized, "Not authorized, token failed"},
		{"expired", "Bearer " + expired, "", http.StatusUnauthorized, "Authorization token expired. Please log in again"},
		{"unknown role", "Bearer " + badRole, "", http.StatusUnauthorized, "Not authorized, token failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "auth_token", Value: tt.cookie})
			}

			w := do(r, req)
			assert.Equal(t, tt.want, w.Code)

			if tt.msg != "" {
				assert.Contains(t, w.Body.String(), tt.msg)
				assert.Contains(t, w.Body.String(), "requestID")
			} else {
				assert.Contains(t, w.Body.String(), `"id":"user1"`)
			}
		})
	}
}

func TestOptionalJWTMiddleware(t *testing.T) {
	tokens := security.NewTokenIssuer("secret", time.Hour)
	r := newEngine(NewOptionalJWTMiddleware(tokens))

	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authed":false`)

	for _, h := range []string{"Bearer garbage", "Basic dXNlcjpwYXNz", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", h)
		assert.Equal(t, http.StatusUnauthorized, do(r, req).Code, h)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)

	tok, err := tokens.Mint("user1", "user")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authed":true`)
}

func TestRequireAdmin(t *testing.T) {
	tokens := security.NewTokenIssuer("secret", time.Hour)
	r := newEngine(NewJWTMiddleware(tokens), RequireAdmin())

	user, err := tokens.Mint("user1", "user")
	require.NoError(t, err)
	admin, err := tokens.Mint("admin1", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+user)
	assert.Equal(t, http.StatusForbidden, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := newEngine(RateLimiterMiddleware(ctx, RateLimiterConfig{RequestsPerSecond: 1, Burst: 2}))

	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, do(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestBodySizeLimiter(t *testing.T) {
	r := newEngine(BodySizeLimiter(8))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this body is too long"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, do(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short"))
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestTurnstileDisabled(t *testing.T) {
	r := newEngine(NewTurnstileMiddleware())
	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodPost, "/", nil)).Code)
}
