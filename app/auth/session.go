// Package auth contains the account endpoints
package auth

import (
	"net/http"

	"bitwise74/gallery-api/internal"
	"bitwise74/gallery-api/internal/model"
	"bitwise74/gallery-api/internal/service"

	"github.com/gin-gonic/gin"
)

const cookieMaxAge = 60 * 60 * 24 * 30

func userBody(u *model.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"avatar":     u.Avatar,
		"isVerified": u.IsVerified,
	}
}

// writeSession answers with the user and token and also drops the token
// into an http only cookie for browser clients
func writeSession(c *gin.Context, d *internal.Deps, status int, s *service.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("auth_token", s.Token, cookieMaxAge, "/", "", d.SecureCookies, true)

	body := userBody(s.User)
	body["token"] = s.Token

	c.JSON(status, body)
}
