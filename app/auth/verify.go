package auth

import (
	"net/http"

	"bitwise74/gallery-api/app/reply"
	"bitwise74/gallery-api/internal"

	"github.com/gin-gonic/gin"
)

type verifyBody struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func VerifyOTP(c *gin.Context, d *internal.Deps) {
	var data verifyBody
	if err := c.ShouldBindJSON(&data); err != nil {
		reply.BadBody(c, err)
		return
	}

	sess, err := d.Auth.VerifyOTP(c.Request.Context(), data.Email, data.OTP)
	if err != nil {
		reply.Error(c, err)
		return
	}

	writeSession(c, d, http.StatusOK, sess)
}
