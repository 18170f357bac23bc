package auth

import (
	"net/http"

	"bitwise74/gallery-api/app/reply"
	"bitwise74/gallery-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type googleBody struct {
	// Assertion is the ID token handed out by Google Identity Services.
	// Older clients send it as credential.
	Assertion  string `json:"assertion"`
	Credential string `json:"credential"`
}

func Google(c *gin.Context, d *internal.Deps) {
	var data googleBody
	if err := c.ShouldBindJSON(&data); err != nil {
		reply.BadBody(c, err)
		return
	}

	raw := data.Assertion
	if raw == "" {
		raw = data.Credential
	}

	identity, err := d.Decoder.Decode(raw)
	if err != nil {
		zap.L().Debug("Rejected google assertion", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
		reply.Fail(c, http.StatusBadRequest, "Invalid Google token")
		return
	}

	sess, created, err := d.Auth.OAuthLogin(c.Request.Context(), identity)
	if err != nil {
		reply.Error(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	writeSession(c, d, status, sess)
}
