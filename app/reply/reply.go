// Package reply writes error responses in the shape every endpoint shares
package reply

import (
	"errors"
	"net/http"

	"bitwise74/gallery-api/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error maps err onto its status code. Anything that isn't an expected
// domain failure is logged and hidden behind a generic message.
func Error(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		Fail(c, http.StatusRequestEntityTooLarge, "Request body size exceeds limit")
		return
	}

	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("Request failed",
			zap.Error(err),
			zap.String("requestID", requestID),
			zap.String("path", c.FullPath()),
		)
	}

	Fail(c, status, apperr.Message(err))
}

// Fail writes a message with an explicit status
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"message":   msg,
		"requestID": c.GetString("requestID"),
	})
}

// BadBody is used when a request body can't be decoded
func BadBody(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		Fail(c, http.StatusRequestEntityTooLarge, "Request body size exceeds limit")
		return
	}

	zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
	Fail(c, http.StatusBadRequest, "Invalid request body")
}
