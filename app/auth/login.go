package auth

import (
	"net/http"

	"bitwise74/gallery-api/app/reply"
	"bitwise74/gallery-api/internal"

	"github.com/gin-gonic/gin"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(c *gin.Context, d *internal.Deps) {
	var data loginBody
	if err := c.ShouldBindJSON(&data); err != nil {
		reply.BadBody(c, err)
		return
	}

	sess, err := d.Auth.Login(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		reply.Error(c, err)
		return
	}

	writeSession(c, d, http.StatusOK, sess)
}
