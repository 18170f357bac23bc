package auth

import (
	"net/http"

	"bitwise74/gallery-api/app/reply"
	"bitwise74/gallery-api/internal"

	"github.com/gin-gonic/gin"
)

func Me(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	user, err := d.Auth.Me(c.Request.Context(), userID)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
