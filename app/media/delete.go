package media

import (
	"net/http"

	"bitwise74/gallery-api/app/reply"
	"bitwise74/gallery-api/internal"
	"bitwise74/gallery-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func Delete(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	if err := d.Media.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Media removed",
	})
}
