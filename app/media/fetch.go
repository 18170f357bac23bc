package media

import (
	"net/http"

	"bitwise74/gallery-api/app/reply"
	"bitwise74/gallery-api/internal"
	"bitwise74/gallery-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func Fetch(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	m, err := d.Media.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}
