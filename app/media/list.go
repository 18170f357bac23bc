package media

import (
	"net/http"
	"strconv"

	"bitwise74/gallery-api/app/reply"
	"bitwise74/gallery-api/internal"
	"bitwise74/gallery-api/internal/model"
	"bitwise74/gallery-api/internal/service"
	"bitwise74/gallery-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

const maxLimit = 250

// List supports ?search=, ?tags=a,b and optional ?page= & ?limit=
func List(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	filter := service.MediaFilter{
		Search: c.Query("search"),
		Tags:   model.ParseTags(c.Query("tags")),
	}

	if s := c.Query("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page < 1 {
			reply.Fail(c, http.StatusBadRequest, "Page must be a positive number")
			return
		}

		filter.Page = page
	}

	if s := c.Query("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit <= 0 {
			reply.Fail(c, http.StatusBadRequest, "Limit must be greater than 0")
			return
		}

		if limit > maxLimit {
			reply.Fail(c, http.StatusBadRequest, "Limit can't be greater than 250")
			return
		}

		filter.Limit = limit
	}

	items, err := d.Media.List(c.Request.Context(), actor, filter)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}
