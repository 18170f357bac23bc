package media

import (
	"net/http"

	"bitwise74/gallery-api/app/reply"
	"bitwise74/gallery-api/internal"
	"bitwise74/gallery-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type downloadBody struct {
	MediaIDs []string `json:"mediaIds"`
}

// Download streams the visible subset of the requested media as one zip
func Download(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	var data downloadBody
	if err := c.ShouldBindJSON(&data); err != nil {
		reply.BadBody(c, err)
		return
	}

	items, err := d.Media.ResolveVisible(c.Request.Context(), actor, data.MediaIDs)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="media-gallery.zip"`)
	c.Status(http.StatusOK)

	// Headers are gone at this point, a failure can only cut the stream
	if err := d.Media.WriteArchive(c.Request.Context(), items, c.Writer); err != nil {
		zap.L().Error("Failed to stream archive",
			zap.Error(err),
			zap.String("requestID", c.GetString("requestID")),
		)
		c.Abort()
	}
}
