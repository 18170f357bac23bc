// Package media contains the endpoints managing gallery items
package media

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bitwise74/gallery-api/app/reply"
	"bitwise74/gallery-api/internal"
	"bitwise74/gallery-api/internal/model"
	"bitwise74/gallery-api/internal/service"
	"bitwise74/gallery-api/pkg/middleware"
	"bitwise74/gallery-api/pkg/validators"

	"github.com/gin-gonic/gin"
)

// Upload takes a multipart form with the image in the "image" field
func Upload(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			reply.Fail(c, http.StatusBadRequest, validators.ErrNoFile.Error())
			return
		}

		reply.BadBody(c, err)
		return
	}

	code, f, mime, err := validators.ImageValidator(fh, d.Upload)
	if err != nil {
		if code == http.StatusInternalServerError {
			reply.Error(c, err)
			return
		}

		reply.Fail(c, code, err.Error())
		return
	}
	defer f.Close()

	m, err := d.Media.Upload(c.Request.Context(), actor, service.UploadInput{
		Body:        f,
		Filename:    fh.Filename,
		ContentType: mime,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Tags:        model.ParseTags(c.PostForm("tags")),
		IsShared:    parseBool(c.PostForm("isShared")),
	})
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

// parseBool is lenient, anything it doesn't understand is false
func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
