package media

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bitwise74/gallery-api/app/reply"
	"bitwise74/gallery-api/internal"
	"bitwise74/gallery-api/internal/model"
	"bitwise74/gallery-api/internal/service"
	"bitwise74/gallery-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// tagList accepts both "a,b" and ["a","b"]
type tagList []string

func (t *tagList) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(b), []byte("[")) {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}

		*t = tagList(model.NormalizeTags(list))
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	*t = tagList(model.ParseTags(s))
	return nil
}

// looseBool accepts true, "true" and their false counterparts
type looseBool bool

func (l *looseBool) UnmarshalJSON(b []byte) error {
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*l = looseBool(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	v, err := strconv.ParseBool(s)
	if err != nil {
		return errors.New("isShared must be true or false")
	}

	*l = looseBool(v)
	return nil
}

type editBody struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Tags        *tagList   `json:"tags"`
	IsShared    *looseBool `json:"isShared"`
}

func Edit(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	var data editBody
	if err := c.ShouldBindJSON(&data); err != nil {
		reply.BadBody(c, err)
		return
	}

	patch := service.MediaPatch{
		Title:       data.Title,
		Description: data.Description,
	}

	if data.Tags != nil {
		tags := model.StringSlice(*data.Tags)
		patch.Tags = &tags
	}

	if data.IsShared != nil {
		shared := bool(*data.IsShared)
		patch.IsShared = &shared
	}

	m, err := d.Media.Update(c.Request.Context(), actor, c.Param("id"), patch)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}
