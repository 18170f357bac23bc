// Package contact contains the endpoints of the contact inbox
package contact

import (
	"net/http"

	"bitwise74/gallery-api/app/reply"
	"bitwise74/gallery-api/internal"
	"bitwise74/gallery-api/internal/policy"
	"bitwise74/gallery-api/internal/service"
	"bitwise74/gallery-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type submitBody struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submit works with and without a token
func Submit(c *gin.Context, d *internal.Deps) {
	var data submitBody
	if err := c.ShouldBindJSON(&data); err != nil {
		reply.BadBody(c, err)
		return
	}

	var actor *policy.Actor
	if a, ok := middleware.ActorFrom(c); ok {
		actor = &a
	}

	msg, err := d.Contacts.Submit(c.Request.Context(), actor, service.ContactInput{
		Name:    data.Name,
		Email:   data.Email,
		Message: data.Message,
	})
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

func Mine(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	msgs, err := d.Contacts.List(c.Request.Context(), policy.OwnScope(actor))
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, msgs)
}

type updateBody struct {
	Message string `json:"message"`
}

func Update(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	var data updateBody
	if err := c.ShouldBindJSON(&data); err != nil {
		reply.BadBody(c, err)
		return
	}

	msg, err := d.Contacts.Update(c.Request.Context(), actor, c.Param("id"), data.Message)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

func Delete(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	if err := d.Contacts.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Message removed",
	})
}
