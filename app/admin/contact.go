// Package admin contains the endpoints only admins may reach
package admin

import (
	"net/http"

	"bitwise74/gallery-api/app/reply"
	"bitwise74/gallery-api/internal"
	"bitwise74/gallery-api/internal/policy"
	"bitwise74/gallery-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func ContactList(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	msgs, err := d.Contacts.List(c.Request.Context(), policy.ContactScope(actor))
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, msgs)
}

func ContactDelete(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	if err := d.Contacts.AdminDelete(c.Request.Context(), actor, c.Param("id")); err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Message removed",
	})
}
