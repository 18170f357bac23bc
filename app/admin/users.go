package admin

import (
	"net/http"

	"bitwise74/gallery-api/app/reply"
	"bitwise74/gallery-api/internal"
	"bitwise74/gallery-api/internal/service"
	"bitwise74/gallery-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func UserList(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	users, err := d.Users.List(c.Request.Context(), actor)
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func UserFetch(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	user, err := d.Users.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type userEditBody struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

func UserEdit(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	var data userEditBody
	if err := c.ShouldBindJSON(&data); err != nil {
		reply.BadBody(c, err)
		return
	}

	user, err := d.Users.Update(c.Request.Context(), actor, c.Param("id"), service.UserPatch{
		Name:     data.Name,
		Email:    data.Email,
		Role:     data.Role,
		IsActive: data.IsActive,
	})
	if err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UserDelete deactivates the account, nothing is removed
func UserDelete(c *gin.Context, d *internal.Deps) {
	actor, _ := middleware.ActorFrom(c)

	if err := d.Users.Deactivate(c.Request.Context(), actor, c.Param("id")); err != nil {
		reply.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deactivated",
	})
}
