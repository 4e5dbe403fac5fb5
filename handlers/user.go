package handlers

import (
	"blogfront/pages"
	"blogfront/views"

	"github.com/gin-gonic/gin"
)

func (h *Handler) renderUsers(c *gin.Context, users *pages.Users) {
	h.render(c, views.Users, views.Page{Title: "All users", Error: users.Error, Users: users.Users})
}

func (h *Handler) AllUsers(c *gin.Context) {
	users := pages.NewUsers(h.deps(c))
	users.Mount(c.Request.Context())
	h.renderUsers(c, users)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	users := pages.NewUsers(h.deps(c))
	users.Mount(c.Request.Context())
	if users.DeleteUser(c.Request.Context(), c.Param("id")) {
		h.redirect(c, pages.RouteAllUsers)
		return
	}
	h.renderUsers(c, users)
}
