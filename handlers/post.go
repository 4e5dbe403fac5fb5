package handlers

import (
	"blogfront/pages"
	"blogfront/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) renderFeed(c *gin.Context, feed *pages.Feed, route pages.Route) {
	page := views.Page{
		Title:  "Home",
		Error:  feed.Error,
		Page:   route,
		Feed:   feed,
		EditID: feed.Edit.PostID,
	}
	if route == pages.RouteDashboard {
		page.Title = "Dashboard"
		page.Admin = true
	}
	h.render(c, views.Feed, page)
}

func (h *Handler) Home(c *gin.Context) {
	feed := pages.NewFeed(h.deps(c))
	feed.Mount(c.Request.Context())
	h.renderFeed(c, feed, pages.RouteHome)
}

// Dashboard is the admin feed. ?edit=<id> opens the edit form on that post.
func (h *Handler) Dashboard(c *gin.Context) {
	feed := pages.NewFeed(h.deps(c))
	feed.Mount(c.Request.Context())
	if id := c.Query("edit"); id != "" {
		feed.StartEdit(id)
	}
	h.renderFeed(c, feed, pages.RouteDashboard)
}

// Comment posts a comment and goes back to the feed it was written from.
// A failed comment renders that feed with the error instead.
func (h *Handler) Comment(c *gin.Context) {
	route := pages.RouteHome
	if pages.Route(c.PostForm("page")) == pages.RouteDashboard {
		route = pages.RouteDashboard
	}

	feed := pages.NewFeed(h.deps(c))
	feed.Mount(c.Request.Context())
	if feed.SubmitComment(c.Request.Context(), c.Param("id"), c.PostForm("comment")) {
		h.redirect(c, route)
		return
	}
	h.renderFeed(c, feed, route)
}

func (h *Handler) SaveEdit(c *gin.Context) {
	feed := pages.NewFeed(h.deps(c))
	feed.Mount(c.Request.Context())
	if feed.StartEdit(c.Param("id")) {
		feed.SetEdit(c.PostForm("title"), c.PostForm("dsc"))
	}
	if feed.SaveEdit(c.Request.Context()) {
		h.redirect(c, pages.RouteDashboard)
		return
	}
	h.renderFeed(c, feed, pages.RouteDashboard)
}

func (h *Handler) DeletePost(c *gin.Context) {
	feed := pages.NewFeed(h.deps(c))
	feed.Mount(c.Request.Context())
	if feed.DeletePost(c.Request.Context(), c.Param("id")) {
		h.redirect(c, pages.RouteDashboard)
		return
	}
	h.renderFeed(c, feed, pages.RouteDashboard)
}

func (h *Handler) AddPostForm(c *gin.Context) {
	h.render(c, views.AddPost, views.Page{Title: "Add post"})
}

func (h *Handler) AddPost(c *gin.Context) {
	form := pages.NewAddPost(h.deps(c))
	form.Title = c.PostForm("title")
	form.Description = c.PostForm("dsc")

	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		h.logger.Error("error reading post image", zap.Error(err))
		h.render(c, views.AddPost, views.Page{Title: "Add post", Error: pages.MsgAddPostFailed, PostTitle: form.Title, Description: form.Description})
		return
	}
	defer closeImage()
	form.Image = image

	route, ok := form.Submit(c.Request.Context())
	if !ok {
		h.render(c, views.AddPost, views.Page{Title: "Add post", Error: form.Error, PostTitle: form.Title, Description: form.Description})
		return
	}
	h.redirect(c, route)
}
