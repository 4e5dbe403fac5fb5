package handlers

import (
	"net/http"

	"blogfront/loader"
	"blogfront/middleware"
	"blogfront/models"
	"blogfront/pages"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FeedJSON returns the mounted feed in the API's envelope shape.
func (h *Handler) FeedJSON(c *gin.Context) {
	feed := pages.NewFeed(h.deps(c))
	feed.Mount(c.Request.Context())
	h.saveSession(c)

	posts := feed.Posts
	if posts == nil {
		posts = []models.Post{}
	}

	status := http.StatusOK
	if feed.Error != "" {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{
		"success": feed.Error == "",
		"message": feed.Error,
		"post":    posts,
		"user":    feed.Profile,
	})
}

// ProfileJSON returns the session user, or a null user without a session.
func (h *Handler) ProfileJSON(c *gin.Context) {
	deps := h.deps(c)
	user, err := loader.LoadProfile(c.Request.Context(), deps.Session, deps.Backend)
	h.saveSession(c)
	if err != nil {
		h.logger.Error("error fetching profile", zap.Error(err))
		if h.metrics != nil {
			h.metrics.LoadFailed("profile")
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": pages.MsgProfileFailed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user, "loggedIn": middleware.CurrentSession(c).LoggedIn()})
}
