package handlers

import (
	"errors"
	"net/http"

	"blogfront/api"
	"blogfront/pages"
	"blogfront/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) LoginForm(c *gin.Context) {
	h.render(c, views.Login, views.Page{Title: "Login"})
}

func (h *Handler) Login(c *gin.Context) {
	login := pages.NewLogin(h.deps(c))
	login.Email = c.PostForm("email")
	login.Password = c.PostForm("password")

	route, ok := login.Submit(c.Request.Context())
	if !ok {
		h.render(c, views.Login, views.Page{Title: "Login", Error: login.Error, Email: login.Email})
		return
	}
	h.redirect(c, route)
}

func (h *Handler) RegisterForm(c *gin.Context) {
	h.render(c, views.Register, views.Page{Title: "Register"})
}

func (h *Handler) Register(c *gin.Context) {
	register := pages.NewRegister(h.deps(c))
	register.UserName = c.PostForm("userName")
	register.Email = c.PostForm("email")
	register.Password = c.PostForm("password")

	photo, closePhoto, err := formUpload(c, "profile")
	if err != nil {
		h.logger.Error("error reading profile photo", zap.Error(err))
		h.render(c, views.Register, views.Page{Title: "Register", Error: pages.MsgRegisterFailed, UserName: register.UserName, Email: register.Email})
		return
	}
	defer closePhoto()
	register.Photo = photo

	if !register.Submit(c.Request.Context()) {
		h.render(c, views.Register, views.Page{Title: "Register", Error: register.Error, UserName: register.UserName, Email: register.Email})
		return
	}
	h.render(c, views.Login, views.Page{Title: "Login", Success: register.Success, Email: register.Email})
}

// Logout ends the session and sends the visitor to the login page. When the
// API refuses, the feed is shown again with the error.
func (h *Handler) Logout(c *gin.Context) {
	feed := pages.NewFeed(h.deps(c))
	if route, ok := feed.Logout(c.Request.Context()); ok {
		h.redirect(c, route)
		return
	}

	feed.Mount(c.Request.Context())
	h.renderFeed(c, feed, pages.RouteHome)
}

// formUpload opens an optional file field. A missing file yields a nil
// upload and a no-op close.
func formUpload(c *gin.Context, field string) (*api.Upload, func(), error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return &api.Upload{Filename: header.Filename, Content: file}, func() { _ = file.Close() }, nil
}
