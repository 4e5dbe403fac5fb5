package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"blogfront/models"
)

// Routes of the blog API, in gin path syntax.
const (
	RouteListPosts     = "/api/v1/posts/get-post"
	RouteCreatePost    = "/api/v1/posts/create-post"
	RouteUpdatePost    = "/api/v1/posts/update-post/:id"
	RouteDeletePost    = "/api/v1/posts/delete-post/:id"
	RouteGetUser       = "/api/v1/users/user/:id"
	RouteListUsers     = "/api/v1/users/get-all-users"
	RouteDeleteUser    = "/api/v1/users/delete-user/:id"
	RouteLogin         = "/api/v1/users/login"
	RouteRegister      = "/api/v1/users/register"
	RouteLogout        = "/api/v1/users/logout"
	RouteCreateComment = "/api/v1/comment/comment"
)

// withID fills the :id segment of a route.
func withID(route, id string) string {
	return route[:len(route)-len(":id")] + url.PathEscape(id)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	UserName string
	Email    string
	Password string
	Photo    *Upload // optional
}

type CreatePostRequest struct {
	Title       string
	Description string
	Image       *Upload
}

type UpdatePostRequest struct {
	Title       string `json:"Title"`
	Description string `json:"dsc"`
}

type CommentRequest struct {
	PostID  string `json:"postId"`
	UserID  string `json:"userId"`
	Comment string `json:"comment"`
}

func missing(method, path, what string) error {
	return &Error{Kind: KindDecode, Method: method, Path: path, Err: errors.New("response has no " + what)}
}

func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var resp models.PostsResponse
	if err := c.Get(ctx, RouteListPosts, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

func (c *Client) CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	form := NewForm().
		Field("Title", req.Title).
		Field("dsc", req.Description).
		File("image", req.Image)

	var resp models.PostResponse
	if err := c.PostMultipart(ctx, RouteCreatePost, form, &resp); err != nil {
		return nil, err
	}
	return resp.Post, nil
}

func (c *Client) UpdatePost(ctx context.Context, id string, req UpdatePostRequest) error {
	return c.Patch(ctx, withID(RouteUpdatePost, id), req, nil)
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.Delete(ctx, withID(RouteDeletePost, id), nil)
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	path := withID(RouteGetUser, id)
	var resp models.UserResponse
	if err := c.Get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, missing(http.MethodGet, path, "user")
	}
	return resp.User, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var resp models.UsersResponse
	if err := c.Get(ctx, RouteListUsers, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.Delete(ctx, withID(RouteDeleteUser, id), nil)
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	var resp models.UserResponse
	if err := c.Post(ctx, RouteLogin, req, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, missing(http.MethodPost, RouteLogin, "user")
	}
	return resp.User, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	form := NewForm().
		Field("userName", req.UserName).
		Field("email", req.Email).
		Field("password", req.Password).
		File("profile", req.Photo)

	return c.PostMultipart(ctx, RouteRegister, form, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.Post(ctx, RouteLogout, nil, nil)
}

func (c *Client) CreateComment(ctx context.Context, req CommentRequest) (*models.Comment, error) {
	var resp models.CommentResponse
	if err := c.Post(ctx, RouteCreateComment, req, &resp); err != nil {
		return nil, err
	}
	if resp.Comment == nil {
		return nil, missing(http.MethodPost, RouteCreateComment, "comment")
	}
	return resp.Comment, nil
}
