// Package pages holds per-page view state and the handlers that mutate it.
// A page is mounted once, then user actions patch its state in place; the
// authoritative list is never refetched after a mutation.
package pages

import (
	"context"

	"blogfront/api"
	"blogfront/loader"
	"blogfront/models"
	"blogfront/session"

	"go.uber.org/zap"
)

// Route is a navigation destination returned by handlers that move on.
type Route string

const (
	RouteLanding   Route = "/"
	RouteLogin     Route = "/login"
	RouteRegister  Route = "/register"
	RouteHome      Route = "/home-page"
	RouteDashboard Route = "/dashboard"
	RouteAddPost   Route = "/add-post"
	RouteAllUsers  Route = "/all-users"
)

// User-facing messages.
const (
	MsgLoginRequired   = "You need to be logged in to comment."
	MsgCommentEmpty    = "Comment cannot be empty."
	MsgCommentFailed   = "Error posting comment. Please try again."
	MsgPostsFailed     = "Error fetching posts."
	MsgProfileFailed   = "Error fetching profile."
	MsgEditNone        = "No post is being edited."
	MsgEditFailed      = "Error saving post changes. Please try again."
	MsgDeletePost      = "Error deleting post. Please try again."
	MsgLogoutFailed    = "Error logging out. Please try again."
	MsgUsersFailed     = "Error fetching users."
	MsgDeleteUser      = "Error deleting user."
	MsgFieldsRequired  = "All fields are required."
	MsgAddPostFailed   = "Failed to add post. Please try again."
	MsgLoginFailed     = "Login failed. Please check your credentials."
	MsgLoginOK         = "Login successful!"
	MsgRegisterFailed  = "Registration failed. Please try again."
	MsgRegisterOK      = "Registration successful! You can now log in."
	MsgCredentialsNeed = "Email and password are required."
)

// Backend is the slice of the API client the pages use.
type Backend interface {
	loader.PostSource
	CreatePost(ctx context.Context, req api.CreatePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, req api.UpdatePostRequest) error
	DeletePost(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error
	Login(ctx context.Context, req api.LoginRequest) (*models.User, error)
	Register(ctx context.Context, req api.RegisterRequest) error
	Logout(ctx context.Context) error
	CreateComment(ctx context.Context, req api.CommentRequest) (*models.Comment, error)
}

var _ Backend = (*api.Client)(nil)

// Deps is what every page is built from.
type Deps struct {
	Backend Backend
	Session *session.Session
	Logger  *zap.Logger

	// LookupConcurrency bounds the post loader's fan-out; zero keeps the
	// loader default and a negative value removes the bound.
	LookupConcurrency int
	// ClearSessionOnLogoutFailure clears the local session even when the
	// logout request fails.
	ClearSessionOnLogoutFailure bool
	// OnLoadFailure, when set, is told which loader failed.
	OnLoadFailure func(loader string)
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d Deps) loadFailed(name string) {
	if d.OnLoadFailure != nil {
		d.OnLoadFailure(name)
	}
}

// failure picks the message shown for a failed request: the server's own
// message when it refused the operation, fallback otherwise.
func failure(err error, fallback string) string {
	if api.IsRejected(err) {
		if msg := api.Message(err); msg != "" {
			return msg
		}
	}
	return fallback
}

// serverMessage prefers any message the server sent, as the auth forms do.
func serverMessage(err error, fallback string) string {
	if msg := api.Message(err); msg != "" {
		return msg
	}
	return fallback
}
