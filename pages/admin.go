package pages

import (
	"context"
	"strings"

	"blogfront/api"
	"blogfront/models"
	"blogfront/state"

	"go.uber.org/zap"
)

// Users is the admin list of all users.
type Users struct {
	deps Deps

	Users []models.User
	Error string
}

func NewUsers(deps Deps) *Users {
	return &Users{deps: deps}
}

func (u *Users) Mount(ctx context.Context) {
	users, err := u.deps.Backend.ListUsers(ctx)
	if err != nil {
		u.deps.logger().Error("error fetching users", zap.Error(err))
		u.deps.loadFailed("users")
		u.Error = MsgUsersFailed
		return
	}
	u.Users = users
}

// DeleteUser removes the user upstream, then from the local list. An id the
// list does not hold is filtered as a no-op.
func (u *Users) DeleteUser(ctx context.Context, id string) bool {
	if err := u.deps.Backend.DeleteUser(ctx, id); err != nil {
		u.deps.logger().Error("error deleting user", zap.String("userId", id), zap.Error(err))
		u.Error = failure(err, MsgDeleteUser)
		return false
	}
	u.Users = state.RemoveUser(u.Users, id)
	return true
}

// AddPost is the create-post form.
type AddPost struct {
	deps Deps

	Title       string
	Description string
	Image       *api.Upload
	Error       string
}

func NewAddPost(deps Deps) *AddPost {
	return &AddPost{deps: deps}
}

func (p *AddPost) Submit(ctx context.Context) (Route, bool) {
	p.Error = ""
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Description) == "" || p.Image == nil {
		p.Error = MsgFieldsRequired
		return "", false
	}

	_, err := p.deps.Backend.CreatePost(ctx, api.CreatePostRequest{
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
	})
	if err != nil {
		p.deps.logger().Error("error adding post", zap.Error(err))
		p.Error = failure(err, MsgAddPostFailed)
		return "", false
	}
	return RouteDashboard, true
}
