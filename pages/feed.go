package pages

import (
	"context"
	"strings"

	"blogfront/api"
	"blogfront/loader"
	"blogfront/models"
	"blogfront/state"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Feed is the view state behind the home page and the admin dashboard.
type Feed struct {
	deps   Deps
	loader *loader.PostLoader

	// Set by Mount. Mutations refuse to run on a list that failed to load,
	// and a successful mutation only clears errors it caused itself.
	postsFailed bool
	mountError  string

	Posts   []models.Post
	Profile *models.User
	Error   string
	Edit    state.EditBuffer
}

func NewFeed(deps Deps) *Feed {
	opts := []loader.Option{loader.WithLogger(deps.logger())}
	if deps.LookupConcurrency != 0 {
		opts = append(opts, loader.WithConcurrency(deps.LookupConcurrency))
	}
	return &Feed{deps: deps, loader: loader.NewPostLoader(deps.Backend, opts...)}
}

// Mount runs the post and profile loaders in parallel. A failure of one
// does not affect the other.
func (f *Feed) Mount(ctx context.Context) {
	var (
		g       errgroup.Group
		posts   []models.Post
		profile *models.User
		postErr error
		profErr error
	)

	g.Go(func() error {
		posts, postErr = f.loader.Load(ctx)
		return nil
	})
	g.Go(func() error {
		profile, profErr = loader.LoadProfile(ctx, f.deps.Session, f.deps.Backend)
		return nil
	})
	_ = g.Wait()

	if postErr != nil {
		f.deps.logger().Error("error fetching posts", zap.Error(postErr))
		f.deps.loadFailed("posts")
		f.postsFailed = true
		f.Error = MsgPostsFailed
	} else {
		f.Posts = posts
	}

	if profErr != nil {
		f.deps.logger().Error("error fetching profile", zap.Error(profErr))
		f.deps.loadFailed("profile")
		if f.Error == "" {
			f.Error = MsgProfileFailed
		}
	} else {
		f.Profile = profile
	}
	f.mountError = f.Error
}

func (f *Feed) Post(id string) (models.Post, bool) {
	for _, p := range f.Posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

// SubmitComment posts text on postID as the session user and appends the
// created comment, author name resolved, to that post.
func (f *Feed) SubmitComment(ctx context.Context, postID, text string) bool {
	if f.postsFailed {
		return false
	}
	userID := f.deps.Session.UserID()
	if userID == "" {
		f.Error = MsgLoginRequired
		return false
	}
	if strings.TrimSpace(text) == "" {
		f.Error = MsgCommentEmpty
		return false
	}

	created, err := f.deps.Backend.CreateComment(ctx, api.CommentRequest{PostID: postID, UserID: userID, Comment: text})
	if err != nil {
		f.deps.logger().Error("error posting comment", zap.String("postId", postID), zap.Error(err))
		f.Error = failure(err, MsgCommentFailed)
		return false
	}

	comment, err := loader.ResolveAuthor(ctx, f.deps.Backend, *created)
	if err != nil {
		f.deps.logger().Error("error resolving comment author", zap.String("commentId", created.ID), zap.Error(err))
		f.Error = MsgCommentFailed
		return false
	}

	f.Posts = state.AppendComment(f.Posts, postID, comment)
	f.Error = f.mountError
	return true
}

// StartEdit opens the edit buffer on postID, discarding any unsaved edit of
// another post.
func (f *Feed) StartEdit(postID string) bool {
	p, ok := f.Post(postID)
	if !ok {
		return false
	}
	f.Edit.Start(p)
	return true
}

func (f *Feed) SetEdit(title, description string) {
	f.Edit.Set(title, description)
}

func (f *Feed) CancelEdit() {
	f.Edit.Cancel()
}

func (f *Feed) SaveEdit(ctx context.Context) bool {
	if f.postsFailed {
		return false
	}
	if !f.Edit.Active() {
		f.Error = MsgEditNone
		return false
	}

	edit := f.Edit
	err := f.deps.Backend.UpdatePost(ctx, edit.PostID, api.UpdatePostRequest{Title: edit.Title, Description: edit.Description})
	if err != nil {
		f.deps.logger().Error("error editing post", zap.String("postId", edit.PostID), zap.Error(err))
		f.Error = failure(err, MsgEditFailed)
		return false
	}

	f.Posts = state.PatchPost(f.Posts, edit.PostID, edit.Title, edit.Description)
	f.Edit.Cancel()
	f.Error = f.mountError
	return true
}

func (f *Feed) DeletePost(ctx context.Context, postID string) bool {
	if f.postsFailed {
		return false
	}
	if err := f.deps.Backend.DeletePost(ctx, postID); err != nil {
		f.deps.logger().Error("error deleting post", zap.String("postId", postID), zap.Error(err))
		f.Error = failure(err, MsgDeletePost)
		return false
	}

	f.Posts = state.RemovePost(f.Posts, postID)
	if f.Edit.Editing(postID) {
		f.Edit.Cancel()
	}
	return true
}

// Logout ends the upstream session. The local session is cleared when the
// request succeeds, or regardless when ClearSessionOnLogoutFailure is set.
func (f *Feed) Logout(ctx context.Context) (Route, bool) {
	err := f.deps.Backend.Logout(ctx)
	if err != nil {
		f.deps.logger().Error("error logging out", zap.Error(err))
		if !f.deps.ClearSessionOnLogoutFailure {
			f.Error = MsgLogoutFailed
			return "", false
		}
	}

	if clearErr := f.deps.Session.Clear(); clearErr != nil {
		f.deps.logger().Error("error clearing session", zap.Error(clearErr))
		f.Error = MsgLogoutFailed
		return "", false
	}
	f.Profile = nil
	return RouteLogin, true
}
