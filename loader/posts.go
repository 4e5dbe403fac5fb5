package loader

import (
	"context"
	"fmt"

	"blogfront/models"
	"blogfront/session"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 16

type UserGetter interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type PostSource interface {
	UserGetter
	ListPosts(ctx context.Context) ([]models.Post, error)
}

// PostLoader lists posts and resolves the author name of every comment.
type PostLoader struct {
	src         PostSource
	logger      *zap.Logger
	concurrency int
}

type Option func(*PostLoader)

// WithConcurrency bounds in-flight author lookups; n <= 0 removes the bound.
func WithConcurrency(n int) Option {
	return func(l *PostLoader) {
		l.concurrency = n
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *PostLoader) {
		l.logger = logger
	}
}

func NewPostLoader(src PostSource, opts ...Option) *PostLoader {
	l := &PostLoader{src: src, logger: zap.NewNop(), concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the posts in listing order with every comment's UserName set.
// Each distinct author id is looked up once, concurrently. The first failed
// lookup cancels the rest and Load returns no posts at all.
func (l *PostLoader) Load(ctx context.Context) ([]models.Post, error) {
	listed, err := l.src.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}

	var ids []string
	seen := map[string]bool{}
	for _, p := range listed {
		for _, c := range p.Comments {
			if !seen[c.UserID] {
				seen[c.UserID] = true
				ids = append(ids, c.UserID)
			}
		}
	}

	names, err := l.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	posts := make([]models.Post, len(listed))
	for i, p := range listed {
		comments := make([]models.Comment, len(p.Comments))
		for j, c := range p.Comments {
			c.UserName = names[c.UserID]
			comments[j] = c
		}
		p.Comments = comments
		posts[i] = p
	}

	l.logger.Debug("posts loaded", zap.Int("posts", len(posts)), zap.Int("authors", len(ids)))
	return posts, nil
}

func (l *PostLoader) resolve(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	resolved := make([]string, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	if l.concurrency > 0 {
		g.SetLimit(l.concurrency)
	}

	for i, id := range ids {
		g.Go(func() error {
			user, err := l.src.GetUser(gctx, id)
			if err != nil {
				return fmt.Errorf("error resolving author %s: %w", id, err)
			}
			resolved[i] = user.UserName
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(ids))
	for i, id := range ids {
		names[id] = resolved[i]
	}
	return names, nil
}

// ResolveAuthor fills in the author name of a single comment.
func ResolveAuthor(ctx context.Context, users UserGetter, c models.Comment) (models.Comment, error) {
	user, err := users.GetUser(ctx, c.UserID)
	if err != nil {
		return c, fmt.Errorf("error resolving author %s: %w", c.UserID, err)
	}
	c.UserName = user.UserName
	return c, nil
}

// LoadProfile fetches the session user. Without a session identifier it
// sends nothing and returns a nil profile.
func LoadProfile(ctx context.Context, sess *session.Session, users UserGetter) (*models.User, error) {
	id := sess.UserID()
	if id == "" {
		return nil, nil
	}
	user, err := users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching profile: %w", err)
	}
	return user, nil
}
