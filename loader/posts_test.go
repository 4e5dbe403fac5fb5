package loader

import (
	"context"
	"errors"
	"sync"
	"testing"

	"blogfront/models"
	"blogfront/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errLookup = errors.New("lookup failed")

type fakeSource struct {
	mu       sync.Mutex
	posts    []models.Post
	listErr  error
	names    map[string]string
	failing  map[string]bool
	block    map[string]bool // lookups that wait for ctx cancellation
	lists    int
	lookups  []string
	inFlight int
	peak     int
}

func (f *fakeSource) ListPosts(ctx context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.posts, nil
}

func (f *fakeSource) GetUser(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	f.lookups = append(f.lookups, id)
	f.inFlight++
	if f.inFlight > f.peak {
		f.peak = f.inFlight
	}
	fail, block := f.failing[id], f.block[id]
	name := f.names[id]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if fail {
		return nil, errLookup
	}
	return &models.User{ID: id, UserName: name}, nil
}

func (f *fakeSource) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists + len(f.lookups)
}

func TestLoadTwoPostScenario(t *testing.T) {
	src := &fakeSource{
		posts: []models.Post{
			{ID: "p1", Comments: []models.Comment{{ID: "c1", PostID: "p1", UserID: "u1", Text: "hey"}}},
			{ID: "p2", Comments: []models.Comment{}},
		},
		names: map[string]string{"u1": "alice"},
	}

	posts, err := NewPostLoader(src).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, posts, 2)
	require.Len(t, posts[0].Comments, 1)
	assert.Equal(t, "alice", posts[0].Comments[0].UserName)
	assert.Empty(t, posts[1].Comments)
	assert.Equal(t, 2, src.calls(), "one list plus one author lookup")
}

func TestLoadSkipsLookupsForPostsWithoutComments(t *testing.T) {
	src := &fakeSource{posts: []models.Post{{ID: "p1"}, {ID: "p2"}}}

	posts, err := NewPostLoader(src).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, posts, 2)
	assert.Empty(t, src.lookups)
}

func TestLoadKeepsListingOrder(t *testing.T) {
	src := &fakeSource{
		posts: []models.Post{
			{ID: "p3", Comments: []models.Comment{{UserID: "u2"}, {UserID: "u1"}}},
			{ID: "p1", Comments: []models.Comment{{UserID: "u1"}}},
			{ID: "p2"},
		},
		names: map[string]string{"u1": "alice", "u2": "bob"},
	}

	posts, err := NewPostLoader(src).Load(context.Background())
	require.NoError(t, err)

	var ids []string
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p3", "p1", "p2"}, ids)
	assert.Equal(t, "bob", posts[0].Comments[0].UserName)
	assert.Equal(t, "alice", posts[0].Comments[1].UserName)
	assert.Equal(t, "alice", posts[1].Comments[0].UserName)
}

func TestLoadLooksUpEachAuthorOnce(t *testing.T) {
	src := &fakeSource{
		posts: []models.Post{
			{ID: "p1", Comments: []models.Comment{{UserID: "u1"}, {UserID: "u1"}}},
			{ID: "p2", Comments: []models.Comment{{UserID: "u1"}}},
		},
		names: map[string]string{"u1": "alice"},
	}

	_, err := NewPostLoader(src).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, src.lookups)
}

func TestLoadFailsFastOnAnyLookupError(t *testing.T) {
	src := &fakeSource{
		posts: []models.Post{
			{ID: "p1", Comments: []models.Comment{{UserID: "u1"}}},
			{ID: "p2", Comments: []models.Comment{{UserID: "bad"}, {UserID: "slow"}}},
		},
		names:   map[string]string{"u1": "alice"},
		failing: map[string]bool{"bad": true},
		block:   map[string]bool{"slow": true},
	}

	posts, err := NewPostLoader(src).Load(context.Background())

	assert.ErrorIs(t, err, errLookup)
	assert.Nil(t, posts, "a single failed lookup means no posts")
}

func TestLoadListError(t *testing.T) {
	src := &fakeSource{listErr: errors.New("down")}

	posts, err := NewPostLoader(src).Load(context.Background())
	assert.Error(t, err)
	assert.Nil(t, posts)
	assert.Empty(t, src.lookups)
}

func TestLoadHonorsCallerCancellation(t *testing.T) {
	src := &fakeSource{
		posts: []models.Post{{ID: "p1", Comments: []models.Comment{{UserID: "slow"}}}},
		block: map[string]bool{"slow": true},
	}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := NewPostLoader(src).Load(ctx)
		done <- err
	}()
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestLoadBoundsConcurrency(t *testing.T) {
	var comments []models.Comment
	names := map[string]string{}
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		comments = append(comments, models.Comment{UserID: id})
		names[id] = id
	}
	src := &fakeSource{posts: []models.Post{{ID: "p1", Comments: comments}}, names: names}

	_, err := NewPostLoader(src, WithConcurrency(2)).Load(context.Background())
	require.NoError(t, err)

	assert.LessOrEqual(t, src.peak, 2)
	assert.Len(t, src.lookups, 6)
}

func TestLoadDoesNotAliasListedComments(t *testing.T) {
	listed := []models.Post{{ID: "p1", Comments: []models.Comment{{UserID: "u1"}}}}
	src := &fakeSource{posts: listed, names: map[string]string{"u1": "alice"}}

	_, err := NewPostLoader(src).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed[0].Comments[0].UserName)
}

func TestResolveAuthor(t *testing.T) {
	src := &fakeSource{names: map[string]string{"u1": "alice"}, failing: map[string]bool{"u2": true}}

	c, err := ResolveAuthor(context.Background(), src, models.Comment{ID: "c1", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", c.UserName)

	_, err = ResolveAuthor(context.Background(), src, models.Comment{ID: "c2", UserID: "u2"})
	assert.ErrorIs(t, err, errLookup)
}

func TestLoadProfileWithoutSessionSendsNothing(t *testing.T) {
	src := &fakeSource{}
	sess, err := session.New(session.NewMemoryStore(""))
	require.NoError(t, err)

	profile, err := LoadProfile(context.Background(), sess, src)
	require.NoError(t, err)

	assert.Nil(t, profile)
	assert.Zero(t, src.calls())
}

func TestLoadProfile(t *testing.T) {
	src := &fakeSource{names: map[string]string{"u1": "alice"}}
	sess, err := session.New(session.NewMemoryStore("u1"))
	require.NoError(t, err)

	profile, err := LoadProfile(context.Background(), sess, src)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.UserName)
	assert.Equal(t, []string{"u1"}, src.lookups)
}
