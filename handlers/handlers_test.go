package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"blogfront/api"
	"blogfront/apitest"
	"blogfront/config"
	"blogfront/metrics"
	"blogfront/models"
	"blogfront/pages"
	"blogfront/routes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// browser keeps the front's session cookie between requests and never
// follows redirects.
type browser struct {
	t    *testing.T
	base string
	http *http.Client
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.http.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postMultipart(path string, fields map[string]string, fileField, filename, content string) (*http.Response, string) {
	b.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(b.t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		require.NoError(b.t, err)
		_, err = io.WriteString(part, content)
		require.NoError(b.t, err)
	}
	require.NoError(b.t, w.Close())

	req, err := http.NewRequest(http.MethodPost, b.base+path, &buf)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return b.do(req)
}

func (b *browser) login(email string) {
	b.t.Helper()
	resp, _ := b.post("/login", url.Values{"email": {email}, "password": {"pw"}})
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
}

type front struct {
	srv     *apitest.Server
	cfg     *config.Config
	metrics *metrics.Metrics
}

func newFront(t *testing.T, configure func(*config.Config)) (*front, *browser) {
	t.Helper()
	srv := apitest.New(t)
	srv.RequireAuth = true
	srv.AddUser(models.User{ID: "u1", UserName: "alice", Email: "alice@example.com", Role: models.RoleAdmin}, "pw")
	srv.AddUser(models.User{ID: "u2", UserName: "bob", Email: "bob@example.com", Role: "User"}, "pw")
	srv.AddPost(models.Post{ID: "p1", Title: "First", Description: "one", Image: "first.png",
		Comments: []models.Comment{{ID: "c1", PostID: "p1", UserID: "u1", Text: "welcome"}}})
	srv.AddPost(models.Post{ID: "p2", Title: "Second", Description: "two"})

	cfg := config.Default()
	cfg.APIBaseURL = srv.URL
	cfg.AssetBaseURL = srv.URL + "/images"
	cfg.SessionSecret = "test-secret"
	if configure != nil {
		configure(cfg)
	}

	m := metrics.New()
	client, err := api.New(srv.URL, api.WithTransport(m.Transport(nil)))
	require.NoError(t, err)

	router, err := routes.SetupRouter(cfg, client, m, zap.NewNop())
	require.NoError(t, err)
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	hc := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &front{srv: srv, cfg: cfg, metrics: m}, &browser{t: t, base: ts.URL, http: hc}
}

func TestAdminLoginLandsOnDashboard(t *testing.T) {
	_, b := newFront(t, nil)

	resp, _ := b.post("/login", url.Values{"email": {"alice@example.com"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, string(pages.RouteDashboard), resp.Header.Get("Location"))

	resp, body := b.get("/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<h2>alice</h2>")
	assert.Contains(t, body, "<strong>alice</strong>: welcome")
	assert.Contains(t, body, `action="/dashboard/posts/p1/delete"`)
}

func TestUserLoginLandsOnHome(t *testing.T) {
	_, b := newFront(t, nil)

	resp, _ := b.post("/login", url.Values{"email": {"bob@example.com"}, "password": {"pw"}})
	assert.Equal(t, string(pages.RouteHome), resp.Header.Get("Location"))
}

func TestLoginShowsServerMessage(t *testing.T) {
	_, b := newFront(t, nil)

	resp, body := b.post("/login", url.Values{"email": {"bob@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Invalid email or password")
	assert.Contains(t, body, `value="bob@example.com"`)
}

func TestCommentForwardsCredentials(t *testing.T) {
	f, b := newFront(t, nil)
	b.login("bob@example.com")

	resp, _ := b.post("/posts/p2/comments", url.Values{"comment": {"hi there"}, "page": {"/home-page"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/home-page", resp.Header.Get("Location"))

	_, body := b.get("/home-page")
	assert.Contains(t, body, "<strong>bob</strong>: hi there")

	posts := f.srv.Posts()
	require.Len(t, posts[1].Comments, 1)
	assert.Equal(t, "u2", posts[1].Comments[0].UserID)
}

func TestCommentFromDashboardReturnsThere(t *testing.T) {
	_, b := newFront(t, nil)
	b.login("alice@example.com")

	resp, _ := b.post("/posts/p2/comments", url.Values{"comment": {"hi"}, "page": {"/dashboard"}})
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestCommentAfterFailedLoadKeepsError(t *testing.T) {
	f, b := newFront(t, nil)
	b.login("bob@example.com")
	f.srv.FailUser("u1")

	resp, body := b.post("/posts/p2/comments", url.Values{"comment": {"hi"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, pages.MsgPostsFailed)
	assert.Zero(t, f.srv.Calls(http.MethodPost, api.RouteCreateComment))
}

func TestCommentWithoutSession(t *testing.T) {
	f, b := newFront(t, nil)

	_, body := b.post("/posts/p2/comments", url.Values{"comment": {"hi"}})
	assert.Contains(t, body, pages.MsgLoginRequired)
	assert.Zero(t, f.srv.Calls(http.MethodPost, api.RouteCreateComment))
}

func TestAdminPagesRequireSession(t *testing.T) {
	_, b := newFront(t, nil)

	for _, path := range []string{"/dashboard", "/add-post", "/all-users"} {
		resp, _ := b.get(path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestEditPost(t *testing.T) {
	f, b := newFront(t, nil)
	b.login("alice@example.com")

	_, body := b.get("/dashboard?edit=p1")
	assert.Contains(t, body, `action="/dashboard/posts/p1/edit"`)

	resp, _ := b.post("/dashboard/posts/p1/edit", url.Values{"title": {"First, revised"}, "dsc": {"uno"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	_, body = b.get("/dashboard")
	assert.Contains(t, body, "<h3>First, revised</h3>")
	assert.NotContains(t, body, `action="/dashboard/posts/p1/edit"`)

	assert.Equal(t, "First, revised", f.srv.Posts()[0].Title)
	assert.Equal(t, "uno", f.srv.Posts()[0].Description)
}

func TestDeletePost(t *testing.T) {
	f, b := newFront(t, nil)
	b.login("alice@example.com")

	resp, _ := b.post("/dashboard/posts/p1/delete", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := b.get("/dashboard")
	assert.NotContains(t, body, `id="post-p1"`)
	assert.Contains(t, body, `id="post-p2"`)
	require.Len(t, f.srv.Posts(), 1)
	assert.Equal(t, "p2", f.srv.Posts()[0].ID)
}

func TestAddPost(t *testing.T) {
	f, b := newFront(t, nil)
	b.login("alice@example.com")

	resp, _ := b.postMultipart("/add-post", map[string]string{"title": "Third", "dsc": "three"}, "image", "third.png", "png-bytes")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	data, ok := f.srv.Upload("third.png")
	require.True(t, ok)
	assert.Equal(t, "png-bytes", string(data))
	assert.Len(t, f.srv.Posts(), 3)
}

func TestAddPostRequiresImage(t *testing.T) {
	f, b := newFront(t, nil)
	b.login("alice@example.com")

	resp, body := b.postMultipart("/add-post", map[string]string{"title": "Third", "dsc": "three"}, "", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, pages.MsgFieldsRequired)
	assert.Zero(t, f.srv.Calls(http.MethodPost, api.RouteCreatePost))
}

func TestRegister(t *testing.T) {
	f, b := newFront(t, nil)

	_, body := b.postMultipart("/register",
		map[string]string{"userName": "carol", "email": "carol@example.com", "password": "pw"},
		"profile", "carol.png", "avatar")
	assert.Contains(t, body, pages.MsgRegisterOK)

	_, ok := f.srv.Upload("carol.png")
	assert.True(t, ok)
	assert.Len(t, f.srv.Users(), 3)
}

func TestRegisterDuplicate(t *testing.T) {
	_, b := newFront(t, nil)

	_, body := b.postMultipart("/register",
		map[string]string{"userName": "bob", "email": "bob@example.com", "password": "pw"}, "", "", "")
	assert.Contains(t, body, "User already exists")
}

func TestDeleteUser(t *testing.T) {
	f, b := newFront(t, nil)
	b.login("alice@example.com")

	_, body := b.get("/all-users")
	assert.Contains(t, body, `id="user-u2"`)

	resp, _ := b.post("/all-users/u2/delete", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/all-users", resp.Header.Get("Location"))

	_, body = b.get("/all-users")
	assert.NotContains(t, body, `id="user-u2"`)
	assert.Len(t, f.srv.Users(), 1)
}

func TestLogout(t *testing.T) {
	_, b := newFront(t, nil)
	b.login("bob@example.com")

	resp, _ := b.post("/logout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = b.get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestLogoutFailureKeepsSession(t *testing.T) {
	f, b := newFront(t, nil)
	b.login("bob@example.com")
	f.srv.Fail(http.MethodPost, api.RouteLogout, http.StatusInternalServerError)

	_, body := b.post("/logout", nil)
	assert.Contains(t, body, pages.MsgLogoutFailed)

	resp, _ := b.get("/dashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogoutFailureClearsSessionWhenConfigured(t *testing.T) {
	f, b := newFront(t, func(cfg *config.Config) { cfg.ClearSessionOnLogoutFailure = true })
	b.login("bob@example.com")
	f.srv.Fail(http.MethodPost, api.RouteLogout, http.StatusInternalServerError)

	resp, _ := b.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = b.get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestFeedJSON(t *testing.T) {
	_, b := newFront(t, nil)

	resp, body := b.get("/api/feed")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Success bool          `json:"success"`
		Posts   []models.Post `json:"post"`
		User    *models.User  `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.True(t, out.Success)
	require.Len(t, out.Posts, 2)
	assert.Equal(t, "alice", out.Posts[0].Comments[0].UserName)
	assert.Nil(t, out.User)
}

func TestFeedJSONFailure(t *testing.T) {
	f, b := newFront(t, nil)
	f.srv.Fail(http.MethodGet, api.RouteListPosts, http.StatusInternalServerError)

	resp, body := b.get("/api/feed")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, pages.MsgPostsFailed)
}

func TestProfileJSON(t *testing.T) {
	f, b := newFront(t, nil)

	_, body := b.get("/api/profile")
	assert.JSONEq(t, `{"success": true, "user": null, "loggedIn": false}`, body)
	assert.Zero(t, f.srv.Calls(http.MethodGet, api.RouteGetUser))

	b.login("bob@example.com")
	_, body = b.get("/api/profile")
	assert.Contains(t, body, `"userName":"bob"`)
}

func TestLoginRateLimit(t *testing.T) {
	_, b := newFront(t, func(cfg *config.Config) { cfg.LoginRateLimit = 1 })

	resp, _ := b.post("/login", url.Values{"email": {"bob@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = b.post("/login", url.Values{"email": {"bob@example.com"}, "password": {"pw"}})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp, _ = b.get("/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginRateLimitIgnoresForwardedFor(t *testing.T) {
	_, b := newFront(t, func(cfg *config.Config) { cfg.LoginRateLimit = 1 })

	codes := []int{}
	for _, spoofed := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		req, err := http.NewRequest(http.MethodPost, b.base+"/login",
			strings.NewReader(url.Values{"email": {"bob@example.com"}, "password": {"wrong"}}.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Forwarded-For", spoofed)
		resp, _ := b.do(req)
		codes = append(codes, resp.StatusCode)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestHealthAndMetrics(t *testing.T) {
	_, b := newFront(t, nil)

	resp, _ := b.get("/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	b.get("/home-page")
	_, body := b.get("/metrics")
	assert.Contains(t, body, "blogfront_upstream_requests_total")
}

func TestUnknownAPIRoute(t *testing.T) {
	_, b := newFront(t, nil)

	resp, body := b.get("/api/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Endpoint not found")
}
