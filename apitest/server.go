// Package apitest runs an in-memory blog API with the same routes and
// response envelopes as the real backend, for tests.
package apitest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"blogfront/api"
	"blogfront/models"

	"github.com/gin-gonic/gin"
)

// AuthCookie is the credential cookie the fake hands out on login.
const AuthCookie = "token"

type Server struct {
	*httptest.Server

	// RequireAuth makes mutating routes demand the login cookie.
	RequireAuth bool

	mu        sync.Mutex
	users     []models.User
	passwords map[string]string // email -> password
	posts     []models.Post
	uploads   map[string][]byte // filename -> content
	calls     map[string]int    // "METHOD route" -> count
	failures  map[string]int    // "METHOD route" -> status
	rejects   map[string]string // "METHOD route" -> message
	failIDs   map[string]bool   // user ids whose lookup fails
	nextID    int
}

func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		passwords: map[string]string{},
		uploads:   map[string][]byte{},
		calls:     map[string]int{},
		failures:  map[string]int{},
		rejects:   map[string]string{},
		failIDs:   map[string]bool{},
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func key(method, route string) string {
	return method + " " + route
}

func (s *Server) router() *gin.Engine {
	router := gin.New()
	router.Use(s.record)

	router.GET(api.RouteListPosts, s.listPosts)
	router.POST(api.RouteCreatePost, s.auth, s.createPost)
	router.PATCH(api.RouteUpdatePost, s.auth, s.updatePost)
	router.DELETE(api.RouteDeletePost, s.auth, s.deletePost)

	router.GET(api.RouteGetUser, s.getUser)
	router.GET(api.RouteListUsers, s.listUsers)
	router.DELETE(api.RouteDeleteUser, s.auth, s.deleteUser)
	router.POST(api.RouteLogin, s.login)
	router.POST(api.RouteRegister, s.register)
	router.POST(api.RouteLogout, s.logout)

	router.POST(api.RouteCreateComment, s.auth, s.createComment)

	return router
}

// record counts the call and applies injected failures.
func (s *Server) record(c *gin.Context) {
	k := key(c.Request.Method, c.FullPath())

	s.mu.Lock()
	s.calls[k]++
	status, fail := s.failures[k]
	message, reject := s.rejects[k]
	s.mu.Unlock()

	switch {
	case fail:
		c.AbortWithStatusJSON(status, gin.H{"success": false, "message": http.StatusText(status)})
	case reject:
		c.AbortWithStatusJSON(http.StatusOK, gin.H{"success": false, "message": message})
	default:
		c.Next()
	}
}

func (s *Server) auth(c *gin.Context) {
	if !s.RequireAuth {
		c.Next()
		return
	}
	if _, err := c.Cookie(AuthCookie); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Please login first"})
		return
	}
	c.Next()
}

func (s *Server) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s%d", prefix, s.nextID)
}

// ===== SEEDING AND INSPECTION =====

func (s *Server) AddUser(u models.User, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
	s.passwords[u.Email] = password
}

func (s *Server) AddPost(p models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	s.posts = append(s.posts, p)
}

func (s *Server) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Post(nil), s.posts...)
}

func (s *Server) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

func (s *Server) Upload(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.uploads[name]
	return data, ok
}

// Calls returns how often method+route was hit, route in gin syntax.
func (s *Server) Calls(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key(method, route)]
}

func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// Fail makes method+route answer with status until cleared.
func (s *Server) Fail(method, route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key(method, route)] = status
}

// Reject makes method+route answer 200 with success:false and message.
func (s *Server) Reject(method, route, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejects[key(method, route)] = message
}

// FailUser makes the lookup of one user id fail with a 500.
func (s *Server) FailUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failIDs[id] = true
}

// ===== POSTS =====

func (s *Server) listPosts(c *gin.Context) {
	s.mu.Lock()
	posts := append([]models.Post{}, s.posts...)
	s.mu.Unlock()

	c.JSON(http.StatusOK, models.PostsResponse{Envelope: models.Envelope{Success: true}, Posts: posts})
}

func (s *Server) createPost(c *gin.Context) {
	title := c.PostForm("Title")
	dsc := c.PostForm("dsc")
	header, err := c.FormFile("image")
	if title == "" || dsc == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
		return
	}

	data, err := readUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	s.mu.Lock()
	post := models.Post{ID: s.newID("p"), Title: title, Description: dsc, Image: header.Filename, Comments: []models.Comment{}}
	s.posts = append(s.posts, post)
	s.uploads[header.Filename] = data
	s.mu.Unlock()

	c.JSON(http.StatusCreated, models.PostResponse{Envelope: models.Envelope{Success: true, Message: "Post created"}, Post: &post})
}

func (s *Server) updatePost(c *gin.Context) {
	var req api.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == c.Param("id") {
			s.posts[i].Title = req.Title
			s.posts[i].Description = req.Description
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post updated"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
}

func (s *Server) deletePost(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == c.Param("id") {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post deleted"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
}

// ===== USERS =====

func (s *Server) getUser(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failIDs[id] {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "lookup failed"})
		return
	}
	for _, u := range s.users {
		if u.ID == id {
			c.JSON(http.StatusOK, models.UserResponse{Envelope: models.Envelope{Success: true}, User: &u})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
}

func (s *Server) listUsers(c *gin.Context) {
	s.mu.Lock()
	users := append([]models.User{}, s.users...)
	s.mu.Unlock()

	c.JSON(http.StatusOK, models.UsersResponse{Envelope: models.Envelope{Success: true}, Users: users})
}

func (s *Server) deleteUser(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == c.Param("id") {
			delete(s.passwords, s.users[i].Email)
			s.users = append(s.users[:i], s.users[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
}

func (s *Server) login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if password, ok := s.passwords[req.Email]; ok && password == req.Password {
		for _, u := range s.users {
			if u.Email == req.Email {
				c.SetCookie(AuthCookie, "session-"+u.ID, 3600, "/", "", false, true)
				c.JSON(http.StatusOK, models.UserResponse{Envelope: models.Envelope{Success: true, Message: "Login successful"}, User: &u})
				return
			}
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
}

func (s *Server) register(c *gin.Context) {
	userName := c.PostForm("userName")
	email := c.PostForm("email")
	password := c.PostForm("password")
	if userName == "" || email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
		return
	}

	profile := ""
	if header, err := c.FormFile("profile"); err == nil {
		data, err := readUpload(c, "profile")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		profile = header.Filename
		s.mu.Lock()
		s.uploads[profile] = data
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.passwords[email]; taken {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists"})
		return
	}
	s.users = append(s.users, models.User{ID: s.newID("u"), UserName: userName, Email: email, Role: "User", Profile: profile})
	s.passwords[email] = password

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User registered successfully"})
}

func (s *Server) logout(c *gin.Context) {
	c.SetCookie(AuthCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// ===== COMMENTS =====

func (s *Server) createComment(c *gin.Context) {
	var req api.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PostID == "" || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "postId and userId are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == req.PostID {
			comment := models.Comment{ID: s.newID("c"), PostID: req.PostID, UserID: req.UserID, Text: req.Comment}
			s.posts[i].Comments = append(s.posts[i].Comments, comment)
			c.JSON(http.StatusCreated, models.CommentResponse{Envelope: models.Envelope{Success: true}, Comment: &comment})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
}

func readUpload(c *gin.Context, field string) ([]byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
