// Package views holds the server-rendered HTML pages of the web front.
package views

import (
	"embed"
	"html/template"

	"blogfront/config"
	"blogfront/models"
	"blogfront/pages"
)

// Template names, one per page.
const (
	Landing  = "landing.html"
	Login    = "login.html"
	Register = "register.html"
	Feed     = "feed.html"
	AddPost  = "add_post.html"
	Users    = "users.html"
)

// Page is the data every template renders. Fields a page does not use stay
// zero.
type Page struct {
	Title    string
	LoggedIn bool
	Error    string
	Success  string

	// Feed pages.
	Page   pages.Route
	Admin  bool
	Feed   *pages.Feed
	EditID string

	// Forms are re-rendered with what the user typed.
	Email       string
	UserName    string
	PostTitle   string
	Description string

	Users []models.User
}

//go:embed templates/*.html
var templateFS embed.FS

// Load parses every page. Image filenames in templates go through the image
// func, which resolves them against the configured asset base.
func Load(cfg *config.Config) (*template.Template, error) {
	funcs := template.FuncMap{
		"image": cfg.ImageURL,
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
