package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"blogfront/api"
	"blogfront/config"
	"blogfront/handlers"
	"blogfront/metrics"
	"blogfront/middleware"
	"blogfront/pages"
	"blogfront/session"
	"blogfront/views"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter wires every page of the web front. client should already carry
// the metrics transport; each request gets its own copy with the visitor's
// credentials.
func SetupRouter(cfg *config.Config, client *api.Client, m *metrics.Metrics, logger *zap.Logger) (*gin.Engine, error) {
	codec, err := session.NewTokenCodec(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}
	tmpl, err := views.Load(cfg)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(gin.Recovery(), middleware.RequestLogger(logger))
	router.SetHTMLTemplate(tmpl)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"api":    cfg.APIBaseURL,
			"time":   time.Now().Unix(),
		})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	h := handlers.New(client, cfg, logger, m)
	limiter := middleware.NewLimiter(cfg.LoginRateLimit, time.Minute)

	web := router.Group("/")
	web.Use(middleware.Session(codec, cfg.APIBaseURL, cfg.SecureCookies, logger))

	// Public pages
	web.GET(string(pages.RouteLanding), h.Landing)
	web.GET(string(pages.RouteLogin), h.LoginForm)
	web.POST(string(pages.RouteLogin), middleware.RateLimit(limiter), h.Login)
	web.GET(string(pages.RouteRegister), h.RegisterForm)
	web.POST(string(pages.RouteRegister), middleware.RateLimit(limiter), h.Register)
	web.GET(string(pages.RouteHome), h.Home)
	web.POST("/posts/:id/comments", h.Comment)
	web.POST("/logout", h.Logout)

	// Admin pages
	admin := web.Group("/")
	admin.Use(middleware.RequireSession(string(pages.RouteLogin)))
	admin.GET(string(pages.RouteDashboard), h.Dashboard)
	admin.POST("/dashboard/posts/:id/edit", h.SaveEdit)
	admin.POST("/dashboard/posts/:id/delete", h.DeletePost)
	admin.GET(string(pages.RouteAddPost), h.AddPostForm)
	admin.POST(string(pages.RouteAddPost), h.AddPost)
	admin.GET(string(pages.RouteAllUsers), h.AllUsers)
	admin.POST("/all-users/:id/delete", h.DeleteUser)

	// JSON view state for script clients
	jsonAPI := web.Group("/api")
	if len(cfg.AllowOrigins) > 0 {
		jsonAPI.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowOrigins,
			AllowMethods:     []string{"GET", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	jsonAPI.GET("/feed", h.FeedJSON)
	jsonAPI.GET("/profile", h.ProfileJSON)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Endpoint not found",
				"path":    c.Request.URL.Path,
			})
			return
		}
		c.Redirect(http.StatusSeeOther, string(pages.RouteLanding))
	})

	return router, nil
}
