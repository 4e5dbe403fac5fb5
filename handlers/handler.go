// Package handlers serves the web front's pages. Every request mounts its
// page against the blog API, applies at most one user action and renders
// the resulting view state.
package handlers

import (
	"net/http"

	"blogfront/api"
	"blogfront/config"
	"blogfront/metrics"
	"blogfront/middleware"
	"blogfront/pages"
	"blogfront/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	client  *api.Client
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New builds the handlers. m may be nil.
func New(client *api.Client, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{client: client, cfg: cfg, logger: logger, metrics: m}
}

// deps wires a page to the visitor's session and upstream credentials.
func (h *Handler) deps(c *gin.Context) pages.Deps {
	d := pages.Deps{
		Backend:                     h.client.WithJar(middleware.UpstreamJar(c)),
		Session:                     middleware.CurrentSession(c),
		Logger:                      h.logger.With(zap.String("requestId", c.Writer.Header().Get(middleware.RequestIDHeader))),
		LookupConcurrency:           h.cfg.LookupConcurrency,
		ClearSessionOnLogoutFailure: h.cfg.ClearSessionOnLogoutFailure,
	}
	if h.metrics != nil {
		d.OnLoadFailure = h.metrics.LoadFailed
	}
	return d
}

func (h *Handler) saveSession(c *gin.Context) {
	if err := middleware.SaveSession(c); err != nil {
		h.logger.Error("error saving session", zap.Error(err))
	}
}

func (h *Handler) render(c *gin.Context, name string, data views.Page) {
	h.saveSession(c)
	data.LoggedIn = middleware.CurrentSession(c).LoggedIn()
	c.HTML(http.StatusOK, name, data)
}

func (h *Handler) redirect(c *gin.Context, route pages.Route) {
	h.saveSession(c)
	c.Redirect(http.StatusSeeOther, string(route))
}

func (h *Handler) Landing(c *gin.Context) {
	h.render(c, views.Landing, views.Page{Title: "Welcome"})
}
