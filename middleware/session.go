package middleware

import (
	"net/http"

	"blogfront/api"
	"blogfront/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionCookie = "blogfront_session"

	sessionKey = "session"
	jarKey     = "upstreamJar"
)

// cookieStore keeps the session record in a signed cookie on the current
// response.
type cookieStore struct {
	c      *gin.Context
	codec  *session.TokenCodec
	secure bool
	logger *zap.Logger
}

func (s *cookieStore) Load() (session.Record, error) {
	token, err := s.c.Cookie(SessionCookie)
	if err != nil || token == "" {
		return session.Record{}, nil
	}
	record, err := s.codec.Parse(token)
	if err != nil {
		// A tampered or stale cookie is treated as logged out.
		s.logger.Info("discarding invalid session cookie", zap.Error(err))
		return session.Record{}, nil
	}
	return record, nil
}

func (s *cookieStore) Save(r session.Record) error {
	token, err := s.codec.Sign(r)
	if err != nil {
		return err
	}
	s.setCookie(token, 0)
	return nil
}

func (s *cookieStore) Clear() error {
	s.setCookie("", -1)
	return nil
}

func (s *cookieStore) setCookie(value string, maxAge int) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(SessionCookie, value, maxAge, "/", "", s.secure, true)
}

// Session attaches a *session.Session and a per-browser upstream cookie jar
// to every request.
func Session(codec *session.TokenCodec, apiBaseURL string, secure bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := session.New(&cookieStore{c: c, codec: codec, secure: secure, logger: logger})
		if err != nil {
			logger.Error("error loading session", zap.Error(err))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		jar, err := api.NewJar(apiBaseURL, sess.Credentials())
		if err != nil {
			logger.Error("error creating upstream jar", zap.Error(err))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(sessionKey, sess)
		c.Set(jarKey, jar)
		c.Next()
	}
}

func CurrentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func UpstreamJar(c *gin.Context) *api.Jar {
	return c.MustGet(jarKey).(*api.Jar)
}

// SaveSession writes credentials the upstream set during this request back
// into the session cookie. Call it before the response body is written.
func SaveSession(c *gin.Context) error {
	sess := CurrentSession(c)
	if !sess.LoggedIn() {
		return nil
	}
	return sess.SetCredentials(UpstreamJar(c).Export())
}

// RequireSession sends visitors without a session identifier to the login
// page.
func RequireSession(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).LoggedIn() {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
