package pages

import (
	"context"
	"strings"

	"blogfront/api"

	"go.uber.org/zap"
)

type Login struct {
	deps Deps

	Email    string
	Password string
	Error    string
	Success  string
}

func NewLogin(deps Deps) *Login {
	return &Login{deps: deps}
}

// Submit authenticates and stores the returned user id in the session.
// Admins go to the dashboard, everyone else to the home page.
func (l *Login) Submit(ctx context.Context) (Route, bool) {
	l.Error, l.Success = "", ""
	if strings.TrimSpace(l.Email) == "" || l.Password == "" {
		l.Error = MsgCredentialsNeed
		return "", false
	}

	user, err := l.deps.Backend.Login(ctx, api.LoginRequest{Email: l.Email, Password: l.Password})
	if err != nil {
		l.deps.logger().Info("login failed", zap.String("email", l.Email), zap.Error(err))
		l.Error = serverMessage(err, MsgLoginFailed)
		return "", false
	}

	if err := l.deps.Session.Set(user.ID); err != nil {
		l.deps.logger().Error("error saving session", zap.Error(err))
		l.Error = MsgLoginFailed
		return "", false
	}

	l.Success = MsgLoginOK
	if user.IsAdmin() {
		return RouteDashboard, true
	}
	return RouteHome, true
}

type Register struct {
	deps Deps

	UserName string
	Email    string
	Password string
	Photo    *api.Upload // optional
	Error    string
	Success  string
}

func NewRegister(deps Deps) *Register {
	return &Register{deps: deps}
}

// Submit creates the account. It does not log the new user in.
func (r *Register) Submit(ctx context.Context) bool {
	r.Error, r.Success = "", ""
	if strings.TrimSpace(r.UserName) == "" || strings.TrimSpace(r.Email) == "" || r.Password == "" {
		r.Error = MsgFieldsRequired
		return false
	}

	err := r.deps.Backend.Register(ctx, api.RegisterRequest{
		UserName: r.UserName,
		Email:    r.Email,
		Password: r.Password,
		Photo:    r.Photo,
	})
	if err != nil {
		r.deps.logger().Info("registration failed", zap.String("email", r.Email), zap.Error(err))
		r.Error = serverMessage(err, MsgRegisterFailed)
		return false
	}

	r.Success = MsgRegisterOK
	return true
}
