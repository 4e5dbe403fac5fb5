// Command blogctl is a terminal client for the blog API. The session is kept
// in a file between runs.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"blogfront/api"
	"blogfront/config"
	"blogfront/logging"
	"blogfront/pages"
	"blogfront/session"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app is what every command runs against. It is filled in before a command
// runs and the upstream credentials are written back after it succeeds.
type app struct {
	out io.Writer

	configPath  string
	sessionFile string
	apiURL      string

	cfg    *config.Config
	logger *zap.Logger
	sess   *session.Session
	jar    *api.Jar
	client *api.Client
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:               "blogctl",
		Short:             "Read and manage the blog from the terminal",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.saveCredentials()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.sessionFile, "session-file", "", "session file (default ~/.blogctl/session.json)")
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "blog API base URL")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRegisterCmd(a),
		newWhoamiCmd(a),
		newPostsCmd(a),
		newCommentCmd(a),
		newPostCmd(a),
		newUsersCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		if cfg.AssetBaseURL == cfg.APIBaseURL+"/images" {
			cfg.AssetBaseURL = a.apiURL + "/images"
		}
		cfg.APIBaseURL = a.apiURL
	}
	a.cfg = cfg

	logger, err := logging.NewFileOnly(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	a.logger = logger

	path := a.sessionFile
	if path == "" {
		if path, err = session.DefaultPath(); err != nil {
			return err
		}
	}
	if a.sess, err = session.New(&session.FileStore{Path: path}); err != nil {
		return err
	}

	if a.jar, err = api.NewJar(cfg.APIBaseURL, a.sess.Credentials()); err != nil {
		return err
	}
	a.client, err = api.New(cfg.APIBaseURL, api.WithJar(a.jar), api.WithLogger(logger.Named("api")))
	return err
}

func (a *app) saveCredentials() error {
	if a.sess == nil {
		return nil
	}
	defer func() { _ = a.logger.Sync() }()

	if !a.sess.LoggedIn() {
		return nil
	}
	return a.sess.SetCredentials(a.jar.Export())
}

func (a *app) deps() pages.Deps {
	return pages.Deps{
		Backend:                     a.client,
		Session:                     a.sess,
		Logger:                      a.logger,
		LookupConcurrency:           a.cfg.LookupConcurrency,
		ClearSessionOnLogoutFailure: a.cfg.ClearSessionOnLogoutFailure,
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	gray   = color.New(color.FgHiBlack)
	bold   = color.New(color.Bold)
)

// pageError turns the message a page set into the command's error.
func pageError(msg string) error {
	return errors.New(msg)
}
