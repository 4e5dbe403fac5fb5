package main

import (
	"fmt"
	"os"
	"path/filepath"

	"blogfront/api"
	"blogfront/loader"
	"blogfront/pages"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			login := pages.NewLogin(a.deps())
			login.Email = email
			login.Password = password

			route, ok := login.Submit(cmd.Context())
			if !ok {
				return pageError(login.Error)
			}

			green.Fprintln(a.out, login.Success)
			if route == pages.RouteDashboard {
				yellow.Fprintln(a.out, "Logged in as admin.")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			feed := pages.NewFeed(a.deps())
			if _, ok := feed.Logout(cmd.Context()); !ok {
				return pageError(feed.Error)
			}
			green.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var userName, email, password, photo string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			register := pages.NewRegister(a.deps())
			register.UserName = userName
			register.Email = email
			register.Password = password

			if photo != "" {
				f, err := os.Open(photo)
				if err != nil {
					return fmt.Errorf("error opening photo: %w", err)
				}
				defer f.Close()
				register.Photo = &api.Upload{Filename: filepath.Base(photo), Content: f}
			}

			if !register.Submit(cmd.Context()) {
				return pageError(register.Error)
			}
			green.Fprintln(a.out, register.Success)
			return nil
		},
	}
	cmd.Flags().StringVarP(&userName, "name", "n", "", "user name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&photo, "photo", "", "profile photo to upload")
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := loader.LoadProfile(cmd.Context(), a.sess, a.client)
			if err != nil {
				a.logger.Error("error fetching profile", zap.Error(err))
				return pageError(pages.MsgProfileFailed)
			}
			if user == nil {
				gray.Fprintln(a.out, "Not logged in.")
				return nil
			}

			bold.Fprintln(a.out, user.UserName)
			fmt.Fprintf(a.out, "  id:    %s\n", user.ID)
			fmt.Fprintf(a.out, "  email: %s\n", user.Email)
			fmt.Fprintf(a.out, "  role:  %s\n", user.Role)
			if user.Profile != "" {
				fmt.Fprintf(a.out, "  photo: %s\n", a.cfg.ImageURL(user.Profile))
			}
			return nil
		},
	}
}
