package main

import (
	"blogfront/pages"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users := pages.NewUsers(a.deps())
			users.Mount(cmd.Context())
			if users.Error != "" {
				return pageError(users.Error)
			}

			table := tablewriter.NewWriter(a.out)
			table.SetHeader([]string{"ID", "User name", "Email", "Role"})
			table.SetAutoWrapText(false)
			for _, u := range users.Users {
				table.Append([]string{u.ID, u.UserName, u.Email, u.Role})
			}
			table.Render()
			return nil
		},
	}
	cmd.AddCommand(newUsersDeleteCmd(a))
	return cmd
}

func newUsersDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users := pages.NewUsers(a.deps())
			if !users.DeleteUser(cmd.Context(), args[0]) {
				return pageError(users.Error)
			}
			green.Fprintf(a.out, "Deleted user %s.\n", args[0])
			return nil
		},
	}
}
