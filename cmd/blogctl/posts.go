package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"blogfront/api"
	"blogfront/models"
	"blogfront/pages"

	"github.com/spf13/cobra"
)

func printPost(a *app, p models.Post) {
	bold.Fprintf(a.out, "%s ", p.Title)
	gray.Fprintf(a.out, "(%s)\n", p.ID)
	if p.Description != "" {
		fmt.Fprintf(a.out, "  %s\n", p.Description)
	}
	if p.Image != "" {
		gray.Fprintf(a.out, "  %s\n", a.cfg.ImageURL(p.Image))
	}
	for _, c := range p.Comments {
		fmt.Fprintf(a.out, "  %s %s\n", yellow.Sprintf("%s:", c.UserName), c.Text)
	}
}

func newPostsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "List posts with their comments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			feed := pages.NewFeed(a.deps())
			feed.Mount(cmd.Context())
			if feed.Posts == nil && feed.Error != "" {
				return pageError(feed.Error)
			}

			if len(feed.Posts) == 0 {
				gray.Fprintln(a.out, "No posts yet.")
				return nil
			}
			for i, p := range feed.Posts {
				if i > 0 {
					fmt.Fprintln(a.out)
				}
				printPost(a, p)
			}
			return nil
		},
	}
}

func newCommentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <post-id> <text>...",
		Short: "Comment on a post as the logged in user",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID := args[0]

			feed := pages.NewFeed(a.deps())
			feed.Mount(cmd.Context())
			if !feed.SubmitComment(cmd.Context(), postID, strings.Join(args[1:], " ")) {
				return pageError(feed.Error)
			}

			if p, ok := feed.Post(postID); ok {
				printPost(a, p)
			}
			return nil
		},
	}
}

func newPostCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create, edit or delete posts",
	}
	cmd.AddCommand(newPostCreateCmd(a), newPostEditCmd(a), newPostDeleteCmd(a))
	return cmd
}

func newPostCreateCmd(a *app) *cobra.Command {
	var title, description, image string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a post with an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := pages.NewAddPost(a.deps())
			form.Title = title
			form.Description = description

			if image != "" {
				f, err := os.Open(image)
				if err != nil {
					return fmt.Errorf("error opening image: %w", err)
				}
				defer f.Close()
				form.Image = &api.Upload{Filename: filepath.Base(image), Content: f}
			}

			if _, ok := form.Submit(cmd.Context()); !ok {
				return pageError(form.Error)
			}
			green.Fprintln(a.out, "Post published.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "post title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "post description")
	cmd.Flags().StringVarP(&image, "image", "i", "", "image file to upload")
	return cmd
}

func newPostEditCmd(a *app) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "edit <post-id>",
		Short: "Change a post's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feed := pages.NewFeed(a.deps())
			feed.Mount(cmd.Context())
			if feed.Posts == nil && feed.Error != "" {
				return pageError(feed.Error)
			}
			if !feed.StartEdit(args[0]) {
				return fmt.Errorf("post %s not found", args[0])
			}

			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("description") {
				feed.CancelEdit()
				gray.Fprintln(a.out, "Nothing to change.")
				return nil
			}

			// Unset flags keep the current value.
			edit := feed.Edit
			if cmd.Flags().Changed("title") {
				edit.Title = title
			}
			if cmd.Flags().Changed("description") {
				edit.Description = description
			}
			feed.SetEdit(edit.Title, edit.Description)

			if !feed.SaveEdit(cmd.Context()) {
				return pageError(feed.Error)
			}
			if p, ok := feed.Post(args[0]); ok {
				printPost(a, p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	return cmd
}

func newPostDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feed := pages.NewFeed(a.deps())
			if !feed.DeletePost(cmd.Context(), args[0]) {
				return pageError(feed.Error)
			}
			green.Fprintf(a.out, "Deleted post %s.\n", args[0])
			return nil
		},
	}
}
