// Package state holds the pure merge functions that fold a successful
// mutation into the current view state. Inputs are never modified; callers
// replace their slice with the returned one.
package state

import (
	"blogfront/models"
)

// AppendComment adds c to the end of the comments of the post with postID.
// Posts are returned unchanged when none matches.
func AppendComment(posts []models.Post, postID string, c models.Comment) []models.Post {
	return mapByID(posts, postID, func(p models.Post) models.Post {
		comments := make([]models.Comment, 0, len(p.Comments)+1)
		comments = append(comments, p.Comments...)
		p.Comments = append(comments, c)
		return p
	})
}

// PatchPost replaces only the title and description of the post with id.
func PatchPost(posts []models.Post, id, title, description string) []models.Post {
	return mapByID(posts, id, func(p models.Post) models.Post {
		p.Title = title
		p.Description = description
		return p
	})
}

func RemovePost(posts []models.Post, id string) []models.Post {
	return removeByID(posts, id, func(p models.Post) string { return p.ID })
}

// RemoveUser filters out the user with id. An absent id removes nothing.
func RemoveUser(users []models.User, id string) []models.User {
	return removeByID(users, id, func(u models.User) string { return u.ID })
}

func mapByID(posts []models.Post, id string, patch func(models.Post) models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	for i, p := range posts {
		if p.ID == id {
			p = patch(p)
		}
		out[i] = p
	}
	return out
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}
