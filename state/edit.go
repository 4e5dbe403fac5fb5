package state

import "blogfront/models"

// EditBuffer holds the unsaved title and description of at most one post.
type EditBuffer struct {
	PostID      string
	Title       string
	Description string
}

// Start opens the buffer on p. Any edit in progress on another post is
// dropped without being saved.
func (b *EditBuffer) Start(p models.Post) {
	*b = EditBuffer{PostID: p.ID, Title: p.Title, Description: p.Description}
}

func (b *EditBuffer) Set(title, description string) {
	b.Title = title
	b.Description = description
}

func (b *EditBuffer) Cancel() {
	*b = EditBuffer{}
}

func (b *EditBuffer) Active() bool {
	return b.PostID != ""
}

func (b *EditBuffer) Editing(postID string) bool {
	return b.Active() && b.PostID == postID
}
