package models

type Post struct {
	ID          string    `json:"_id"`
	Title       string    `json:"Title"`
	Description string    `json:"dsc"`
	Image       string    `json:"image"` // filename, resolved against the asset base
	Comments    []Comment `json:"comment"`
}

type Comment struct {
	ID     string `json:"_id"`
	PostID string `json:"postId"`
	UserID string `json:"userId"`
	Text   string `json:"comment"`

	// Resolved client side from UserID; the server never sends it.
	UserName string `json:"userName,omitempty"`
}
