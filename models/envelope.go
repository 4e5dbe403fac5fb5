package models

// Envelope is the shape every API response shares.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type PostsResponse struct {
	Envelope
	Posts []Post `json:"post"`
}

type PostResponse struct {
	Envelope
	Post *Post `json:"post,omitempty"`
}

type UserResponse struct {
	Envelope
	User *User `json:"user,omitempty"`
}

type UsersResponse struct {
	Envelope
	Users []User `json:"users"`
}

type CommentResponse struct {
	Envelope
	Comment *Comment `json:"comment,omitempty"`
}
