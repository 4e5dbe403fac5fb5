package models

// RoleAdmin is the only role the client treats specially; any other value is an ordinary user.
const RoleAdmin = "Admin"

type User struct {
	ID       string `json:"_id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Profile  string `json:"profile"` // image filename
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
