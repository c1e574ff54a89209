package domain

// UserRole mirrors the roles the core platform assigns.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is the authenticated account as reported by the core platform.
type User struct {
	ID       int      `json:"id"`
	Email    string   `json:"email,omitempty"`
	Username string   `json:"username,omitempty"`
	Role     UserRole `json:"role"`
	Balance  float64  `json:"balance"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
