package domain

import "time"

type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the authenticated identity the engine acts on behalf of. It is
// consumed, not produced, by this process; token mechanics live elsewhere.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"-"`
}
