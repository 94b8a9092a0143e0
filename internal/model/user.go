package model

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleRegular Role = "Regular"
	RoleAdmin   Role = "Admin"
)

// User represents a user in the database. Email is the identity key.
type User struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PhotoURL  string    `json:"photoUrl"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user carries the elevated role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SignInRequest is the body of POST /jwt.
type SignInRequest struct {
	Email string `json:"email"`
}

// UpsertUserRequest is the body of PUT /users.
type UpsertUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl"`
}

// UpsertUserResponse reports whether the upsert created a new account.
type UpsertUserResponse struct {
	User    User `json:"user"`
	Created bool `json:"created"`
}

// RoleResponse is returned by GET /users/{email}/role.
type RoleResponse struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Admin bool   `json:"admin"`
}
