package domain

import "time"

// Role is the authorization level carried by a user and embedded in its tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User models an account in the users table.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Lastname       string    `json:"lastname"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Role           Role      `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserPatch carries the optional fields of a partial update. Nil means "leave as is".
type UserPatch struct {
	Name     *string
	Lastname *string
	Email    *string
	Role     *Role
	// IsActive is a plain field write, so an update may reactivate a
	// deactivated user. Deactivate is the only path that forces false.
	IsActive *bool
}

// Apply overwrites the fields of u that are present in p.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Lastname != nil {
		u.Lastname = *p.Lastname
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Lastname == nil && p.Email == nil && p.Role == nil && p.IsActive == nil
}
