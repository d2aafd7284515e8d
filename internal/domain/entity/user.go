package entity

import "time"

// Valid roles for User.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// User is a storefront account.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string // bcrypt hash, never plain text once persisted
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user can reach the admin dashboard.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSummary is a user row with its order count, used when picking notification recipients.
type UserSummary struct {
	User
	OrderCount int
}
