package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, approves attendance and reads all reports
	RoleEmployee Role = "employee" // Records and reads own attendance
)

type User struct {
	ID        string
	Name      string
	Email     string
	Roles     []Role
	IsActive  bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRole checks if the user holds role
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}
