package user

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"   // Everything, including user management
	RoleManager Role = "manager" // Day-to-day HR operations
	RoleUser    Role = "user"    // Read-only staff access
)

var roleRank = map[Role]int{
	RoleUser:    1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r includes every capability of min.
// Admin includes manager, manager includes user.
func (r Role) AtLeast(min Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	return have >= roleRank[min]
}

func Roles() []string {
	return []string{string(RoleAdmin), string(RoleManager), string(RoleUser)}
}

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Email        string
	Role         Role
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsManager() bool {
	return u.Role.AtLeast(RoleManager)
}
