package models

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole accepts the role name in any letter case.
func ParseRole(s string) (Role, error) {
	switch {
	case equalFold(s, string(RoleUser)):
		return RoleUser, nil
	case equalFold(s, string(RoleAdmin)):
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}
