package domain

import "time"

// Role classifies what a principal may do.
type Role string

const (
	RoleAdmin      Role = "admin"
	RolePrivileged Role = "privileged"
	RoleNonAdmin   Role = "nonadmin"
)

// Principal is an identity that tokens can be minted for. The identifier is
// immutable; the role may change out-of-band through user management.
type Principal struct {
	ID           string
	Username     string
	Role         Role
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the principal may mint tokens for others.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
