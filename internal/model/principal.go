package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleDriver     Role = "driver"
	RoleMechanic   Role = "mechanic"
)

// Principal is the authenticated caller extracted from the access token.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

func (p Principal) IsAdmin() bool      { return p.Role == RoleAdmin }
func (p Principal) IsSupervisor() bool { return p.Role == RoleSupervisor }
func (p Principal) IsDriver() bool     { return p.Role == RoleDriver }
func (p Principal) IsMechanic() bool   { return p.Role == RoleMechanic }

// CanReview reports whether the principal may approve or reject responses.
func (p Principal) CanReview() bool {
	return p.Role == RoleAdmin || p.Role == RoleSupervisor
}
