package shared

import (
	"github.com/google/uuid"
)

// Role is an admin console role
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
	RoleSystem     Role = "system"
)

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin, RoleSystem:
		return true
	}
	return false
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// SystemUserID identifies work done by background jobs
var SystemUserID = uuid.Nil

// Session carries the acting admin into every service call.
// It is passed by value; services never read ambient identity.
type Session struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// NewSession creates a session for an authenticated admin
func NewSession(userID uuid.UUID, email string, role Role) Session {
	return Session{UserID: userID, Email: email, Role: role}
}

// SystemSession returns the session used by scheduled jobs
func SystemSession() Session {
	return Session{UserID: SystemUserID, Email: "system", Role: RoleSystem}
}

// IsSystem reports whether the session belongs to a background job
func (s Session) IsSystem() bool {
	return s.Role == RoleSystem
}

// IsSuperAdmin reports whether the session may manage other admins
func (s Session) IsSuperAdmin() bool {
	return s.Role == RoleSuperAdmin || s.Role == RoleSystem
}

// Validate ensures the session identifies someone
func (s Session) Validate() error {
	if !s.Role.IsValid() {
		return ErrUnauthorized
	}
	if s.UserID == uuid.Nil && !s.IsSystem() {
		return ErrUnauthorized
	}
	return nil
}
