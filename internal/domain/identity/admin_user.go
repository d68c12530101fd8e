package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex  = regexp.MustCompile(`[0-9]`)
)

// AdminUser is an operator of the admin console
type AdminUser struct {
	shared.BaseAggregateRoot
	Email        string
	PasswordHash string
	DisplayName  string
	Role         shared.Role
	IsActive     bool
	LastLoginAt  *time.Time
}

// NewAdminUser creates an active admin with a hashed password
func NewAdminUser(email, password, displayName string, role shared.Role) (*AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if role != shared.RoleAdmin && role != shared.RoleSuperAdmin {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be admin or super-admin")
	}
	u := &AdminUser{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		DisplayName:       strings.TrimSpace(displayName),
		Role:              role,
		IsActive:          true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword validates and hashes a new password
func (u *AdminUser) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *AdminUser) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// CanLogin returns true for active admins
func (u *AdminUser) CanLogin() bool {
	return u.IsActive && !u.IsDeleted()
}

// RecordLogin stamps the last login time
func (u *AdminUser) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Deactivate blocks further logins
func (u *AdminUser) Deactivate() error {
	if !u.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Admin is already inactive")
	}
	u.IsActive = false
	u.Touch()
	u.IncrementVersion()
	return nil
}

// Session returns the explicit session for this admin
func (u *AdminUser) Session() shared.Session {
	return shared.NewSession(u.ID, u.Email, u.Role)
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
