package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/identity"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/auth"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminService manages admin accounts; mutations are reserved for super-admins
type AdminService struct {
	userRepo   identity.AdminUserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	audit      audit.Emitter
	logger     *zap.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo identity.AdminUserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	auditEmitter audit.Emitter,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		audit:      auditEmitter,
		logger:     logger,
	}
}

func requireSuperAdmin(session shared.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	if !session.IsSuperAdmin() {
		return shared.NewDomainError("FORBIDDEN", "Only a super-admin can manage admins")
	}
	return nil
}

// CreateAdmin adds an admin account
func (s *AdminService) CreateAdmin(ctx context.Context, session shared.Session, req CreateAdminRequest) (*AdminResponse, error) {
	if err := requireSuperAdmin(session); err != nil {
		return nil, err
	}
	user, err := s.create(ctx, req.Email, req.Password, req.DisplayName, shared.Role(req.Role))
	if err != nil {
		return nil, err
	}
	resp := toAdminResponse(user)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionCreate, audit.EntityAdmin, user.ID.String(),
		"Yönetici eklendi: "+user.Email).WithValues(nil, resp))
	return &resp, nil
}

func (s *AdminService) create(ctx context.Context, email, password, displayName string, role shared.Role) (*identity.AdminUser, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An admin with this email already exists")
	}
	user, err := identity.NewAdminUser(email, password, displayName, role)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListAdmins lists every admin account
func (s *AdminService) ListAdmins(ctx context.Context, session shared.Session) ([]AdminResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AdminResponse, len(users))
	for i := range users {
		out[i] = toAdminResponse(&users[i])
	}
	return out, nil
}

// DeactivateAdmin blocks an admin and revokes every token issued to them
func (s *AdminService) DeactivateAdmin(ctx context.Context, session shared.Session, id uuid.UUID) (*AdminResponse, error) {
	if err := requireSuperAdmin(session); err != nil {
		return nil, err
	}
	if id == session.UserID {
		return nil, shared.NewDomainError("INVALID_STATE", "You cannot deactivate your own account")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := toAdminResponse(user)
	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := s.blacklist.RevokeUser(ctx, id, s.jwtService.Expiration()); err != nil {
		logger.WithLogger(ctx, s.logger).Error("failed to revoke tokens of deactivated admin",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
	}

	resp := toAdminResponse(user)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionUpdate, audit.EntityAdmin, id.String(),
		"Yönetici devre dışı bırakıldı: "+user.Email).WithValues(before, resp))
	return &resp, nil
}

// SeedSuperAdmin creates the initial super-admin when the email is configured
// and not yet taken. It reports whether an account was created.
func (s *AdminService) SeedSuperAdmin(ctx context.Context, email, password string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}
	user, err := s.create(ctx, email, password, "Süper Yönetici", shared.RoleSuperAdmin)
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	logger.WithLogger(ctx, s.logger).Info("super-admin seeded", zap.String("email", user.Email))
	s.audit.Emit(ctx, audit.NewEntry(shared.SystemSession(), audit.ActionCreate, audit.EntityAdmin, user.ID.String(),
		"İlk süper yönetici oluşturuldu: "+user.Email))
	return true, nil
}
