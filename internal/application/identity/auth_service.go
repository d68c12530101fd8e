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
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")

// AuthService handles admin login and logout
type AuthService struct {
	userRepo   identity.AdminUserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	audit      audit.Emitter
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.AdminUserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	auditEmitter audit.Emitter,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		audit:      auditEmitter,
		logger:     logger,
	}
}

// Login checks the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	log := logger.WithLogger(ctx, s.logger)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("login for unknown email", zap.String("email", email))
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		log.Warn("invalid password attempt", zap.String("email", email))
		return nil, errInvalidCredentials
	}
	if !user.CanLogin() {
		log.Warn("login attempt for inactive admin", zap.String("email", email))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account has been deactivated")
	}

	session := user.Session()
	token, err := s.jwtService.GenerateToken(session)
	if err != nil {
		log.Error("failed to generate token", zap.Error(err))
		return nil, err
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// the token is already issued; a stale last-login stamp is tolerable
		log.Error("failed to record login", zap.Error(err))
	}

	log.Info("admin logged in", zap.String("user_id", user.ID.String()))
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionLogin, audit.EntityAdmin, user.ID.String(), "Giriş yapıldı"))

	return &LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		Admin:       toAdminResponse(user),
	}, nil
}

// Logout revokes the presented token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, session shared.Session, input LogoutInput) error {
	if err := session.Validate(); err != nil {
		return err
	}
	if input.TokenJTI != "" && input.TTL > 0 {
		if err := s.blacklist.Revoke(ctx, input.TokenJTI, input.TTL); err != nil {
			logger.WithLogger(ctx, s.logger).Error("failed to revoke token",
				zap.String("user_id", session.UserID.String()),
				zap.Error(err),
			)
			return err
		}
	}
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionLogout, audit.EntityAdmin, session.UserID.String(), "Çıkış yapıldı"))
	return nil
}

// Me returns the admin behind the session
func (s *AuthService) Me(ctx context.Context, session shared.Session) (*AdminResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	resp := toAdminResponse(user)
	return &resp, nil
}
