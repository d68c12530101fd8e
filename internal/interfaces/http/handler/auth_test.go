package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/aidat/backend/internal/application/identity"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, req identity.LoginRequest) (*identity.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.LoginResponse), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, session shared.Session, input identity.LogoutInput) error {
	return m.Called(ctx, session, input).Error(0)
}

func (m *mockAuthService) Me(ctx context.Context, session shared.Session) (*identity.AdminResponse, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AdminResponse), args.Error(1)
}

type mockAdminService struct{ mock.Mock }

func (m *mockAdminService) CreateAdmin(ctx context.Context, session shared.Session, req identity.CreateAdminRequest) (*identity.AdminResponse, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AdminResponse), args.Error(1)
}

func (m *mockAdminService) ListAdmins(ctx context.Context, session shared.Session) ([]identity.AdminResponse, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.AdminResponse), args.Error(1)
}

func (m *mockAdminService) DeactivateAdmin(ctx context.Context, session shared.Session, id uuid.UUID) (*identity.AdminResponse, error) {
	args := m.Called(ctx, session, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AdminResponse), args.Error(1)
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		setup  func(*mockAuthService)
		status int
		code   string
	}{
		{
			name: "success",
			body: `{"email":"yonetici@example.com","password":"gizli-parola"}`,
			setup: func(m *mockAuthService) {
				m.On("Login", mock.Anything, identity.LoginRequest{Email: "yonetici@example.com", Password: "gizli-parola"}).
					Return(&identity.LoginResponse{AccessToken: "token", TokenType: "Bearer"}, nil)
			},
			status: http.StatusOK,
		},
		{
			name:   "invalid email",
			body:   `{"email":"nope","password":"x"}`,
			setup:  func(*mockAuthService) {},
			status: http.StatusBadRequest,
			code:   dto.ErrCodeValidation,
		},
		{
			name: "wrong credentials",
			body: `{"email":"yonetici@example.com","password":"yanlis"}`,
			setup: func(m *mockAuthService) {
				m.On("Login", mock.Anything, mock.Anything).
					Return(nil, shared.NewDomainError("UNAUTHORIZED", "Invalid email or password"))
			},
			status: http.StatusUnauthorized,
			code:   dto.ErrCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockAuthService)
			tt.setup(svc)
			h := NewAuthHandler(svc, new(mockAdminService))
			r := gin.New()
			r.POST("/auth/login", h.Login)

			w := perform(r, http.MethodPost, "/auth/login", tt.body)
			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decode(t, w).Error.Code)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Logout_RevokesPresentedToken(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Logout", mock.Anything, testSession(), mock.MatchedBy(func(in identity.LogoutInput) bool {
		return in.TokenJTI == "jti-1" && in.TTL > 59*time.Minute && in.TTL <= time.Hour
	})).Return(nil)

	h := NewAuthHandler(svc, new(mockAdminService))
	r := newTestEngine()
	r.POST("/auth/logout", h.Logout)

	w := perform(r, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Me(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Me", mock.Anything, testSession()).
		Return(&identity.AdminResponse{ID: testAdminID, Email: "yonetici@example.com", Role: "admin"}, nil)

	h := NewAuthHandler(svc, new(mockAdminService))
	r := newTestEngine()
	r.GET("/auth/me", h.Me)

	w := perform(r, http.MethodGet, "/auth/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, "yonetici@example.com", data["email"])
}

func TestAuthHandler_Admins(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		admins := new(mockAdminService)
		req := identity.CreateAdminRequest{Email: "yeni@example.com", Password: "uzun-parola", DisplayName: "Yeni", Role: "admin"}
		admins.On("CreateAdmin", mock.Anything, testSession(), req).
			Return(&identity.AdminResponse{ID: uuid.New(), Email: req.Email}, nil)

		h := NewAuthHandler(new(mockAuthService), admins)
		r := newTestEngine()
		r.POST("/admins", h.CreateAdmin)

		w := perform(r, http.MethodPost, "/admins", `{"email":"yeni@example.com","password":"uzun-parola","display_name":"Yeni","role":"admin"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		admins.AssertExpectations(t)
	})

	t.Run("create rejects short password", func(t *testing.T) {
		h := NewAuthHandler(new(mockAuthService), new(mockAdminService))
		r := newTestEngine()
		r.POST("/admins", h.CreateAdmin)

		w := perform(r, http.MethodPost, "/admins", `{"email":"yeni@example.com","password":"kisa","display_name":"Yeni","role":"admin"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decode(t, w).Error.Code)
	})

	t.Run("deactivate self is rejected", func(t *testing.T) {
		admins := new(mockAdminService)
		admins.On("DeactivateAdmin", mock.Anything, testSession(), testAdminID).
			Return(nil, shared.NewDomainError("INVALID_STATE", "Cannot deactivate your own account"))

		h := NewAuthHandler(new(mockAuthService), admins)
		r := newTestEngine()
		r.POST("/admins/:id/deactivate", h.DeactivateAdmin)

		w := perform(r, http.MethodPost, "/admins/"+testAdminID.String()+"/deactivate", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		admins := new(mockAdminService)
		admins.On("ListAdmins", mock.Anything, testSession()).
			Return([]identity.AdminResponse{{Email: "a@example.com"}, {Email: "b@example.com"}}, nil)

		h := NewAuthHandler(new(mockAuthService), admins)
		r := newTestEngine()
		r.GET("/admins", h.ListAdmins)

		w := perform(r, http.MethodGet, "/admins", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode(t, w).Data, 2)
	})
}
