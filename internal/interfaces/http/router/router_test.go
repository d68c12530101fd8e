package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aidat/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	sub := group.Group("nested", "/nested")
	sub.DELETE("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })

	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil))
	assert.Equal(t, "pong", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v2/test/nested/42", nil))
	assert.Equal(t, "42", w.Body.String())

	assert.Equal(t, "test", group.Name())
	assert.Equal(t, "/test", group.Prefix())
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	engine := gin.New()
	var order []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			order = append(order, name)
			c.Next()
		}
	}

	r := NewRouter(engine).Use(mark("api"))
	group := NewDomainGroup("g", "/g").Use(mark("group"))
	group.GET("", mark("route"), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/g", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"api", "group", "route"}, order)
}

func testHandlers() Handlers {
	return Handlers{
		Auth:         handler.NewAuthHandler(nil, nil),
		Residence:    handler.NewResidenceHandler(nil),
		Resident:     handler.NewResidentHandler(nil),
		Due:          handler.NewDueHandler(nil, nil, nil),
		Payment:      handler.NewPaymentHandler(nil),
		Finance:      handler.NewFinanceHandler(nil),
		Audit:        handler.NewAuditHandler(nil),
		Notification: handler.NewNotificationHandler(nil),
		Report:       handler.NewReportHandler(nil, nil),
		System:       handler.NewSystemHandler("test", nil),
	}
}

func TestMount_RegistersAPI(t *testing.T) {
	engine := gin.New()
	Mount(engine, testHandlers(), Guards{})

	registered := map[string]bool{}
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /health",
		"GET /api/v1/health",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/logout",
		"GET /api/v1/auth/me",
		"GET /api/v1/admins",
		"POST /api/v1/admins",
		"POST /api/v1/admins/:id/deactivate",
		"GET /api/v1/apartments",
		"GET /api/v1/apartments/:id/blocks",
		"POST /api/v1/blocks",
		"POST /api/v1/flats/:id/assign-owner",
		"POST /api/v1/flats/:id/assign-tenant",
		"GET /api/v1/flats/:id/residents",
		"GET /api/v1/flats/:id/dues",
		"GET /api/v1/residents/active",
		"POST /api/v1/residents/:id/move-out",
		"POST /api/v1/dues",
		"POST /api/v1/dues/bulk",
		"GET /api/v1/dues/overdue",
		"POST /api/v1/dues/apply-late-fees",
		"POST /api/v1/dues/:id/mark-paid",
		"GET /api/v1/dues/:id/payments",
		"POST /api/v1/payments",
		"GET /api/v1/payments/receipt/:number",
		"POST /api/v1/expenses/:id/approve",
		"POST /api/v1/expenses/:id/reject",
		"GET /api/v1/incomes",
		"GET /api/v1/audit-logs",
		"GET /api/v1/notifications/unread",
		"POST /api/v1/notifications/read-all",
		"POST /api/v1/notifications/:id/read",
		"GET /api/v1/reports/dashboard",
		"GET /api/v1/exports/dues",
		"GET /api/v1/exports/payments",
		"GET /api/v1/exports/expenses",
		"GET /api/v1/exports/incomes",
		"GET /api/v1/exports/audit-logs",
		"GET /api/v1/exports/financial-report",
		"GET /api/v1/system/jobs",
		"POST /api/v1/system/jobs/:name/run",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestMount_Guards(t *testing.T) {
	deny := func(status int) gin.HandlerFunc {
		return func(c *gin.Context) { c.AbortWithStatus(status) }
	}

	t.Run("api requires authentication", func(t *testing.T) {
		engine := gin.New()
		Mount(engine, testHandlers(), Guards{Authenticate: deny(http.StatusUnauthorized)})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dues", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("login is throttled but not authenticated", func(t *testing.T) {
		engine := gin.New()
		Mount(engine, testHandlers(), Guards{
			Authenticate:  deny(http.StatusUnauthorized),
			LoginThrottle: deny(http.StatusTooManyRequests),
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("admin management is super-admin only", func(t *testing.T) {
		engine := gin.New()
		Mount(engine, testHandlers(), Guards{SuperAdminOnly: deny(http.StatusForbidden)})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admins", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/system/jobs/late-fees/run", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
