package router

import (
	"github.com/aidat/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler served under the API prefix
type Handlers struct {
	Auth         *handler.AuthHandler
	Residence    *handler.ResidenceHandler
	Resident     *handler.ResidentHandler
	Due          *handler.DueHandler
	Payment      *handler.PaymentHandler
	Finance      *handler.FinanceHandler
	Audit        *handler.AuditHandler
	Notification *handler.NotificationHandler
	Report       *handler.ReportHandler
	System       *handler.SystemHandler
}

// Guards are the access checks applied to route groups
type Guards struct {
	// Authenticate validates the bearer token of every API request
	Authenticate gin.HandlerFunc
	// LoginThrottle limits login attempts per client
	LoginThrottle gin.HandlerFunc
	// SuperAdminOnly restricts admin account management and job control
	SuperAdminOnly gin.HandlerFunc
}

// Mount registers the health endpoint and the versioned API on the engine
func Mount(engine *gin.Engine, h Handlers, g Guards) {
	engine.GET("/health", h.System.Health)
	engine.GET("/api/v1/health", h.System.Health)

	// login has no token yet; it is mounted beside the authenticated group
	engine.POST("/api/v1/auth/login", chain(g.LoginThrottle, h.Auth.Login)...)

	r := NewRouter(engine, WithAPIVersion("v1"))
	if g.Authenticate != nil {
		r.Use(g.Authenticate)
	}
	for _, group := range domainGroups(h, g) {
		r.Register(group)
	}
	r.Setup()
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, fn := range handlers {
		if fn != nil {
			out = append(out, fn)
		}
	}
	return out
}

func domainGroups(h Handlers, g Guards) []*DomainGroup {
	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/me", h.Auth.Me)

	adminRoutes := NewDomainGroup("admins", "/admins")
	adminRoutes.GET("", h.Auth.ListAdmins)
	adminRoutes.POST("", chain(g.SuperAdminOnly, h.Auth.CreateAdmin)...)
	adminRoutes.POST("/:id/deactivate", chain(g.SuperAdminOnly, h.Auth.DeactivateAdmin)...)

	apartmentRoutes := NewDomainGroup("apartments", "/apartments")
	apartmentRoutes.GET("", h.Residence.ListApartments)
	apartmentRoutes.POST("", h.Residence.CreateApartment)
	apartmentRoutes.GET("/:id", h.Residence.GetApartment)
	apartmentRoutes.PUT("/:id", h.Residence.UpdateApartment)
	apartmentRoutes.DELETE("/:id", h.Residence.DeleteApartment)
	apartmentRoutes.GET("/:id/blocks", h.Residence.ListBlocks)

	blockRoutes := NewDomainGroup("blocks", "/blocks")
	blockRoutes.POST("", h.Residence.CreateBlock)
	blockRoutes.GET("/:id", h.Residence.GetBlock)
	blockRoutes.PUT("/:id", h.Residence.UpdateBlock)
	blockRoutes.DELETE("/:id", h.Residence.DeleteBlock)

	flatRoutes := NewDomainGroup("flats", "/flats")
	flatRoutes.GET("", h.Residence.ListFlats)
	flatRoutes.POST("", h.Residence.CreateFlat)
	flatRoutes.GET("/:id", h.Residence.GetFlat)
	flatRoutes.PUT("/:id", h.Residence.UpdateFlat)
	flatRoutes.DELETE("/:id", h.Residence.DeleteFlat)
	flatRoutes.POST("/:id/assign-owner", h.Residence.AssignOwner)
	flatRoutes.POST("/:id/assign-tenant", h.Residence.AssignTenant)
	flatRoutes.GET("/:id/residents", h.Resident.ListByFlat)
	flatRoutes.GET("/:id/dues", h.Due.FlatDues)

	residentRoutes := NewDomainGroup("residents", "/residents")
	residentRoutes.GET("", h.Resident.ListResidents)
	residentRoutes.POST("", h.Resident.CreateResident)
	residentRoutes.GET("/active", h.Resident.ListActive)
	residentRoutes.GET("/:id", h.Resident.GetResident)
	residentRoutes.PUT("/:id", h.Resident.UpdateResident)
	residentRoutes.DELETE("/:id", h.Resident.DeleteResident)
	residentRoutes.POST("/:id/move-out", h.Resident.MoveOut)

	dueRoutes := NewDomainGroup("dues", "/dues")
	dueRoutes.GET("", h.Due.ListDues)
	dueRoutes.POST("", h.Due.CreateDue)
	dueRoutes.POST("/bulk", h.Due.BulkCreateDues)
	dueRoutes.GET("/overdue", h.Due.ListOverdue)
	dueRoutes.POST("/apply-late-fees", h.Due.ApplyLateFees)
	dueRoutes.GET("/:id", h.Due.GetDue)
	dueRoutes.PUT("/:id", h.Due.UpdateDue)
	dueRoutes.POST("/:id/mark-paid", h.Due.MarkAsPaid)
	dueRoutes.GET("/:id/payments", h.Due.ListPayments)

	paymentRoutes := NewDomainGroup("payments", "/payments")
	paymentRoutes.GET("", h.Payment.ListPayments)
	paymentRoutes.POST("", h.Payment.RecordPayment)
	paymentRoutes.GET("/receipt/:number", h.Payment.GetByReceipt)
	paymentRoutes.GET("/:id", h.Payment.GetPayment)

	expenseRoutes := NewDomainGroup("expenses", "/expenses")
	expenseRoutes.GET("", h.Finance.ListExpenses)
	expenseRoutes.POST("", h.Finance.CreateExpense)
	expenseRoutes.GET("/:id", h.Finance.GetExpense)
	expenseRoutes.PUT("/:id", h.Finance.UpdateExpense)
	expenseRoutes.DELETE("/:id", h.Finance.DeleteExpense)
	expenseRoutes.POST("/:id/approve", h.Finance.ApproveExpense)
	expenseRoutes.POST("/:id/reject", h.Finance.RejectExpense)

	incomeRoutes := NewDomainGroup("incomes", "/incomes")
	incomeRoutes.GET("", h.Finance.ListIncomes)
	incomeRoutes.POST("", h.Finance.CreateIncome)
	incomeRoutes.GET("/:id", h.Finance.GetIncome)
	incomeRoutes.PUT("/:id", h.Finance.UpdateIncome)
	incomeRoutes.DELETE("/:id", h.Finance.DeleteIncome)

	auditRoutes := NewDomainGroup("audit", "/audit-logs")
	auditRoutes.GET("", h.Audit.List)

	notificationRoutes := NewDomainGroup("notifications", "/notifications")
	notificationRoutes.GET("", h.Notification.List)
	notificationRoutes.POST("", h.Notification.Create)
	notificationRoutes.GET("/unread", h.Notification.ListUnread)
	notificationRoutes.POST("/read-all", h.Notification.MarkAllAsRead)
	notificationRoutes.POST("/:id/read", h.Notification.MarkAsRead)

	reportRoutes := NewDomainGroup("reports", "/reports")
	reportRoutes.GET("/dashboard", h.Report.Dashboard)

	exportRoutes := NewDomainGroup("exports", "/exports")
	exportRoutes.GET("/dues", h.Report.ExportDues)
	exportRoutes.GET("/payments", h.Report.ExportPayments)
	exportRoutes.GET("/expenses", h.Report.ExportExpenses)
	exportRoutes.GET("/incomes", h.Report.ExportIncomes)
	exportRoutes.GET("/audit-logs", h.Report.ExportAuditLogs)
	exportRoutes.GET("/financial-report", h.Report.ExportFinancialReport)

	systemRoutes := NewDomainGroup("system", "/system")
	systemRoutes.GET("/jobs", chain(g.SuperAdminOnly, h.System.ListJobs)...)
	systemRoutes.POST("/jobs/:name/run", chain(g.SuperAdminOnly, h.System.RunJob)...)

	return []*DomainGroup{
		authRoutes, adminRoutes,
		apartmentRoutes, blockRoutes, flatRoutes, residentRoutes,
		dueRoutes, paymentRoutes,
		expenseRoutes, incomeRoutes,
		auditRoutes, notificationRoutes,
		reportRoutes, exportRoutes,
		systemRoutes,
	}
}
