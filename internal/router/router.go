package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"khushi/internal/auth"
	"khushi/internal/domain"
	"khushi/internal/handler"
	"khushi/internal/middleware"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health      *handler.HealthHandler
	FeeCategory *handler.FeeCategoryHandler
	ClassFee    *handler.ClassFeeHandler
	Challan     *handler.ChallanHandler
	Payment     *handler.PaymentHandler
	CashSession *handler.CashSessionHandler
	Accountant  *handler.AccountantHandler
	Stats       *handler.StatsHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(log *zap.Logger, validator auth.TokenValidator, limiter *middleware.TenantRateLimiter, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(validator))
	v1.Use(middleware.TenantGuard())
	v1.Use(limiter.Middleware())

	admin := middleware.RequireRole(domain.RoleAdmin)
	cashiers := middleware.RequireRole(domain.RoleAdmin, domain.RoleAccountant)

	categories := v1.Group("/fee-categories")
	categories.GET("", h.FeeCategory.List)
	categories.GET("/:id", h.FeeCategory.GetByID)
	categories.GET("/:id/snapshots", h.FeeCategory.ListSnapshots)
	categories.GET("/:id/classes", h.FeeCategory.ListClasses)
	categories.POST("", admin, h.FeeCategory.Create)
	categories.PATCH("/:id", admin, h.FeeCategory.Update)
	categories.POST("/:id/archive", admin, h.FeeCategory.Archive)
	categories.POST("/:id/unarchive", admin, h.FeeCategory.Unarchive)
	categories.POST("/:id/duplicate", admin, h.FeeCategory.Duplicate)
	categories.POST("/:id/snapshots", cashiers, h.FeeCategory.CreateSnapshot)
	categories.DELETE("/:id", admin, h.FeeCategory.Delete)
	v1.GET("/fee-snapshots/:id", h.FeeCategory.GetSnapshot)

	classes := v1.Group("/classes/:id")
	classes.GET("/fee-assignment", h.ClassFee.GetActive)
	classes.GET("/fee-assignment/history", h.ClassFee.History)
	classes.PUT("/fee-assignment", admin, h.ClassFee.Assign)
	classes.DELETE("/fee-assignment", admin, h.ClassFee.Remove)
	classes.GET("/challans", h.Challan.ListByClass)

	challans := v1.Group("/challans")
	challans.GET("", h.Challan.List)
	challans.GET("/:id", h.Challan.GetByID)
	challans.GET("/:id/payments", h.Challan.ListPayments)
	challans.POST("", cashiers, h.Challan.Create)
	challans.POST("/bulk", cashiers, h.Challan.CreateBulk)
	challans.PATCH("/:id", cashiers, h.Challan.Update)
	challans.DELETE("/:id", admin, h.Challan.Delete)

	payments := v1.Group("/payments")
	payments.GET("/methods", h.Payment.ListMethods)
	payments.GET("/:id", h.Payment.GetByID)
	payments.POST("", cashiers, h.Payment.Record)
	payments.PATCH("/:id", admin, h.Payment.Update)
	payments.DELETE("/:id", admin, h.Payment.Delete)

	students := v1.Group("/students/:id")
	students.GET("/challans", h.Challan.ListByStudent)
	students.GET("/payments", h.Payment.ListByStudent)
	students.GET("/payment-summary", h.Payment.StudentSummary)

	sessions := v1.Group("/cash-sessions", cashiers)
	sessions.GET("/current", h.CashSession.Current)
	sessions.GET("/history", h.CashSession.History)
	sessions.GET("/active", admin, h.CashSession.ListActive)
	sessions.GET("/:id", h.CashSession.GetByID)
	sessions.GET("/:id/summary", h.CashSession.Summary)
	sessions.GET("/:id/transactions", h.CashSession.ListTransactions)
	sessions.POST("/:id/transactions", h.CashSession.RecordTransaction)
	sessions.POST("/:id/close", h.CashSession.Close)

	accountant := v1.Group("/accountant", cashiers)
	accountant.GET("/profile", h.Accountant.GetProfile)
	accountant.GET("/transactions", h.Accountant.ListTransactions)
	accountant.GET("/daily-summary", h.Accountant.DailySummary)
	accountant.POST("/transactions", admin, h.Accountant.RecordMovement)
	accountant.PUT("/opening-balance", admin, h.Accountant.SetOpeningBalance)
	accountant.POST("/daily-summaries/:id/verify", admin, h.Accountant.VerifySummary)

	v1.GET("/fee-stats", cashiers, h.Stats.GetFeeStats)

	return r
}
