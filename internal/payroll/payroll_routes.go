package payroll

import (
	"workzen/internal/middleware"
	"workzen/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	payrolls.Use(middleware.ExtractUserID())
	payrolls.Use(middleware.ContextLogger(logger))
	payrolls.Use(middleware.RateLimitByUser(rate.Limit(10), 20))
	{
		payrolls.GET("/dashboard", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionRead), handler.Dashboard)
		payrolls.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionRead), handler.List)

		markDone := []gin.HandlerFunc{middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionMark)}
		if rdb != nil {
			markDone = append(markDone, middleware.Idempotency(rdb))
		}
		payrolls.POST("/mark-done", append(markDone, handler.MarkDone)...)
		payrolls.POST("/mark-done/batch", append(markDone, handler.MarkDoneBatch)...)
		payrolls.POST("/:id/mark-paid", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionPay), handler.MarkPaid)

		employees := payrolls.Group("/employees/:employee_id")
		employees.Use(
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayslip, rbac.ActionRead),
			middleware.RBACReadScope(rbacService, rbac.ResourcePayslip),
		)
		employees.GET("/payslip", handler.GetPayslip)
		employees.GET("/payslip/pdf", handler.DownloadPayslip)
		employees.GET("/statement", handler.GetStatement)
		employees.GET("/statement/xlsx", handler.ExportStatement)
	}
}
