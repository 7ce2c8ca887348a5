package payrun

import (
	"workzen/internal/middleware"
	"workzen/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, logger *zap.Logger) {
	payruns := r.Group("/payruns")
	payruns.Use(middleware.AuthMiddleware())
	payruns.Use(middleware.ExtractUserID())
	payruns.Use(middleware.ContextLogger(logger))
	{
		payruns.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrun, rbac.ActionRead), handler.List)
		payruns.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrun, rbac.ActionRead), handler.GetByID)
		payruns.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrun, rbac.ActionCreate), handler.Open)
		payruns.POST("/:id/close", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrun, rbac.ActionUpdate), handler.Close)
	}
}
