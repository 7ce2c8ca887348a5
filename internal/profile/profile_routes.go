package profile

import (
	"workzen/internal/middleware"
	"workzen/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	profiles := r.Group("/profiles")
	profiles.Use(middleware.AuthMiddleware())
	profiles.Use(middleware.ExtractUserID())
	profiles.Use(middleware.ContextLogger(logger))
	{
		profiles.GET("/me",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceProfile, rbac.ActionRead),
			handler.GetMine,
		)
		profiles.PUT("/me",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceProfile, rbac.ActionUpdate),
			handler.UpdateMine,
		)
		profiles.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceProfile, rbac.ActionReadAll),
			handler.GetAll,
		)
		profiles.GET("/:employee_id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceProfile, rbac.ActionRead),
			middleware.RBACReadScope(rbacService, rbac.ResourceProfile),
			handler.GetByEmployee,
		)
		profiles.PUT("/:employee_id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceProfile, rbac.ActionManage),
			handler.Upsert,
		)
	}
}
