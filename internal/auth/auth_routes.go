package auth

import (
	"workzen/internal/middleware"
	"workzen/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, logger *zap.Logger) {
	auth := r.Group("/auth")
	auth.Use(middleware.ContextLogger(logger))
	{
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		auth.POST("/refresh", middleware.RateLimitByIP(0.2, 5), handler.RefreshToken)
		auth.POST("/logout", handler.Logout)

		auth.GET("/me",
			middleware.AuthMiddleware(),
			middleware.ExtractUserID(),
			middleware.RateLimitByUser(2, 5),
			handler.Me,
		)
		auth.POST("/register",
			middleware.AuthMiddleware(),
			middleware.ExtractUserID(),
			middleware.RateLimitByUser(0.1, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionCreate),
			handler.Register,
		)
	}
}
