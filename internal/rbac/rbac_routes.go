package rbac

import (
	"workzen/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	group.Use(middleware.ExtractUserID())
	{
		group.GET("/permissions", middleware.RBACAuthorize(service, ResourceRBAC, ActionRead), handler.MyPermissions)
		group.GET("/roles", middleware.RBACAuthorize(service, ResourceRBAC, ActionRead), handler.Roles)
		group.POST("/enforce", middleware.RBACAuthorize(service, ResourceRBAC, ActionRead), handler.Enforce)
	}
}
