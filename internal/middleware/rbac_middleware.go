package middleware

import (
	"net/http"

	"workzen/internal/domain"
	"workzen/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by rbac.Service; declared here to keep middleware free of rbac imports.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// RBACAuthorize rejects the request unless the caller's role may perform action on resource.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			zap.L().Named("middleware.rbac").Error("enforce failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "authorization check failed", nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to access this resource",
				gin.H{"required": resource + ":" + action},
			)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RBACReadScope sets has_read_all when the role may read every record of resource, not only
// the caller's own.
func RBACReadScope(service RBACService, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:     c.GetString("role"),
			Resource: resource,
			Action:   "read_all",
		})
		c.Set("has_read_all", err == nil && allowed)
		c.Next()
	}
}
