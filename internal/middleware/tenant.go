package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantGuard returns middleware that ensures tenant context is present.
// It relies on AuthMiddleware having already set the tenant_id.
func TenantGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, err := GetTenantID(c)
		if err != nil || tenantID == uuid.Nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "tenant context required")
			return
		}
		c.Next()
	}
}
