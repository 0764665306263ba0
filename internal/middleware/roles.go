package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// RequireRoles aborts with 403 unless the authenticated caller holds one of roles.
// Must run after AuthMiddleware.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRoleFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !slices.Contains(roles, role) {
			GetLoggerFromCtx(c.Request.Context()).Warn("Role not permitted for route",
				slog.String("role", string(role)),
				slog.String("route", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
			return
		}
		c.Next()
	}
}

// RequireSelfOrRoles lets an account act on its own :accountID path parameter, or any caller
// holding one of roles act on any account.
func RequireSelfOrRoles(param string, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if userID == c.Param(param) {
			c.Next()
			return
		}
		RequireRoles(roles...)(c)
	}
}
