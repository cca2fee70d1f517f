package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-procurement-backend/internal/delivery/http/response"
	"go-procurement-backend/internal/domain"
	"go-procurement-backend/pkg/token"
)

// AuthMiddleware verifies the bearer token and loads the identity into the
// request context. The role is re-read from the database so a stale token
// cannot carry a revoked or changed role.
func AuthMiddleware(tokens *token.Manager, userRepo domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "Authorization bearer token required", nil)
			c.Abort()
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token", nil)
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "User not found", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserRole), string(user.Role))

		c.Next()
	}
}

// RequireMinistry restricts a route to the ministry family of roles.
func RequireMinistry() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(string(domain.KeyUserRole)))
		if !role.IsMinistry() {
			response.Error(c, http.StatusForbidden, "Ministry role required", gin.H{
				"allowedRoles": domain.MinistryRoles,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireEntreprise restricts a route to entreprise accounts.
func RequireEntreprise() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(string(domain.KeyUserRole)))
		if role != domain.RoleEntreprise {
			response.Error(c, http.StatusForbidden, "Entreprise role required", gin.H{
				"allowedRoles": []domain.Role{domain.RoleEntreprise},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id set by AuthMiddleware.
func UserID(c *gin.Context) int64 {
	v, _ := c.Get(string(domain.KeyUserID))
	id, _ := v.(int64)
	return id
}

// UserRole returns the authenticated role set by AuthMiddleware.
func UserRole(c *gin.Context) domain.Role {
	return domain.Role(c.GetString(string(domain.KeyUserRole)))
}
