package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/models"
	"github.com/frontdesk/visitor-management-backend/pkg/jwt"
)

// PrincipalContextKey is the key used to store the acting principal in Gin context
const PrincipalContextKey = "principal"

// PrincipalContext represents the authenticated principal's information.
// TenantID is uuid.Nil for super admins.
type PrincipalContext struct {
	ID       uuid.UUID `json:"id"`
	Role     string    `json:"role"`
	TenantID uuid.UUID `json:"tenant_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
}

// PrincipalLoader re-resolves token claims against the identity store.
type PrincipalLoader interface {
	LoadPrincipal(role string, tenantID, id uuid.UUID) (*database.Principal, error)
}

// AuthMiddleware validates the bearer token, enforces the tenant binding for
// tenant-scoped roles, and reloads the principal row. The request moves
// through TenantBound -> Authenticated -> RoleChecked; any failure aborts.
func AuthMiddleware(jwtService *jwt.Service, principals PrincipalLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header is required",
				"code":    "MISSING_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid authorization header format. Expected: Bearer <token>",
				"code":    "INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Token cannot be empty",
				"code":    "INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			if jwtService.IsTokenExpired(tokenString) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "token_expired",
					"message": "Session has expired. Please log in again.",
					"code":    "TOKEN_EXPIRED",
				})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "invalid_token",
					"message": "Invalid session token",
					"code":    "INVALID_TOKEN",
				})
			}
			c.Abort()
			return
		}

		tenantID := uuid.Nil
		if claims.Role != models.RoleSuperAdmin {
			tenant, exists := GetTenant(c)
			if !exists {
				// The resolver middleware was skipped: a deployment or
				// route-ordering bug, never a client error.
				logrus.WithFields(logrus.Fields{
					"path": c.Request.URL.Path,
					"role": claims.Role,
				}).Error("tenant-scoped request reached auth middleware without a resolved tenant")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "server_misconfigured",
					"message": "Internal server error",
					"code":    "SERVER_MISCONFIGURED",
				})
				c.Abort()
				return
			}

			// The isolation boundary: a token from tenant A must not act
			// on tenant B's data even if B's subdomain is guessed.
			if claims.TenantID == nil || *claims.TenantID != tenant.ID {
				c.JSON(http.StatusForbidden, gin.H{
					"error":   "forbidden",
					"message": "Token is not valid for this tenant",
					"code":    "TENANT_MISMATCH",
				})
				c.Abort()
				return
			}

			tenantID = tenant.ID
		}

		principal, err := principals.LoadPrincipal(claims.Role, tenantID, claims.PrincipalID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Account no longer exists",
				"code":    "PRINCIPAL_NOT_FOUND",
			})
			c.Abort()
			return
		}

		if !principal.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Account is inactive",
				"code":    "ACCOUNT_INACTIVE",
			})
			c.Abort()
			return
		}

		c.Set(PrincipalContextKey, PrincipalContext{
			ID:       principal.ID,
			Role:     principal.Role,
			TenantID: principal.TenantID,
			Name:     principal.Name,
			Email:    principal.Email,
		})

		c.Next()
	}
}

// RequireRole creates a middleware that checks if the principal has one of
// the required roles. Role violations are forbidden, distinct from
// authentication failures.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, exists := GetPrincipal(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Principal context not found. Auth middleware may not be applied.",
				"code":    "MISSING_PRINCIPAL_CONTEXT",
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You don't have permission to access this resource",
			"code":    "INSUFFICIENT_PERMISSIONS",
		})
		c.Abort()
	}
}

// GetPrincipal retrieves the principal context from Gin context
func GetPrincipal(c *gin.Context) (PrincipalContext, bool) {
	value, exists := c.Get(PrincipalContextKey)
	if !exists {
		return PrincipalContext{}, false
	}

	principal, ok := value.(PrincipalContext)
	if !ok {
		return PrincipalContext{}, false
	}

	return principal, true
}

// MustGetPrincipal retrieves the principal context or panics (use only after AuthMiddleware)
func MustGetPrincipal(c *gin.Context) PrincipalContext {
	principal, exists := GetPrincipal(c)
	if !exists {
		panic("principal context not found - ensure AuthMiddleware is applied")
	}
	return principal
}
