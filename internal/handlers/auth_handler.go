package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/frontdesk/visitor-management-backend/internal/middleware"
	"github.com/frontdesk/visitor-management-backend/internal/models"
	"github.com/frontdesk/visitor-management-backend/internal/services"
)

// AuthHandler handles login endpoints for all three roles
type AuthHandler struct {
	authService  *services.AuthService
	auditService *services.AuditService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, auditService *services.AuditService) *AuthHandler {
	return &AuthHandler{authService: authService, auditService: auditService}
}

// GuardLoginRequest is the guard login payload. Identifier matches name,
// email, or phone.
type GuardLoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	PIN        string `json:"pin" binding:"required"`
}

// AdminLoginRequest is the tenant admin login payload
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SuperAdminLoginRequest is the super admin login payload
type SuperAdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GuardLogin handles POST /api/v1/auth/guard/login
func (h *AuthHandler) GuardLogin(c *gin.Context) {
	tenant, exists := middleware.GetTenant(c)
	if !exists {
		respondValidationError(c, "Tenant could not be resolved")
		return
	}

	var req GuardLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "identifier and pin are required")
		return
	}

	resp, err := h.authService.GuardLogin(&tenant, req.Identifier, req.PIN)
	if err != nil {
		h.recordLoginFailure(c, tenant.ID.String(), models.RoleGuard, req.Identifier)
		respondServiceError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		TenantID:    tenant.ID,
		PrincipalID: resp.Guard.ID,
		Role:        models.RoleGuard,
		Action:      services.AuditActionGuardLogin,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
	})

	c.JSON(http.StatusOK, resp)
}

// AdminLogin handles POST /api/v1/auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	tenant, exists := middleware.GetTenant(c)
	if !exists {
		respondValidationError(c, "Tenant could not be resolved")
		return
	}

	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "email and password are required")
		return
	}

	resp, err := h.authService.AdminLogin(&tenant, req.Email, req.Password)
	if err != nil {
		h.recordLoginFailure(c, tenant.ID.String(), models.RoleAdmin, req.Email)
		respondServiceError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		TenantID:    tenant.ID,
		PrincipalID: resp.Admin.ID,
		Role:        models.RoleAdmin,
		Action:      services.AuditActionAdminLogin,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
	})

	c.JSON(http.StatusOK, resp)
}

// SuperAdminLogin handles POST /api/v1/auth/superadmin/login. Not tenant
// scoped: super admins authenticate globally.
func (h *AuthHandler) SuperAdminLogin(c *gin.Context) {
	var req SuperAdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "email and password are required")
		return
	}

	resp, err := h.authService.SuperAdminLogin(req.Email, req.Password)
	if err != nil {
		h.recordLoginFailure(c, "", models.RoleSuperAdmin, req.Email)
		respondServiceError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		PrincipalID: resp.SuperAdmin.ID,
		Role:        models.RoleSuperAdmin,
		Action:      services.AuditActionSuperAdminLogin,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
	})

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) recordLoginFailure(c *gin.Context, tenant, role, identifier string) {
	logrus.WithFields(logrus.Fields{
		"tenant": tenant,
		"role":   role,
		"ip":     c.ClientIP(),
	}).Warn("login attempt failed")

	h.auditService.Record(services.AuditEvent{
		Role:      role,
		Action:    services.AuditActionLoginFailed,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		Details:   "identifier=" + identifier,
	})
}
