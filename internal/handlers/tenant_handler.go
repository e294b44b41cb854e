package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/models"
	"github.com/frontdesk/visitor-management-backend/internal/services"
)

// TenantHandler exposes the public tenant directory and the super-admin
// provisioning surface (tenants and their admins).
type TenantHandler struct {
	tenantRepo  *database.TenantRepository
	adminRepo   *database.AdminRepository
	credentials *services.CredentialService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(
	tenantRepo *database.TenantRepository,
	adminRepo *database.AdminRepository,
	credentials *services.CredentialService,
) *TenantHandler {
	return &TenantHandler{tenantRepo: tenantRepo, adminRepo: adminRepo, credentials: credentials}
}

// TenantRequest carries tenant create/update fields
type TenantRequest struct {
	Name      string `json:"name" binding:"required"`
	Subdomain string `json:"subdomain" binding:"required"`
	IsActive  *bool  `json:"is_active"`
}

// AdminRequest carries tenant-admin create/update fields. Password is
// required on create and optional on update.
type AdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ListActive handles GET /api/v1/tenants/active, the public directory the
// login screens use to resolve a workspace.
func (h *TenantHandler) ListActive(c *gin.Context) {
	tenants, err := h.tenantRepo.ListActive()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Public view: names and subdomains only.
	type publicTenant struct {
		Name      string `json:"name"`
		Subdomain string `json:"subdomain"`
	}

	visible := make([]publicTenant, 0, len(tenants))
	for _, t := range tenants {
		visible = append(visible, publicTenant{Name: t.Name, Subdomain: t.Subdomain})
	}

	c.JSON(http.StatusOK, gin.H{"tenants": visible, "count": len(visible)})
}

// List handles GET /api/v1/admin/tenants (super admin)
func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.tenantRepo.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenants": tenants, "count": len(tenants)})
}

// Get handles GET /api/v1/admin/tenants/:tenantId
func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		respondValidationError(c, "invalid tenant id")
		return
	}

	tenant, err := h.tenantRepo.GetByID(tenantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenant": tenant})
}

// Create handles POST /api/v1/admin/tenants
func (h *TenantHandler) Create(c *gin.Context) {
	var req TenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "name and subdomain are required")
		return
	}

	subdomain := normalizeSubdomain(req.Subdomain)
	if subdomain == "" {
		respondValidationError(c, "subdomain must contain lowercase letters, digits, or hyphens")
		return
	}

	tenant, err := h.tenantRepo.Create(strings.TrimSpace(req.Name), subdomain)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tenant": tenant})
}

// Update handles PUT /api/v1/admin/tenants/:tenantId
func (h *TenantHandler) Update(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		respondValidationError(c, "invalid tenant id")
		return
	}

	var req TenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "name and subdomain are required")
		return
	}

	subdomain := normalizeSubdomain(req.Subdomain)
	if subdomain == "" {
		respondValidationError(c, "subdomain must contain lowercase letters, digits, or hyphens")
		return
	}

	tenant, err := h.tenantRepo.GetByID(tenantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tenant.Name = strings.TrimSpace(req.Name)
	tenant.Subdomain = subdomain
	if req.IsActive != nil {
		tenant.IsActive = *req.IsActive
	}

	if err := h.tenantRepo.Update(tenant); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenant": tenant})
}

// Delete handles DELETE /api/v1/admin/tenants/:tenantId. Tenant-owned rows
// cascade away with the tenant.
func (h *TenantHandler) Delete(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		respondValidationError(c, "invalid tenant id")
		return
	}

	if err := h.tenantRepo.Delete(tenantID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tenant deleted"})
}

// ListAdmins handles GET /api/v1/admin/tenants/:tenantId/admins
func (h *TenantHandler) ListAdmins(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		respondValidationError(c, "invalid tenant id")
		return
	}

	admins, err := h.adminRepo.ListByTenant(tenantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"admins": admins, "count": len(admins)})
}

// CreateAdmin handles POST /api/v1/admin/tenants/:tenantId/admins
func (h *TenantHandler) CreateAdmin(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		respondValidationError(c, "invalid tenant id")
		return
	}

	// Admins can only be created for existing tenants.
	if _, err := h.tenantRepo.GetByID(tenantID); err != nil {
		respondServiceError(c, err)
		return
	}

	var req AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "name and a valid email are required")
		return
	}
	if req.Password == "" {
		respondValidationError(c, "password is required")
		return
	}

	name := strings.TrimSpace(req.Name)
	if err := services.ValidateAdminName(name); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := services.ValidateOptionalPhone(req.Phone); err != nil {
		respondServiceError(c, err)
		return
	}

	passwordHash, err := h.credentials.HashPassword(req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	admin := &models.Admin{
		TenantID:     tenantID,
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        models.NewNullString(req.Phone),
		PasswordHash: passwordHash,
	}

	if err := h.adminRepo.Create(admin); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"admin": admin})
}

// UpdateAdmin handles PUT /api/v1/admin/tenants/:tenantId/admins/:id. An
// empty password keeps the stored hash.
func (h *TenantHandler) UpdateAdmin(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		respondValidationError(c, "invalid tenant id")
		return
	}

	adminID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "invalid admin id")
		return
	}

	var req AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "name and a valid email are required")
		return
	}

	name := strings.TrimSpace(req.Name)
	if err := services.ValidateAdminName(name); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := services.ValidateOptionalPhone(req.Phone); err != nil {
		respondServiceError(c, err)
		return
	}

	admin, err := h.adminRepo.GetByID(tenantID, adminID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	admin.Name = name
	admin.Email = strings.ToLower(strings.TrimSpace(req.Email))
	admin.Phone = models.NewNullString(req.Phone)

	if req.Password != "" {
		passwordHash, err := h.credentials.HashPassword(req.Password)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		admin.PasswordHash = passwordHash
	}

	if err := h.adminRepo.Update(admin); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"admin": admin})
}

// DeleteAdmin handles DELETE /api/v1/admin/tenants/:tenantId/admins/:id
func (h *TenantHandler) DeleteAdmin(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		respondValidationError(c, "invalid tenant id")
		return
	}

	adminID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "invalid admin id")
		return
	}

	if err := h.adminRepo.Delete(tenantID, adminID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted"})
}

// normalizeSubdomain lowercases and validates a subdomain label
func normalizeSubdomain(subdomain string) string {
	s := strings.ToLower(strings.TrimSpace(subdomain))
	if s == "" {
		return ""
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return ""
		}
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return ""
	}
	return s
}
