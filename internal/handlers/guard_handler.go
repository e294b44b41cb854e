package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/middleware"
	"github.com/frontdesk/visitor-management-backend/internal/models"
	"github.com/frontdesk/visitor-management-backend/internal/services"
)

// GuardHandler exposes admin-facing guard management
type GuardHandler struct {
	guardRepo   *database.GuardRepository
	credentials *services.CredentialService
}

// NewGuardHandler creates a new guard handler
func NewGuardHandler(guardRepo *database.GuardRepository, credentials *services.CredentialService) *GuardHandler {
	return &GuardHandler{guardRepo: guardRepo, credentials: credentials}
}

// CreateGuardRequest is the guard creation payload
type CreateGuardRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
	PIN   string `json:"pin" binding:"required"`
}

// UpdateGuardRequest is the guard update payload. An empty PIN keeps the
// existing hash.
type UpdateGuardRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	PIN      string `json:"pin"`
	IsActive *bool  `json:"is_active" binding:"required"`
}

// List handles GET /api/v1/guards
func (h *GuardHandler) List(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	guards, err := h.guardRepo.ListByTenant(principal.TenantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"guards": guards, "count": len(guards)})
}

// Get handles GET /api/v1/guards/:id
func (h *GuardHandler) Get(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "invalid guard id")
		return
	}

	guard, err := h.guardRepo.GetByID(principal.TenantID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"guard": guard})
}

// Create handles POST /api/v1/guards. The PIN is validated and hashed
// before it ever reaches the repository.
func (h *GuardHandler) Create(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	var req CreateGuardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "name and pin are required")
		return
	}

	if err := services.ValidateOptionalPhone(req.Phone); err != nil {
		respondServiceError(c, err)
		return
	}

	pinHash, err := h.credentials.HashPIN(req.PIN)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	guard := &models.Guard{
		TenantID: principal.TenantID,
		Name:     strings.TrimSpace(req.Name),
		Email:    models.NewNullString(strings.ToLower(strings.TrimSpace(req.Email))),
		Phone:    models.NewNullString(req.Phone),
		PINHash:  pinHash,
		IsActive: true,
	}

	if err := h.guardRepo.Create(guard); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"guard": guard})
}

// Update handles PUT /api/v1/guards/:id. The stored PIN hash only changes
// when a new PIN is supplied.
func (h *GuardHandler) Update(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "invalid guard id")
		return
	}

	var req UpdateGuardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "name and is_active are required")
		return
	}

	if err := services.ValidateOptionalPhone(req.Phone); err != nil {
		respondServiceError(c, err)
		return
	}

	guard, err := h.guardRepo.GetByID(principal.TenantID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	guard.Name = strings.TrimSpace(req.Name)
	guard.Email = models.NewNullString(strings.ToLower(strings.TrimSpace(req.Email)))
	guard.Phone = models.NewNullString(req.Phone)
	guard.IsActive = *req.IsActive

	if req.PIN != "" {
		pinHash, err := h.credentials.HashPIN(req.PIN)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		guard.PINHash = pinHash
	}

	if err := h.guardRepo.Update(guard); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"guard": guard})
}

// Delete handles DELETE /api/v1/guards/:id. Guards with visit history
// cannot be deleted, only deactivated.
func (h *GuardHandler) Delete(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "invalid guard id")
		return
	}

	if err := h.guardRepo.Delete(principal.TenantID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Guard deleted"})
}
