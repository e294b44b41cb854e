package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/middleware"
	"github.com/frontdesk/visitor-management-backend/internal/services"
)

// EmployeeHandler exposes admin-facing host employee management
type EmployeeHandler struct {
	employeeService *services.EmployeeService
	employeeRepo    *database.EmployeeRepository
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *services.EmployeeService, employeeRepo *database.EmployeeRepository) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService, employeeRepo: employeeRepo}
}

// List handles GET /api/v1/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	employees, err := h.employeeRepo.ListByTenant(principal.TenantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employees": employees, "count": len(employees)})
}

// Get handles GET /api/v1/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "invalid employee id")
		return
	}

	employee, err := h.employeeRepo.GetByID(principal.TenantID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employee": employee})
}

// Create handles POST /api/v1/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	var input services.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, "name and a valid email are required")
		return
	}

	employee, err := h.employeeService.Create(principal.TenantID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"employee": employee})
}

// Update handles PUT /api/v1/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "invalid employee id")
		return
	}

	var input services.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, "name and a valid email are required")
		return
	}

	employee, err := h.employeeService.Update(principal.TenantID, id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employee": employee})
}

// Delete handles DELETE /api/v1/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "invalid employee id")
		return
	}

	if err := h.employeeRepo.Delete(principal.TenantID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted"})
}

// BulkUpload handles POST /api/v1/employees/bulk-upload with a multipart
// "file" field containing the CSV.
func (h *EmployeeHandler) BulkUpload(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondValidationError(c, "a CSV file upload named file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer file.Close()

	result, err := h.employeeService.BulkUpload(principal.TenantID, file)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}
