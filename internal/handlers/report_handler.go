package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/frontdesk/visitor-management-backend/internal/middleware"
	"github.com/frontdesk/visitor-management-backend/internal/services"
)

// ReportHandler exposes admin-facing visit reports and CSV export
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ByEmployee handles GET /api/v1/reports/employee/:id
func (h *ReportHandler) ByEmployee(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "invalid employee id")
		return
	}

	visits, err := h.reportService.VisitHistoryByEmployee(principal.TenantID, employeeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"visits": visits, "count": len(visits)})
}

// Export handles GET /api/v1/reports/export?columns=&from=&to= and streams
// a CSV download. The date range defaults to the last 30 days; to is
// exclusive and extended by one day so the named end date is included.
func (h *ReportHandler) Export(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	to := time.Now().AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -31)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondValidationError(c, "from must be in YYYY-MM-DD format")
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondValidationError(c, "to must be in YYYY-MM-DD format")
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		respondValidationError(c, "from must be before to")
		return
	}

	var columns []string
	if raw := strings.TrimSpace(c.Query("columns")); raw != "" {
		for _, col := range strings.Split(raw, ",") {
			if col = strings.TrimSpace(col); col != "" {
				columns = append(columns, col)
			}
		}
	}

	filename := "visits-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.reportService.ExportCSV(c.Writer, principal.TenantID, columns, from, to); err != nil {
		// Headers may already be out; column validation runs before any
		// rows are written, so a validation error still responds cleanly.
		respondServiceError(c, err)
		return
	}
}
