package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/models"
)

// exportableColumns maps selectable CSV column names to value extractors.
var exportableColumns = map[string]func(e *models.VisitLogEntry) string{
	"visitor_name":   func(e *models.VisitLogEntry) string { return e.VisitorName },
	"visitor_email":  func(e *models.VisitLogEntry) string { return e.VisitorEmail },
	"visitor_phone":  func(e *models.VisitLogEntry) string { return e.VisitorPhone },
	"employee_name":  func(e *models.VisitLogEntry) string { return e.EmployeeName },
	"employee_email": func(e *models.VisitLogEntry) string { return e.EmployeeEmail },
	"check_in_guard": func(e *models.VisitLogEntry) string { return e.CheckInGuardName },
	"check_out_guard": func(e *models.VisitLogEntry) string {
		if e.CheckOutGuardName.Valid {
			return e.CheckOutGuardName.String
		}
		return ""
	},
	"status":     func(e *models.VisitLogEntry) string { return e.Status },
	"visit_type": func(e *models.VisitLogEntry) string { return e.VisitType },
	"check_in_time": func(e *models.VisitLogEntry) string {
		return e.CheckInTimestamp.Format(time.RFC3339)
	},
	"check_out_time": func(e *models.VisitLogEntry) string {
		if e.CheckOutTimestamp.Valid {
			return e.CheckOutTimestamp.Time.Format(time.RFC3339)
		}
		return ""
	},
	"approval_method": func(e *models.VisitLogEntry) string { return e.ApprovalMethod },
}

// DefaultExportColumns is the column order used when the caller selects none.
var DefaultExportColumns = []string{
	"visitor_name", "visitor_email", "visitor_phone",
	"employee_name", "status", "visit_type",
	"check_in_time", "check_out_time",
}

// ReportService produces visit reports and CSV exports. Exports are
// transient outputs, never persisted.
type ReportService struct {
	visitRepo *database.VisitRepository
}

// NewReportService creates a new report service
func NewReportService(visitRepo *database.VisitRepository) *ReportService {
	return &ReportService{visitRepo: visitRepo}
}

// VisitHistoryByEmployee returns a host's visit history, newest first.
func (s *ReportService) VisitHistoryByEmployee(tenantID, employeeID uuid.UUID) ([]models.VisitLogEntry, error) {
	return s.visitRepo.ListByEmployee(tenantID, employeeID)
}

// ExportCSV streams a CSV of visits in [from, to) with the selected
// columns. Unknown column names are rejected up front.
func (s *ReportService) ExportCSV(w io.Writer, tenantID uuid.UUID, columns []string, from, to time.Time) error {
	if len(columns) == 0 {
		columns = DefaultExportColumns
	}

	for _, col := range columns {
		if _, ok := exportableColumns[col]; !ok {
			return fmt.Errorf("%w: unknown export column %q", ErrValidation, col)
		}
	}

	entries, err := s.visitRepo.ListByDateRange(tenantID, from, to)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(columns))
	for i := range entries {
		for j, col := range columns {
			row[j] = exportableColumns[col](&entries[i])
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
