package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/models"
)

// VisitService is the visit lifecycle engine: it owns the state machine
// from check-in through check-out or denial, and the linkage between
// visitor, host employee, and acting guard.
type VisitService struct {
	db           database.DB
	visitRepo    *database.VisitRepository
	visitorRepo  *database.VisitorRepository
	employeeRepo *database.EmployeeRepository
	autoApprove  bool
}

// NewVisitService creates a new visit service
func NewVisitService(
	db database.DB,
	visitRepo *database.VisitRepository,
	visitorRepo *database.VisitorRepository,
	employeeRepo *database.EmployeeRepository,
	autoApprove bool,
) *VisitService {
	return &VisitService{
		db:           db,
		visitRepo:    visitRepo,
		visitorRepo:  visitorRepo,
		employeeRepo: employeeRepo,
		autoApprove:  autoApprove,
	}
}

// CheckInInput carries the guard-submitted check-in form. The photo fields
// are opaque storage keys; the engine does not validate their content.
type CheckInInput struct {
	VisitorName     string
	VisitorEmail    string
	VisitorPhone    string
	EmployeeEmail   string
	VisitType       string
	VisitorPhotoKey string
	IDCardPhotoKey  string
}

// CheckInResult is the outcome of a successful check-in
type CheckInResult struct {
	Visit          *models.Visit   `json:"visit"`
	Visitor        *models.Visitor `json:"visitor"`
	VisitorCreated bool            `json:"visitor_created"`
}

func (in *CheckInInput) validate() error {
	switch {
	case strings.TrimSpace(in.VisitorName) == "":
		return fmt.Errorf("%w: visitor name is required", ErrValidation)
	case strings.TrimSpace(in.VisitorEmail) == "":
		return fmt.Errorf("%w: visitor email is required", ErrValidation)
	case strings.TrimSpace(in.VisitorPhone) == "":
		return fmt.Errorf("%w: visitor phone is required", ErrValidation)
	case strings.TrimSpace(in.EmployeeEmail) == "":
		return fmt.Errorf("%w: host employee email is required", ErrValidation)
	case in.VisitorPhotoKey == "":
		return fmt.Errorf("%w: visitor photo is required", ErrValidation)
	case in.IDCardPhotoKey == "":
		return fmt.Errorf("%w: ID card photo is required", ErrValidation)
	}
	return nil
}

// CheckIn creates a visit. Visitor find-or-create, host lookup, and visit
// insert run in one transaction: a missing host rolls back everything and
// leaves no partial visitor or visit row. Under the auto-approve policy the
// visit enters CHECKED_IN directly; otherwise it waits in PENDING_APPROVAL
// for the approval callback.
func (s *VisitService) CheckIn(tenantID, actingGuardID uuid.UUID, input CheckInInput) (*CheckInResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	employee, err := s.employeeRepo.GetByEmailTx(tx, tenantID, input.EmployeeEmail)
	if err != nil {
		return nil, err
	}

	visitor, created, err := s.visitorRepo.FindOrCreateTx(tx, tenantID, input.VisitorName, input.VisitorEmail, input.VisitorPhone)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	visit := &models.Visit{
		ID:               uuid.New(),
		TenantID:         tenantID,
		VisitorID:        visitor.ID,
		EmployeeID:       employee.ID,
		CheckInGuardID:   actingGuardID,
		VisitType:        input.VisitType,
		CheckInTimestamp: now,
		VisitorPhotoURL:  input.VisitorPhotoKey,
		IDCardPhotoURL:   input.IDCardPhotoKey,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if s.autoApprove {
		visit.Status = models.VisitStatusCheckedIn
		visit.ApprovalMethod = models.ApprovalMethodAuto
	} else {
		visit.Status = models.VisitStatusPendingApproval
		visit.ApprovalMethod = models.ApprovalMethodWebhook
	}

	if err := s.visitRepo.CreateTx(tx, visit); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit check-in: %w", err)
	}

	return &CheckInResult{
		Visit:          visit,
		Visitor:        visitor,
		VisitorCreated: created,
	}, nil
}

// CheckOut transitions a visit from CHECKED_IN to CHECKED_OUT, recording
// the acting guard and the checkout time. The source state is enforced:
// checking out a visit in any other state is rejected rather than silently
// overwriting checkout fields.
func (s *VisitService) CheckOut(tenantID, actingGuardID, visitID uuid.UUID) (*models.Visit, error) {
	moved, err := s.visitRepo.CheckOut(tenantID, visitID, actingGuardID, time.Now())
	if err != nil {
		return nil, err
	}

	if !moved {
		// Distinguish a missing visit from an illegal transition.
		if _, gerr := s.visitRepo.GetByID(tenantID, visitID); gerr != nil {
			return nil, gerr
		}
		return nil, ErrVisitNotCheckedIn
	}

	return s.visitRepo.GetByID(tenantID, visitID)
}

// HandleApprovalCallback applies an external approval decision. The
// transition is only legal from PENDING_APPROVAL; a callback for a visit in
// any other state (including a replayed delivery) is reported as not
// pending and changes nothing.
func (s *VisitService) HandleApprovalCallback(tenantID, visitID uuid.UUID, approved bool) (*models.Visit, error) {
	newStatus := models.VisitStatusDenied
	if approved {
		newStatus = models.VisitStatusCheckedIn
	}

	moved, err := s.visitRepo.UpdateStatusFromPending(tenantID, visitID, newStatus)
	if err != nil {
		return nil, err
	}

	if !moved {
		return nil, ErrVisitNotPending
	}

	return s.visitRepo.GetByID(tenantID, visitID)
}

// ActiveVisits returns CHECKED_IN visits, oldest check-in first.
func (s *VisitService) ActiveVisits(tenantID uuid.UUID) ([]models.VisitLogEntry, error) {
	return s.visitRepo.ListActive(tenantID)
}

// VisitDetail returns the guard-facing detail view. The visitor phone is
// redacted here because the masking depends on the raw value, which never
// leaves the service layer unmasked.
func (s *VisitService) VisitDetail(tenantID, visitID uuid.UUID) (*models.VisitDetail, error) {
	visit, err := s.visitRepo.GetByID(tenantID, visitID)
	if err != nil {
		return nil, err
	}

	visitor, err := s.visitorRepo.GetByID(tenantID, visit.VisitorID)
	if err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.GetByID(tenantID, visit.EmployeeID)
	if err != nil {
		return nil, err
	}

	return &models.VisitDetail{
		Visit:        *visit,
		Visitor:      *visitor,
		Employee:     *employee,
		MaskedPhone:  MaskPhone(visitor.Phone),
		VisitorPhoto: visit.VisitorPhotoURL,
		IDCardPhoto:  visit.IDCardPhotoURL,
	}, nil
}

// EndOfDayReport partitions one calendar day's visits into "still inside"
// (CHECKED_IN or PENDING_APPROVAL) and "have left" (CHECKED_OUT or DENIED).
func (s *VisitService) EndOfDayReport(tenantID uuid.UUID, day time.Time) (*models.EndOfDayReport, error) {
	entries, err := s.visitRepo.ListByDay(tenantID, day)
	if err != nil {
		return nil, err
	}

	report := &models.EndOfDayReport{
		Date:        day.Format("2006-01-02"),
		StillInside: []models.VisitLogEntry{},
		HaveLeft:    []models.VisitLogEntry{},
	}

	for _, entry := range entries {
		switch entry.Status {
		case models.VisitStatusCheckedIn, models.VisitStatusPendingApproval:
			report.StillInside = append(report.StillInside, entry)
		case models.VisitStatusCheckedOut, models.VisitStatusDenied:
			report.HaveLeft = append(report.HaveLeft, entry)
		}
	}

	return report, nil
}

// MaskPhone redacts a phone number to its first three and last two digits.
func MaskPhone(phone string) string {
	if len(phone) < 6 {
		return strings.Repeat("*", len(phone))
	}
	return phone[:3] + strings.Repeat("*", len(phone)-5) + phone[len(phone)-2:]
}
