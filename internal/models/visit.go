package models

import (
	"time"

	"github.com/google/uuid"
)

// Visit statuses. CHECKED_OUT and DENIED are terminal.
const (
	VisitStatusCheckedIn       = "CHECKED_IN"
	VisitStatusPendingApproval = "PENDING_APPROVAL"
	VisitStatusCheckedOut      = "CHECKED_OUT"
	VisitStatusDenied          = "DENIED"
)

// Approval methods
const (
	ApprovalMethodAuto    = "AUTO_APPROVED"
	ApprovalMethodWebhook = "WEBHOOK"
)

// Visit is one visitor's stay, from check-in to a terminal outcome.
// Invariants: tenant_id equals the visitor's and employee's tenant_id, and
// actual_check_out_timestamp is set iff status is CHECKED_OUT.
type Visit struct {
	ID                      uuid.UUID     `json:"id" db:"id"`
	TenantID                uuid.UUID     `json:"tenant_id" db:"tenant_id"`
	VisitorID               uuid.UUID     `json:"visitor_id" db:"visitor_id"`
	EmployeeID              uuid.UUID     `json:"employee_id" db:"employee_id"`
	CheckInGuardID          uuid.UUID     `json:"check_in_guard_id" db:"check_in_guard_id"`
	CheckOutGuardID         uuid.NullUUID `json:"check_out_guard_id,omitempty" db:"check_out_guard_id"`
	Status                  string        `json:"status" db:"status"`
	VisitType               string        `json:"visit_type" db:"visit_type"`
	CheckInTimestamp        time.Time     `json:"check_in_timestamp" db:"check_in_timestamp"`
	ActualCheckOutTimestamp NullTime      `json:"actual_check_out_timestamp,omitempty" db:"actual_check_out_timestamp"`
	VisitorPhotoURL         string        `json:"visitor_photo_url" db:"visitor_photo_url"`
	IDCardPhotoURL          string        `json:"id_card_photo_url" db:"id_card_photo_url"`
	ApprovalMethod          string        `json:"approval_method" db:"approval_method"`
	CreatedAt               time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether no further transitions are legal.
func (v *Visit) IsTerminal() bool {
	return v.Status == VisitStatusCheckedOut || v.Status == VisitStatusDenied
}

// VisitLogEntry is a denormalized visit row for listings, reports, and CSV
// export; joined with visitor, employee, and guard names at query time.
type VisitLogEntry struct {
	VisitID           uuid.UUID  `json:"visit_id" db:"visit_id"`
	VisitorName       string     `json:"visitor_name" db:"visitor_name"`
	VisitorEmail      string     `json:"visitor_email" db:"visitor_email"`
	VisitorPhone      string     `json:"visitor_phone" db:"visitor_phone"`
	EmployeeName      string     `json:"employee_name" db:"employee_name"`
	EmployeeEmail     string     `json:"employee_email" db:"employee_email"`
	CheckInGuardName  string     `json:"check_in_guard_name" db:"check_in_guard_name"`
	CheckOutGuardName NullString `json:"check_out_guard_name,omitempty" db:"check_out_guard_name"`
	Status            string     `json:"status" db:"status"`
	VisitType         string     `json:"visit_type" db:"visit_type"`
	CheckInTimestamp  time.Time  `json:"check_in_timestamp" db:"check_in_timestamp"`
	CheckOutTimestamp NullTime   `json:"check_out_timestamp,omitempty" db:"check_out_timestamp"`
	ApprovalMethod    string     `json:"approval_method" db:"approval_method"`
}

// VisitDetail is the guard-facing detail view; the visitor phone is
// partially redacted before it leaves the service layer.
type VisitDetail struct {
	Visit        Visit    `json:"visit"`
	Visitor      Visitor  `json:"visitor"`
	Employee     Employee `json:"employee"`
	MaskedPhone  string   `json:"visitor_phone_masked"`
	VisitorPhoto string   `json:"visitor_photo_url"`
	IDCardPhoto  string   `json:"id_card_photo_url"`
}

// EndOfDayReport partitions one calendar day's visits into those still on
// premises and those that have left.
type EndOfDayReport struct {
	Date        string          `json:"date"`
	StillInside []VisitLogEntry `json:"still_inside"`
	HaveLeft    []VisitLogEntry `json:"have_left"`
}
