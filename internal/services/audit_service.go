package services

import (
	"github.com/google/uuid"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/models"
)

// Audit actions
const (
	AuditActionGuardLogin      = "guard_login"
	AuditActionAdminLogin      = "admin_login"
	AuditActionSuperAdminLogin = "superadmin_login"
	AuditActionLoginFailed     = "login_failed"
	AuditActionCheckIn         = "visit_check_in"
	AuditActionCheckOut        = "visit_check_out"
	AuditActionApproval        = "visit_approval_callback"
)

// AuditService records security-relevant actions. A failed insert is
// logged and swallowed: auditing never fails the audited operation.
type AuditService struct {
	repo    *database.AuditLogRepository
	enabled bool
}

// NewAuditService creates a new audit service
func NewAuditService(repo *database.AuditLogRepository, enabled bool) *AuditService {
	return &AuditService{repo: repo, enabled: enabled}
}

// AuditEvent carries one auditable action and its request metadata
type AuditEvent struct {
	TenantID    uuid.UUID
	PrincipalID uuid.UUID
	Role        string
	Action      string
	EntityType  string
	EntityID    uuid.UUID
	IPAddress   string
	UserAgent   string
	Details     string
}

// Record stores an audit entry, summarizing the client device from the
// User-Agent header.
func (s *AuditService) Record(event AuditEvent) {
	if !s.enabled {
		return
	}

	entry := &models.AuditLog{
		Action:    event.Action,
		IPAddress: models.NewNullString(event.IPAddress),
		UserAgent: models.NewNullString(event.UserAgent),
		Device:    models.NewNullString(describeDevice(event.UserAgent)),
		Details:   models.NewNullString(event.Details),
	}
	if event.TenantID != uuid.Nil {
		entry.TenantID = uuid.NullUUID{UUID: event.TenantID, Valid: true}
	}
	if event.PrincipalID != uuid.Nil {
		entry.PrincipalID = uuid.NullUUID{UUID: event.PrincipalID, Valid: true}
	}
	if event.Role != "" {
		entry.Role = models.NewNullString(event.Role)
	}
	if event.EntityType != "" {
		entry.EntityType = models.NewNullString(event.EntityType)
	}
	if event.EntityID != uuid.Nil {
		entry.EntityID = uuid.NullUUID{UUID: event.EntityID, Valid: true}
	}

	if err := s.repo.Insert(entry); err != nil {
		logrus.WithError(err).WithField("action", event.Action).Warn("failed to write audit log entry")
	}
}

// describeDevice reduces a User-Agent string to "browser/os" for the log.
func describeDevice(uaString string) string {
	if uaString == "" {
		return ""
	}

	ua := user_agent.New(uaString)
	browser, _ := ua.Browser()
	os := ua.OS()

	switch {
	case browser != "" && os != "":
		return browser + "/" + os
	case browser != "":
		return browser
	default:
		return os
	}
}
