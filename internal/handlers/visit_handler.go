package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/middleware"
	"github.com/frontdesk/visitor-management-backend/internal/services"
)

// VisitHandler exposes the guard-facing visit lifecycle endpoints and the
// tenant-scoped approval webhook.
type VisitHandler struct {
	visitService   *services.VisitService
	visitorRepo    *database.VisitorRepository
	storageService *services.StorageService
	photoURLs      *services.PhotoURLService
	auditService   *services.AuditService
}

// NewVisitHandler creates a new visit handler
func NewVisitHandler(
	visitService *services.VisitService,
	visitorRepo *database.VisitorRepository,
	storageService *services.StorageService,
	photoURLs *services.PhotoURLService,
	auditService *services.AuditService,
) *VisitHandler {
	return &VisitHandler{
		visitService:   visitService,
		visitorRepo:    visitorRepo,
		storageService: storageService,
		photoURLs:      photoURLs,
		auditService:   auditService,
	}
}

// CheckIn handles POST /api/v1/visits/check-in. The request is multipart:
// form fields plus visitor_photo and id_card_photo files. Photos are stored
// first; the resulting keys travel with the visit row.
func (h *VisitHandler) CheckIn(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	visitorPhoto, err := c.FormFile("visitor_photo")
	if err != nil {
		respondValidationError(c, "visitor_photo file is required")
		return
	}
	idCardPhoto, err := c.FormFile("id_card_photo")
	if err != nil {
		respondValidationError(c, "id_card_photo file is required")
		return
	}

	visitorPhotoKey, err := h.storageService.SavePhoto(principal.TenantID, visitorPhoto)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	idCardPhotoKey, err := h.storageService.SavePhoto(principal.TenantID, idCardPhoto)
	if err != nil {
		h.discardPhotos(visitorPhotoKey)
		respondServiceError(c, err)
		return
	}

	input := services.CheckInInput{
		VisitorName:     c.PostForm("visitor_name"),
		VisitorEmail:    c.PostForm("visitor_email"),
		VisitorPhone:    c.PostForm("visitor_phone"),
		EmployeeEmail:   c.PostForm("employee_email"),
		VisitType:       c.PostForm("visit_type"),
		VisitorPhotoKey: visitorPhotoKey,
		IDCardPhotoKey:  idCardPhotoKey,
	}

	result, err := h.visitService.CheckIn(principal.TenantID, principal.ID, input)
	if err != nil {
		// The visit rolled back; no row references these files anymore.
		h.discardPhotos(visitorPhotoKey, idCardPhotoKey)
		respondServiceError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		TenantID:    principal.TenantID,
		PrincipalID: principal.ID,
		Role:        principal.Role,
		Action:      services.AuditActionCheckIn,
		EntityType:  "visit",
		EntityID:    result.Visit.ID,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
	})

	c.JSON(http.StatusCreated, result)
}

// CheckOut handles POST /api/v1/visits/:id/check-out
func (h *VisitHandler) CheckOut(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "invalid visit id")
		return
	}

	visit, err := h.visitService.CheckOut(principal.TenantID, principal.ID, visitID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		TenantID:    principal.TenantID,
		PrincipalID: principal.ID,
		Role:        principal.Role,
		Action:      services.AuditActionCheckOut,
		EntityType:  "visit",
		EntityID:    visit.ID,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
	})

	c.JSON(http.StatusOK, gin.H{"visit": visit})
}

// Active handles GET /api/v1/visits/active
func (h *VisitHandler) Active(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	visits, err := h.visitService.ActiveVisits(principal.TenantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"visits": visits, "count": len(visits)})
}

// Detail handles GET /api/v1/visits/:id. The visitor phone is masked; the
// raw number never reaches the guard console.
func (h *VisitHandler) Detail(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "invalid visit id")
		return
	}

	detail, err := h.visitService.VisitDetail(principal.TenantID, visitID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Photos go out as time-limited signed URLs, never bare storage keys.
	detail.VisitorPhoto = h.photoURLs.SignedPath(detail.VisitorPhoto)
	detail.IDCardPhoto = h.photoURLs.SignedPath(detail.IDCardPhoto)

	c.JSON(http.StatusOK, detail)
}

// discardPhotos best-effort removes stored photos whose visit never made it
// into the database.
func (h *VisitHandler) discardPhotos(keys ...string) {
	for _, key := range keys {
		if err := h.storageService.Remove(key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("failed to remove orphaned photo")
		}
	}
}

// SearchVisitors handles GET /api/v1/visitors/search?q=&limit=
func (h *VisitHandler) SearchVisitors(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondValidationError(c, "query parameter q is required")
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			respondValidationError(c, "limit must be between 1 and 50")
			return
		}
		limit = parsed
	}

	visitors, err := h.visitorRepo.SearchByPrefix(principal.TenantID, query, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Masked results only; search is a convenience for the guard console.
	type visitorMatch struct {
		ID          uuid.UUID `json:"id"`
		Name        string    `json:"name"`
		Email       string    `json:"email"`
		MaskedPhone string    `json:"masked_phone"`
	}

	matches := make([]visitorMatch, 0, len(visitors))
	for _, v := range visitors {
		matches = append(matches, visitorMatch{
			ID:          v.ID,
			Name:        v.Name,
			Email:       v.Email,
			MaskedPhone: services.MaskPhone(v.Phone),
		})
	}

	c.JSON(http.StatusOK, gin.H{"visitors": matches, "count": len(matches)})
}

// ApprovalRequest is the webhook payload for an approval decision
type ApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ApprovalCallback handles POST /api/v1/webhooks/visits/:id/approval. The
// transition is idempotent: a replayed delivery for a visit already decided
// answers with a conflict and changes nothing.
func (h *VisitHandler) ApprovalCallback(c *gin.Context) {
	tenant, exists := middleware.GetTenant(c)
	if !exists {
		respondValidationError(c, "Tenant could not be resolved")
		return
	}

	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "invalid visit id")
		return
	}

	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Approved == nil {
		respondValidationError(c, "approved is required and must be a boolean")
		return
	}

	visit, err := h.visitService.HandleApprovalCallback(tenant.ID, visitID, *req.Approved)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		TenantID:   tenant.ID,
		Action:     services.AuditActionApproval,
		EntityType: "visit",
		EntityID:   visit.ID,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		Details:    "approved=" + strconv.FormatBool(*req.Approved),
	})

	c.JSON(http.StatusOK, gin.H{"visit": visit})
}

// Photo handles GET /api/v1/photos/*key, serving a stored visit photo to an
// authenticated guard or admin of the owning tenant.
func (h *VisitHandler) Photo(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		respondValidationError(c, "photo key is required")
		return
	}

	// Keys are namespaced by tenant; a principal can only read its own.
	if !strings.HasPrefix(key, principal.TenantID.String()+"/") {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "Photo does not belong to this tenant",
			"code":    "TENANT_MISMATCH",
		})
		return
	}

	if err := h.photoURLs.Verify(key, c.Query("expires"), c.Query("sig")); err != nil {
		respondServiceError(c, err)
		return
	}

	path, err := h.storageService.PhotoPath(key)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=300")
	c.File(path)
}

// EndOfDay handles GET /api/v1/reports/end-of-day?date=YYYY-MM-DD. An empty
// date means today.
func (h *VisitHandler) EndOfDay(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondValidationError(c, "date must be in YYYY-MM-DD format")
			return
		}
		day = parsed
	}

	report, err := h.visitService.EndOfDayReport(principal.TenantID, day)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
