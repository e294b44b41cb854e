package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/services"
)

// respondServiceError maps service and repository sentinel errors to the
// HTTP error envelope. Unknown errors become a generic 500; the detail is
// logged, never returned.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidCredentialFormat):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})

	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Invalid credentials",
			"code":    "INVALID_CREDENTIALS",
		})

	case errors.Is(err, services.ErrInactiveAccount):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Account is inactive",
			"code":    "ACCOUNT_INACTIVE",
		})

	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Resource not found",
			"code":    "NOT_FOUND",
		})

	case errors.Is(err, database.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "conflict",
			"message": "A record with the same unique value already exists",
			"code":    "DUPLICATE_RECORD",
		})

	case errors.Is(err, database.ErrGuardHasVisits):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "conflict",
			"message": "Guard has visit history and cannot be deleted; deactivate instead",
			"code":    "GUARD_HAS_VISITS",
		})

	case errors.Is(err, services.ErrVisitNotPending):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "conflict",
			"message": "Visit is not pending approval or does not exist",
			"code":    "VISIT_NOT_PENDING",
		})

	case errors.Is(err, services.ErrPhotoURLExpired):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "Photo URL has expired",
			"code":    "PHOTO_URL_EXPIRED",
		})

	case errors.Is(err, services.ErrPhotoURLInvalid):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "Photo URL signature is invalid",
			"code":    "INVALID_PHOTO_SIGNATURE",
		})

	case errors.Is(err, services.ErrVisitNotCheckedIn):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "conflict",
			"message": "Visit is not in a checked-in state",
			"code":    "VISIT_NOT_CHECKED_IN",
		})

	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Internal server error",
			"code":    "INTERNAL_ERROR",
		})
	}
}

func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "validation_error",
		"message": message,
		"code":    "VALIDATION_ERROR",
	})
}
