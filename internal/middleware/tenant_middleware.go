package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/models"
)

// TenantContextKey is the key used to store the resolved tenant in Gin context
const TenantContextKey = "tenant"

// TenantSubdomainHeader carries an explicit subdomain override, used in
// development and testing where the request host has no tenant label.
const TenantSubdomainHeader = "X-Tenant-Subdomain"

// TenantMiddleware resolves the request's tenant from the override header or
// the hostname's first label, and attaches it to the context. It must run
// before any tenant-scoped authorization check.
func TenantMiddleware(tenantRepo *database.TenantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		subdomain := strings.TrimSpace(c.GetHeader(TenantSubdomainHeader))
		if subdomain == "" {
			subdomain = subdomainFromHost(c.Request.Host)
		}

		if subdomain == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "tenant_not_identified",
				"message": "Unable to determine tenant from request",
				"code":    "TENANT_NOT_IDENTIFIED",
			})
			c.Abort()
			return
		}

		tenant, err := tenantRepo.GetBySubdomain(subdomain)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "tenant_not_found",
				"message": "No tenant matches this subdomain",
				"code":    "TENANT_NOT_FOUND",
			})
			c.Abort()
			return
		}

		c.Set(TenantContextKey, *tenant)
		c.Next()
	}
}

// subdomainFromHost extracts the tenant label from a production hostname
// like acme.visitors.example.com. Hosts with fewer than three labels
// (localhost, bare domains) carry no tenant.
func subdomainFromHost(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	labels := strings.Split(host, ".")
	if len(labels) < 3 {
		return ""
	}

	return labels[0]
}

// GetTenant retrieves the resolved tenant from Gin context
func GetTenant(c *gin.Context) (models.Tenant, bool) {
	value, exists := c.Get(TenantContextKey)
	if !exists {
		return models.Tenant{}, false
	}

	tenant, ok := value.(models.Tenant)
	if !ok {
		return models.Tenant{}, false
	}

	return tenant, true
}
