package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/models"
	"github.com/frontdesk/visitor-management-backend/pkg/jwt"
)

type fakePrincipalLoader struct {
	principal *database.Principal
	err       error
}

func (f *fakePrincipalLoader) LoadPrincipal(role string, tenantID, id uuid.UUID) (*database.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.principal, nil
}

func setupAuthRouter(jwtService *jwt.Service, loader PrincipalLoader, tenant *models.Tenant, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := []gin.HandlerFunc{}
	if tenant != nil {
		handlers = append(handlers, func(c *gin.Context) {
			c.Set(TenantContextKey, *tenant)
			c.Next()
		})
	}
	handlers = append(handlers, AuthMiddleware(jwtService, loader))
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		principal := MustGetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"principal_id": principal.ID})
	})

	router.GET("/protected", handlers...)
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)

	tenantID := uuid.New()
	tenant := &models.Tenant{ID: tenantID, Name: "Acme", Subdomain: "acme", IsActive: true}

	guardID := uuid.New()
	loader := &fakePrincipalLoader{principal: &database.Principal{
		ID:       guardID,
		Role:     models.RoleGuard,
		TenantID: tenantID,
		Name:     "Gate Guard",
		IsActive: true,
	}}

	guardToken := func(forTenant uuid.UUID) string {
		token, err := jwtService.GenerateToken(guardID, models.RoleGuard, &forTenant, "Gate Guard", "")
		require.NoError(t, err)
		return token
	}

	t.Run("Valid Token Passes", func(t *testing.T) {
		router := setupAuthRouter(jwtService, loader, tenant)
		w := doRequest(router, "Bearer "+guardToken(tenantID))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Missing Header", func(t *testing.T) {
		router := setupAuthRouter(jwtService, loader, tenant)
		w := doRequest(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "MISSING_AUTH_HEADER")
	})

	t.Run("Malformed Header", func(t *testing.T) {
		router := setupAuthRouter(jwtService, loader, tenant)
		w := doRequest(router, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
	})

	t.Run("Garbage Token", func(t *testing.T) {
		router := setupAuthRouter(jwtService, loader, tenant)
		w := doRequest(router, "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("Expired Token", func(t *testing.T) {
		expiredService := jwt.NewService("test-secret", time.Millisecond)
		token, err := expiredService.GenerateToken(guardID, models.RoleGuard, &tenantID, "Gate Guard", "")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)

		router := setupAuthRouter(jwtService, loader, tenant)
		w := doRequest(router, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("Cross Tenant Token Is Forbidden Not Unauthorized", func(t *testing.T) {
		router := setupAuthRouter(jwtService, loader, tenant)
		w := doRequest(router, "Bearer "+guardToken(uuid.New()))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "TENANT_MISMATCH")
	})

	t.Run("No Resolved Tenant Is A Server Error", func(t *testing.T) {
		router := setupAuthRouter(jwtService, loader, nil)
		w := doRequest(router, "Bearer "+guardToken(tenantID))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "SERVER_MISCONFIGURED")
	})

	t.Run("Principal Gone", func(t *testing.T) {
		goneLoader := &fakePrincipalLoader{err: errors.New("not found")}
		router := setupAuthRouter(jwtService, goneLoader, tenant)
		w := doRequest(router, "Bearer "+guardToken(tenantID))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "PRINCIPAL_NOT_FOUND")
	})

	t.Run("Inactive Principal", func(t *testing.T) {
		inactiveLoader := &fakePrincipalLoader{principal: &database.Principal{
			ID: guardID, Role: models.RoleGuard, TenantID: tenantID, IsActive: false,
		}}
		router := setupAuthRouter(jwtService, inactiveLoader, tenant)
		w := doRequest(router, "Bearer "+guardToken(tenantID))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ACCOUNT_INACTIVE")
	})

	t.Run("Super Admin Skips Tenant Binding", func(t *testing.T) {
		saID := uuid.New()
		saLoader := &fakePrincipalLoader{principal: &database.Principal{
			ID: saID, Role: models.RoleSuperAdmin, IsActive: true,
		}}
		token, err := jwtService.GenerateToken(saID, models.RoleSuperAdmin, nil, "Root", "root@example.com")
		require.NoError(t, err)

		// No tenant middleware at all; super admin routes are global.
		router := setupAuthRouter(jwtService, saLoader, nil)
		w := doRequest(router, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)

	tenantID := uuid.New()
	tenant := &models.Tenant{ID: tenantID, Name: "Acme", Subdomain: "acme", IsActive: true}

	guardID := uuid.New()
	loader := &fakePrincipalLoader{principal: &database.Principal{
		ID: guardID, Role: models.RoleGuard, TenantID: tenantID, IsActive: true,
	}}

	token, err := jwtService.GenerateToken(guardID, models.RoleGuard, &tenantID, "Gate Guard", "")
	require.NoError(t, err)

	t.Run("Matching Role Passes", func(t *testing.T) {
		router := setupAuthRouter(jwtService, loader, tenant, models.RoleGuard, models.RoleAdmin)
		w := doRequest(router, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Wrong Role Is Forbidden", func(t *testing.T) {
		router := setupAuthRouter(jwtService, loader, tenant, models.RoleAdmin)
		w := doRequest(router, "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "INSUFFICIENT_PERMISSIONS")
	})

	t.Run("Missing Auth Middleware", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.GET("/bare", RequireRole(models.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/bare", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "MISSING_PRINCIPAL_CONTEXT")
	})
}
