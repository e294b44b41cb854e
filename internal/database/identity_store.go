package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/frontdesk/visitor-management-backend/internal/models"
)

// Principal is the authenticated actor resolved for a request. TenantID is
// uuid.Nil for super admins, who are global.
type Principal struct {
	ID       uuid.UUID
	Role     string
	TenantID uuid.UUID
	Name     string
	Email    string
	IsActive bool
}

// IdentityStore resolves a token's (role, id) pair back to a live principal
// row. A token is not proof of continued existence: if the row was deleted
// after issuance, resolution fails and the request is unauthorized.
type IdentityStore struct {
	guards      *GuardRepository
	admins      *AdminRepository
	superAdmins *SuperAdminRepository
	tenants     *TenantRepository
}

// NewIdentityStore creates a new identity store over the role repositories
func NewIdentityStore(guards *GuardRepository, admins *AdminRepository, superAdmins *SuperAdminRepository, tenants *TenantRepository) *IdentityStore {
	return &IdentityStore{
		guards:      guards,
		admins:      admins,
		superAdmins: superAdmins,
		tenants:     tenants,
	}
}

// LoadPrincipal fetches the full principal row by role and id. Guards and
// admins are looked up within their tenant; the tenant id comes from the
// verified token claims, so a forged tenant binding cannot widen the lookup.
func (s *IdentityStore) LoadPrincipal(role string, tenantID, id uuid.UUID) (*Principal, error) {
	switch role {
	case models.RoleGuard:
		guard, err := s.guards.GetByID(tenantID, id)
		if err != nil {
			return nil, err
		}
		return &Principal{
			ID:       guard.ID,
			Role:     models.RoleGuard,
			TenantID: guard.TenantID,
			Name:     guard.Name,
			Email:    guard.Email.String,
			IsActive: guard.IsActive,
		}, nil

	case models.RoleAdmin:
		admin, err := s.admins.GetByID(tenantID, id)
		if err != nil {
			return nil, err
		}
		return &Principal{
			ID:       admin.ID,
			Role:     models.RoleAdmin,
			TenantID: admin.TenantID,
			Name:     admin.Name,
			Email:    admin.Email,
			IsActive: true,
		}, nil

	case models.RoleSuperAdmin:
		sa, err := s.superAdmins.GetByID(id)
		if err != nil {
			return nil, err
		}
		return &Principal{
			ID:       sa.ID,
			Role:     models.RoleSuperAdmin,
			Name:     sa.Name,
			Email:    sa.Email,
			IsActive: sa.IsActive,
		}, nil

	default:
		return nil, fmt.Errorf("unknown principal role: %s", role)
	}
}
