package services

import (
	"fmt"
	"time"

	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/models"
	"github.com/frontdesk/visitor-management-backend/pkg/jwt"
)

// AuthService handles login for all three principal roles.
type AuthService struct {
	guardRepo      *database.GuardRepository
	adminRepo      *database.AdminRepository
	superAdminRepo *database.SuperAdminRepository
	credentials    *CredentialService
	jwtService     *jwt.Service
	tokenExpiry    time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	guardRepo *database.GuardRepository,
	adminRepo *database.AdminRepository,
	superAdminRepo *database.SuperAdminRepository,
	credentials *CredentialService,
	jwtService *jwt.Service,
	tokenExpiry time.Duration,
) *AuthService {
	return &AuthService{
		guardRepo:      guardRepo,
		adminRepo:      adminRepo,
		superAdminRepo: superAdminRepo,
		credentials:    credentials,
		jwtService:     jwtService,
		tokenExpiry:    tokenExpiry,
	}
}

// GuardLoginResponse is returned on a successful guard login
type GuardLoginResponse struct {
	Token     string        `json:"token"`
	ExpiresIn int64         `json:"expires_in"`
	Guard     *models.Guard `json:"guard"`
}

// AdminLoginResponse is returned on a successful admin login
type AdminLoginResponse struct {
	Token     string        `json:"token"`
	ExpiresIn int64         `json:"expires_in"`
	Admin     *models.Admin `json:"admin"`
}

// SuperAdminLoginResponse is returned on a successful super admin login
type SuperAdminLoginResponse struct {
	Token      string             `json:"token"`
	ExpiresIn  int64              `json:"expires_in"`
	SuperAdmin *models.SuperAdmin `json:"super_admin"`
}

// GuardLogin authenticates a guard by identifier (name, email, or phone)
// and PIN within the resolved tenant.
func (s *AuthService) GuardLogin(tenant *models.Tenant, identifier, pin string) (*GuardLoginResponse, error) {
	guard, err := s.guardRepo.GetByIdentifier(tenant.ID, identifier)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !guard.IsActive {
		return nil, ErrInactiveAccount
	}

	if err := s.credentials.VerifyPIN(pin, guard.PINHash); err != nil {
		return nil, err
	}

	tenantID := tenant.ID
	token, err := s.jwtService.GenerateToken(guard.ID, models.RoleGuard, &tenantID, guard.Name, guard.Email.String)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &GuardLoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokenExpiry.Seconds()),
		Guard:     guard,
	}, nil
}

// AdminLogin authenticates a tenant admin by email and password.
func (s *AuthService) AdminLogin(tenant *models.Tenant, email, password string) (*AdminLoginResponse, error) {
	admin, err := s.adminRepo.GetByEmail(tenant.ID, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.credentials.VerifyPassword(password, admin.PasswordHash); err != nil {
		return nil, err
	}

	tenantID := tenant.ID
	token, err := s.jwtService.GenerateToken(admin.ID, models.RoleAdmin, &tenantID, admin.Name, admin.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AdminLoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokenExpiry.Seconds()),
		Admin:     admin,
	}, nil
}

// SuperAdminLogin authenticates a super admin globally; no tenant binding
// is carried in the issued token.
func (s *AuthService) SuperAdminLogin(email, password string) (*SuperAdminLoginResponse, error) {
	sa, err := s.superAdminRepo.GetByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !sa.IsActive {
		return nil, ErrInactiveAccount
	}

	if err := s.credentials.VerifyPassword(password, sa.PasswordHash); err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(sa.ID, models.RoleSuperAdmin, nil, sa.Name, sa.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &SuperAdminLoginResponse{
		Token:      token,
		ExpiresIn:  int64(s.tokenExpiry.Seconds()),
		SuperAdmin: sa,
	}, nil
}
