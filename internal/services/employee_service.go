package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/models"
)

var (
	nameOnlyLetters = regexp.MustCompile(`^[A-Za-z ]+$`)
	tenDigitPhone   = regexp.MustCompile(`^[0-9]{10}$`)
)

// EmployeeService handles host employee management and bulk CSV import.
type EmployeeService struct {
	employeeRepo *database.EmployeeRepository
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employeeRepo *database.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo}
}

// EmployeeInput carries employee form fields
type EmployeeInput struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
}

func (in *EmployeeInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if in.Phone != "" && !tenDigitPhone.MatchString(in.Phone) {
		return fmt.Errorf("%w: phone must be exactly 10 digits", ErrValidation)
	}
	return nil
}

// Create creates an employee; duplicate (tenant, email) surfaces as a
// conflict from the repository.
func (s *EmployeeService) Create(tenantID uuid.UUID, input EmployeeInput) (*models.Employee, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	employee := &models.Employee{
		TenantID:   tenantID,
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:      models.NewNullString(input.Phone),
		Department: models.NewNullString(input.Department),
	}

	if err := s.employeeRepo.Create(employee); err != nil {
		return nil, err
	}

	return employee, nil
}

// Update updates an existing employee
func (s *EmployeeService) Update(tenantID, id uuid.UUID, input EmployeeInput) (*models.Employee, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	employee.Name = strings.TrimSpace(input.Name)
	employee.Email = strings.ToLower(strings.TrimSpace(input.Email))
	employee.Phone = models.NewNullString(input.Phone)
	employee.Department = models.NewNullString(input.Department)

	if err := s.employeeRepo.Update(employee); err != nil {
		return nil, err
	}

	return employee, nil
}

// BulkUpload imports employees from a CSV stream with a header row.
// Recognized columns: name, email, phone, department. Rows missing name or
// email are skipped; duplicate emails within the tenant are counted and
// reported, not treated as failures.
func (s *EmployeeService) BulkUpload(tenantID uuid.UUID, r io.Reader) (*models.BulkUploadResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read CSV header", ErrValidation)
	}

	colIndex := map[string]int{}
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := colIndex["name"]; !ok {
		return nil, fmt.Errorf("%w: CSV must have a name column", ErrValidation)
	}
	if _, ok := colIndex["email"]; !ok {
		return nil, fmt.Errorf("%w: CSV must have an email column", ErrValidation)
	}

	field := func(record []string, name string) string {
		idx, ok := colIndex[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	result := &models.BulkUploadResult{DuplicateEmails: []string{}}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row: skip it, keep importing the rest.
			result.Skipped++
			continue
		}

		name := field(record, "name")
		email := strings.ToLower(field(record, "email"))
		if name == "" || email == "" {
			result.Skipped++
			continue
		}

		employee := &models.Employee{
			TenantID:   tenantID,
			Name:       name,
			Email:      email,
			Phone:      models.NewNullString(field(record, "phone")),
			Department: models.NewNullString(field(record, "department")),
		}

		if err := s.employeeRepo.Create(employee); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				result.Duplicates++
				result.DuplicateEmails = append(result.DuplicateEmails, email)
				continue
			}
			return nil, err
		}

		result.Inserted++
	}

	return result, nil
}

// ValidateAdminName enforces the letters-and-spaces restriction on admin
// names.
func ValidateAdminName(name string) error {
	if !nameOnlyLetters.MatchString(name) {
		return fmt.Errorf("%w: name may only contain letters and spaces", ErrValidation)
	}
	return nil
}

// ValidateOptionalPhone enforces the 10-digit restriction when a phone is
// present.
func ValidateOptionalPhone(phone string) error {
	if phone != "" && !tenDigitPhone.MatchString(phone) {
		return fmt.Errorf("%w: phone must be exactly 10 digits", ErrValidation)
	}
	return nil
}
