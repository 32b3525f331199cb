package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/store"
	"github.com/reqdesk/reqdesk/models"
)

// departmentService is the concrete implementation of DepartmentService.
type departmentService struct {
	departmentRepository store.DepartmentRepository
	logger               *logger.Logger
}

// NewDepartmentService constructs a DepartmentService backed by the given
// repository.
func NewDepartmentService(departmentRepository store.DepartmentRepository, logger *logger.Logger) DepartmentService {
	return &departmentService{
		departmentRepository: departmentRepository,
		logger:               logger,
	}
}

// ListDepartments returns every department.
func (d *departmentService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	log := logger.FromContext(ctx)

	departments, err := d.departmentRepository.GetAllDepartments(ctx)
	if err != nil {
		log.Err(err).Msg("department listing failed")
		return nil, fmt.Errorf("department listing failed: %w", err)
	}

	return departments, nil
}

// GetDepartment returns the department with the given identifier.
func (d *departmentService) GetDepartment(ctx context.Context, departmentID int64) (models.Department, error) {
	log := logger.FromContext(ctx)

	department, err := d.departmentRepository.GetDepartmentByID(ctx, departmentID)
	if err != nil {
		log.Err(err).Int64("department_id", departmentID).Msg("department lookup failed")
		return models.Department{}, fmt.Errorf("department lookup failed: %w", err)
	}

	return department, nil
}

// CreateDepartment adds a department to the catalogue. Restricted to
// supervisors and administrators.
//
// Returns:
//   - ErrPermissionDenied for employee callers.
//   - ErrInvalidDataProvided when the name is blank.
//   - A wrapped store.ErrDepartmentAlreadyExists on a duplicate name.
func (d *departmentService) CreateDepartment(ctx context.Context, callerRole models.UserRole, department models.Department) (models.Department, error) {
	log := logger.FromContext(ctx)

	if callerRole != models.RoleSupervisor && callerRole != models.RoleAdministrator {
		return models.Department{}, ErrPermissionDenied
	}

	department.Name = strings.TrimSpace(department.Name)
	if department.Name == "" {
		return models.Department{}, ErrInvalidDataProvided
	}

	created, err := d.departmentRepository.CreateDepartment(ctx, department)
	if err != nil {
		log.Err(err).Str("name", department.Name).Msg("department creation failed")
		return models.Department{}, fmt.Errorf("department creation failed: %w", err)
	}

	return created, nil
}
