package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/models"
)

// departmentRepository is the PostgreSQL-backed implementation of
// [DepartmentRepository]. The department catalogue is seeded by migrations
// and is read-only at runtime.
type departmentRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewDepartmentRepository constructs a [DepartmentRepository] backed by the
// provided database connection and logger.
func NewDepartmentRepository(db *DB, logger *logger.Logger) DepartmentRepository {
	logger.Debug().Msg("creating department repository")
	return &departmentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateDepartment persists a new department and returns the fully populated
// [models.Department] with server-assigned fields (DepartmentID, CreatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrDepartmentAlreadyExists].
func (r *departmentRepository) CreateDepartment(ctx context.Context, department models.Department) (models.Department, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createDepartment, department.Name)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*departmentRepository.CreateDepartment").Str("name", department.Name).Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Department{}, ErrDepartmentAlreadyExists
		default:
			return models.Department{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	var saved models.Department
	if err := row.Scan(&saved.DepartmentID, &saved.Name, &saved.CreatedAt); err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.Department{}, ErrDepartmentAlreadyExists
		}
		log.Err(err).Str("func", "*departmentRepository.CreateDepartment").Msg("error: scanning error")
		return models.Department{}, err
	}

	return saved, nil
}

// GetAllDepartments retrieves every department ordered by identifier.
func (r *departmentRepository) GetAllDepartments(ctx context.Context) ([]models.Department, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, getAllDepartments)
	if err != nil {
		log.Err(err).Str("func", "*departmentRepository.GetAllDepartments").Msg("failed to execute query for getting all departments")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	departments := make([]models.Department, 0, 4)
	for rows.Next() {
		var department models.Department
		if scanErr := rows.Scan(&department.DepartmentID, &department.Name, &department.CreatedAt); scanErr != nil {
			log.Err(scanErr).Str("func", "*departmentRepository.GetAllDepartments").Msg("failed to scan department row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		departments = append(departments, department)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*departmentRepository.GetAllDepartments").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return departments, nil
}

// GetDepartmentByID retrieves a department by its primary key.
//
// Error handling:
//   - [sql.ErrNoRows] → [ErrDepartmentNotFound].
func (r *departmentRepository) GetDepartmentByID(ctx context.Context, departmentID int64) (models.Department, error) {
	return r.findOne(ctx, "*departmentRepository.GetDepartmentByID", getDepartmentByID, departmentID)
}

// FindDepartmentByName retrieves a department by its unique name. Used when
// routing a new request to the department responsible for its type.
//
// Error handling:
//   - [sql.ErrNoRows] → [ErrDepartmentNotFound].
func (r *departmentRepository) FindDepartmentByName(ctx context.Context, name string) (models.Department, error) {
	return r.findOne(ctx, "*departmentRepository.FindDepartmentByName", findDepartmentByName, name)
}

func (r *departmentRepository) findOne(ctx context.Context, funcName string, query string, arg any) (models.Department, error) {
	log := logger.FromContext(ctx)

	var department models.Department
	row := r.db.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&department.DepartmentID, &department.Name, &department.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Department{}, ErrDepartmentNotFound
		}
		log.Err(err).Str("func", funcName).Msg("error: scanning error")
		return models.Department{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return department, nil
}
