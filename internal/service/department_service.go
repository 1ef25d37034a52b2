package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-directory-api/internal/models"
	appErrors "github.com/noah-isme/faculty-directory-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context) ([]models.DepartmentWithCount, error)
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	FindByName(ctx context.Context, name string) (*models.Department, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, dept *models.Department) error
	Update(ctx context.Context, dept *models.Department) error
	DeleteDetach(ctx context.Context, id int64) (int, error)
	DeleteCascade(ctx context.Context, id int64) (int, error)
}

// DepartmentRequest is the payload for creating and updating departments.
type DepartmentRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	BuildingNum *int   `json:"building_num" validate:"omitempty,min=0"`
	RoomNum     *int   `json:"room_num" validate:"omitempty,min=0"`
}

// DepartmentService orchestrates department operations.
type DepartmentService struct {
	repo      departmentRepository
	validator *validator.Validate
	logger    *zap.Logger

	// deleteCascade switches the department delete policy from detaching
	// professors (default) to removing them and their schedules.
	deleteCascade bool
}

// NewDepartmentService constructs a DepartmentService.
func NewDepartmentService(repo departmentRepository, validate *validator.Validate, logger *zap.Logger, deleteCascade bool) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, validator: validate, logger: logger, deleteCascade: deleteCascade}
}

// List returns all departments with professor counts, ordered by name.
func (s *DepartmentService) List(ctx context.Context) ([]models.DepartmentWithCount, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list departments")
	}
	return departments, nil
}

// Get returns a department by id.
func (s *DepartmentService) Get(ctx context.Context, id int64) (*models.Department, error) {
	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load department")
	}
	return dept, nil
}

// Create adds a new department with a unique name.
func (s *DepartmentService) Create(ctx context.Context, req DepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.ExistsByName(ctx, name, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check department name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, fmt.Sprintf("Department '%s' already exists", name))
	}

	dept := &models.Department{Name: name, BuildingNum: req.BuildingNum, RoomNum: req.RoomNum}
	if err := s.repo.Create(ctx, dept); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create department")
	}
	return dept, nil
}

// Update overwrites all fields of an existing department, re-checking name
// uniqueness against other departments.
func (s *DepartmentService) Update(ctx context.Context, id int64, req DepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load department")
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check department name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, fmt.Sprintf("Department name '%s' is already in use", name))
	}

	dept := &models.Department{ID: id, Name: name, BuildingNum: req.BuildingNum, RoomNum: req.RoomNum}
	if err := s.repo.Update(ctx, dept); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update department")
	}
	return dept, nil
}

// Delete removes a department under the configured cascade policy and
// reports how many professors were affected.
func (s *DepartmentService) Delete(ctx context.Context, id int64) (int, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "Department not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load department")
	}

	var (
		affected int
		err      error
	)
	if s.deleteCascade {
		affected, err = s.repo.DeleteCascade(ctx, id)
	} else {
		affected, err = s.repo.DeleteDetach(ctx, id)
	}
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete department")
	}

	s.logger.Info("department deleted",
		zap.Int64("department_id", id),
		zap.Bool("cascade", s.deleteCascade),
		zap.Int("professors_affected", affected))
	return affected, nil
}
