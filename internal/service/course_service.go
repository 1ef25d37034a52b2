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

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	UpdateName(ctx context.Context, code, name string) error
	Delete(ctx context.Context, code string) (int, error)
}

// CreateCourseRequest is the payload for registering a course.
type CreateCourseRequest struct {
	Code string `json:"code" validate:"required,max=20"`
	Name string `json:"name" validate:"required,max=100"`
}

// UpdateCourseRequest carries the only mutable course field.
type UpdateCourseRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CourseService orchestrates course operations.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns all courses ordered by code.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list courses")
	}
	return courses, nil
}

// Get returns a course by code.
func (s *CourseService) Get(ctx context.Context, code string) (*models.Course, error) {
	course, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load course")
	}
	return course, nil
}

// Create registers a new course under a unique code.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	code := strings.TrimSpace(req.Code)
	exists, err := s.repo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check course code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, fmt.Sprintf("Course code '%s' already exists", code))
	}

	course := &models.Course{Code: code, Name: strings.TrimSpace(req.Name)}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create course")
	}
	return course, nil
}

// Update changes the course name. The code is immutable.
func (s *CourseService) Update(ctx context.Context, code string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	exists, err := s.repo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check course code")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
	}

	name := strings.TrimSpace(req.Name)
	if err := s.repo.UpdateName(ctx, code, name); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update course")
	}
	return &models.Course{Code: code, Name: name}, nil
}

// Delete removes a course and every schedule entry referencing it,
// reporting the number of entries removed.
func (s *CourseService) Delete(ctx context.Context, code string) (int, error) {
	exists, err := s.repo.ExistsByCode(ctx, code)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check course code")
	}
	if !exists {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
	}

	affected, err := s.repo.Delete(ctx, code)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete course")
	}

	s.logger.Info("course deleted", zap.String("course_code", code), zap.Int("schedules_removed", affected))
	return affected, nil
}
