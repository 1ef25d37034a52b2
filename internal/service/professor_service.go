package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-directory-api/internal/models"
	appErrors "github.com/noah-isme/faculty-directory-api/pkg/errors"
)

type professorRepository interface {
	List(ctx context.Context) ([]models.ProfessorDetail, error)
	FindByID(ctx context.Context, id int64) (*models.ProfessorDetail, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, prof *models.Professor) error
	Update(ctx context.Context, prof *models.Professor) error
	UpdatePhoto(ctx context.Context, id int64, photoURL *string) error
	Delete(ctx context.Context, id int64) (int, error)
	ListByDepartment(ctx context.Context, departmentName string) ([]models.ProfessorDetail, error)
	FilterByCourse(ctx context.Context, courseName string) ([]models.ProfessorDetail, error)
	Search(ctx context.Context, term string) ([]models.ProfessorDetail, error)
}

type departmentResolver interface {
	FindByName(ctx context.Context, name string) (*models.Department, error)
	FindByID(ctx context.Context, id int64) (*models.Department, error)
}

type photoStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Delete(name string) error
}

// ProfessorRequest is the payload for creating and updating professors.
// Department resolves by name; empty leaves the professor unassigned.
type ProfessorRequest struct {
	FirstName  string  `json:"first_name" validate:"required,max=100"`
	LastName   string  `json:"last_name" validate:"required,max=100"`
	Email      string  `json:"email" validate:"required,email"`
	Department string  `json:"department" validate:"omitempty,max=100"`
	Specialty  *string `json:"specialty" validate:"omitempty,max=100"`
	PhotoURL   *string `json:"photo_url" validate:"omitempty,max=255"`
}

// ProfessorService orchestrates professor operations.
type ProfessorService struct {
	repo        professorRepository
	departments departmentResolver
	photos      photoStore
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewProfessorService constructs a ProfessorService.
func NewProfessorService(repo professorRepository, departments departmentResolver, photos photoStore, validate *validator.Validate, logger *zap.Logger) *ProfessorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfessorService{repo: repo, departments: departments, photos: photos, validator: validate, logger: logger}
}

// List returns all professors with department info, ordered by
// (last name, first name).
func (s *ProfessorService) List(ctx context.Context) ([]models.ProfessorDetail, error) {
	professors, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list professors")
	}
	return professors, nil
}

// Get returns a professor joined with department info.
func (s *ProfessorService) Get(ctx context.Context, id int64) (*models.ProfessorDetail, error) {
	prof, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load professor")
	}
	return prof, nil
}

// Create adds a professor after resolving the department and checking
// email uniqueness.
func (s *ProfessorService) Create(ctx context.Context, req ProfessorRequest) (*models.Professor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid professor payload")
	}

	departmentID, err := s.resolveDepartment(ctx, req.Department)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if err := s.ensureUniqueEmail(ctx, email, 0); err != nil {
		return nil, err
	}

	prof := &models.Professor{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		DepartmentID: departmentID,
		Specialty:    normalizeOptional(req.Specialty),
		PhotoURL:     normalizeOptional(req.PhotoURL),
	}
	if err := s.repo.Create(ctx, prof); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create professor")
	}
	return prof, nil
}

// Update overwrites all professor fields, re-validating the department and
// email uniqueness against other professors.
func (s *ProfessorService) Update(ctx context.Context, id int64, req ProfessorRequest) (*models.Professor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid professor payload")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load professor")
	}

	departmentID, err := s.resolveDepartment(ctx, req.Department)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if err := s.ensureUniqueEmail(ctx, email, id); err != nil {
		return nil, err
	}

	prof := &models.Professor{
		ID:           id,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		DepartmentID: departmentID,
		Specialty:    normalizeOptional(req.Specialty),
		PhotoURL:     normalizeOptional(req.PhotoURL),
	}
	if err := s.repo.Update(ctx, prof); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update professor")
	}
	return prof, nil
}

// Delete removes a professor and all their schedule entries, reporting the
// number of entries removed.
func (s *ProfessorService) Delete(ctx context.Context, id int64) (int, error) {
	prof, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "Professor not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load professor")
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete professor")
	}

	if s.photos != nil && prof.PhotoURL != nil {
		if err := s.photos.Delete(*prof.PhotoURL); err != nil {
			s.logger.Warn("failed to remove professor photo", zap.Error(err))
		}
	}

	s.logger.Info("professor deleted", zap.Int64("professor_id", id), zap.Int("schedules_removed", affected))
	return affected, nil
}

// AttachPhoto stores an uploaded photo and records its path on the
// professor.
func (s *ProfessorService) AttachPhoto(ctx context.Context, id int64, originalName string, r io.Reader) (string, error) {
	if s.photos == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "photo storage is not configured")
	}

	prof, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "Professor not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load professor")
	}

	name, err := s.photos.Save(originalName, r)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo")
	}
	if err := s.repo.UpdatePhoto(ctx, id, &name); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to record photo")
	}

	if prof.PhotoURL != nil && *prof.PhotoURL != name {
		if err := s.photos.Delete(*prof.PhotoURL); err != nil {
			s.logger.Warn("failed to remove replaced photo", zap.Error(err))
		}
	}
	return name, nil
}

// ListByDepartment returns professors assigned to the named department.
func (s *ProfessorService) ListByDepartment(ctx context.Context, departmentName string) ([]models.ProfessorDetail, error) {
	professors, err := s.repo.ListByDepartment(ctx, departmentName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list professors by department")
	}
	return professors, nil
}

// FilterByCourse returns professors teaching the named course.
func (s *ProfessorService) FilterByCourse(ctx context.Context, courseName string) ([]models.ProfessorDetail, error) {
	professors, err := s.repo.FilterByCourse(ctx, courseName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to filter professors by course")
	}
	return professors, nil
}

// Search finds professors by name, email, or specialty. An empty term
// returns the full list.
func (s *ProfessorService) Search(ctx context.Context, term string) ([]models.ProfessorDetail, error) {
	professors, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to search professors")
	}
	return professors, nil
}

func (s *ProfessorService) resolveDepartment(ctx context.Context, name string) (*int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	dept, err := s.departments.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrReferenceMissing, fmt.Sprintf("Department '%s' not found", name))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to resolve department")
	}
	return &dept.ID, nil
}

func (s *ProfessorService) ensureUniqueEmail(ctx context.Context, email string, excludeID int64) error {
	exists, err := s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check email uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrDuplicateKey, fmt.Sprintf("Email '%s' already in use", email))
	}
	return nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
