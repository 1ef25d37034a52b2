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

type scheduleRepository interface {
	FindByID(ctx context.Context, id int64) (*models.ScheduleEntry, error)
	HasConflict(ctx context.Context, professorID int64, day, start, end string, excludeID int64) (bool, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	Update(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id int64) error
	ListForProfessor(ctx context.Context, professorID int64) ([]models.ScheduleDetail, error)
	ListAll(ctx context.Context) ([]models.ScheduleRoster, error)
}

type professorExistsChecker interface {
	FindByID(ctx context.Context, id int64) (*models.ProfessorDetail, error)
}

type courseExistsChecker interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// ScheduleRequest is the payload for creating and updating schedule
// entries. Times are same-day wall-clock "HH:MM"; entries never cross
// midnight.
type ScheduleRequest struct {
	ProfessorID  int64   `json:"professor_id" validate:"required"`
	DayOfWeek    string  `json:"day_of_week" validate:"required"`
	StartTime    string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime      string  `json:"end_time" validate:"required,datetime=15:04"`
	RoomLocation *string `json:"room_location" validate:"omitempty,max=50"`
	AcademicYear string  `json:"academic_year" validate:"required,max=20"`
	Semester     string  `json:"semester" validate:"required"`
	CourseCode   string  `json:"course_code" validate:"required,max=20"`
}

// ScheduleService is the conflict engine: it owns the fixed validation
// sequence every schedule write goes through, so failures are
// deterministic — professor, course, day, semester, then overlap.
type ScheduleService struct {
	repo       scheduleRepository
	professors professorExistsChecker
	courses    courseExistsChecker
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, professors professorExistsChecker, courses courseExistsChecker, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, professors: professors, courses: courses, validator: validate, logger: logger}
}

// Create validates and inserts a new schedule entry.
func (s *ScheduleService) Create(ctx context.Context, req ScheduleRequest) (*models.ScheduleEntry, error) {
	if err := s.validatePayload(req); err != nil {
		return nil, err
	}
	if err := s.runChecks(ctx, req, 0); err != nil {
		return nil, err
	}

	entry := s.toEntry(req, 0)
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create schedule entry")
	}
	return entry, nil
}

// Update re-runs the full validation sequence against the new field set,
// excluding the entry itself from the overlap check.
func (s *ScheduleService) Update(ctx context.Context, id int64, req ScheduleRequest) (*models.ScheduleEntry, error) {
	if err := s.validatePayload(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load schedule entry")
	}

	if err := s.runChecks(ctx, req, id); err != nil {
		return nil, err
	}

	entry := s.toEntry(req, id)
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update schedule entry")
	}
	return entry, nil
}

// Delete removes a schedule entry.
func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Schedule entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load schedule entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete schedule entry")
	}
	return nil
}

// ListForProfessor returns a professor's timetable ordered by day ordinal
// then start time.
func (s *ScheduleService) ListForProfessor(ctx context.Context, professorID int64) ([]models.ScheduleDetail, error) {
	if _, err := s.professors.FindByID(ctx, professorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load professor")
	}
	entries, err := s.repo.ListForProfessor(ctx, professorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list professor schedule")
	}
	return entries, nil
}

// ListAll returns every entry with professor and course names.
func (s *ScheduleService) ListAll(ctx context.Context) ([]models.ScheduleRoster, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list schedules")
	}
	return entries, nil
}

func (s *ScheduleService) validatePayload(req ScheduleRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if req.StartTime >= req.EndTime {
		return appErrors.Clone(appErrors.ErrValidation, "Start time must be before end time")
	}
	return nil
}

// runChecks is the fixed validation sequence. The order is part of the
// contract: callers see the first failing check's message.
func (s *ScheduleService) runChecks(ctx context.Context, req ScheduleRequest, excludeID int64) error {
	if _, err := s.professors.FindByID(ctx, req.ProfessorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrReferenceMissing, "Professor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check professor")
	}

	exists, err := s.courses.ExistsByCode(ctx, req.CourseCode)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check course")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrReferenceMissing, "Course not found")
	}

	if !models.ValidDay(req.DayOfWeek) {
		return appErrors.Clone(appErrors.ErrInvalidEnum,
			fmt.Sprintf("Invalid day of week. Must be one of: %s", strings.Join(models.Days, ", ")))
	}

	if !models.ValidSemester(req.Semester) {
		return appErrors.Clone(appErrors.ErrInvalidEnum,
			fmt.Sprintf("Invalid semester. Must be one of: %s", strings.Join(models.Semesters, ", ")))
	}

	conflict, err := s.repo.HasConflict(ctx, req.ProfessorID, req.DayOfWeek, req.StartTime, req.EndTime, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check schedule conflict")
	}
	if conflict {
		return appErrors.Clone(appErrors.ErrScheduleConflict,
			fmt.Sprintf("Schedule conflict: professor already has a class during this time on %s", req.DayOfWeek))
	}

	return nil
}

func (s *ScheduleService) toEntry(req ScheduleRequest, id int64) *models.ScheduleEntry {
	return &models.ScheduleEntry{
		ID:           id,
		ProfessorID:  req.ProfessorID,
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		RoomLocation: normalizeOptional(req.RoomLocation),
		AcademicYear: strings.TrimSpace(req.AcademicYear),
		Semester:     req.Semester,
		CourseCode:   strings.TrimSpace(req.CourseCode),
	}
}
