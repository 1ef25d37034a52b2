package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/faculty-directory-api/internal/models"
	appErrors "github.com/noah-isme/faculty-directory-api/pkg/errors"
	"github.com/noah-isme/faculty-directory-api/pkg/export"
)

var directoryHeaders = []string{"Name", "Email", "Department", "Specialty"}

var scheduleHeaders = []string{"Professor", "Day", "Start", "End", "Room", "Course", "Academic Year", "Semester"}

type scheduleLister interface {
	ListForProfessor(ctx context.Context, professorID int64) ([]models.ScheduleDetail, error)
	ListAll(ctx context.Context) ([]models.ScheduleRoster, error)
}

type professorLister interface {
	List(ctx context.Context) ([]models.ProfessorDetail, error)
	FindByID(ctx context.Context, id int64) (*models.ProfessorDetail, error)
}

// ExportResult carries rendered export bytes plus response metadata.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders directory and timetable listings as CSV or PDF
// downloads.
type ExportService struct {
	professors professorLister
	schedules  scheduleLister
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(professors professorLister, schedules scheduleLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		professors: professors,
		schedules:  schedules,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
	}
}

// Directory exports the full professor directory.
func (s *ExportService) Directory(ctx context.Context, format string) (*ExportResult, error) {
	professors, err := s.professors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list professors")
	}

	data := export.Dataset{Headers: directoryHeaders}
	for _, p := range professors {
		data.Rows = append(data.Rows, map[string]string{
			"Name":       p.FirstName + " " + p.LastName,
			"Email":      p.Email,
			"Department": deref(p.DepartmentName),
			"Specialty":  deref(p.Specialty),
		})
	}
	return s.render(data, "faculty_directory", "Faculty Directory", format)
}

// ProfessorSchedule exports one professor's weekly timetable.
func (s *ExportService) ProfessorSchedule(ctx context.Context, professorID int64, format string) (*ExportResult, error) {
	professor, err := s.professors.FindByID(ctx, professorID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Professor not found")
	}
	entries, err := s.schedules.ListForProfessor(ctx, professorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list professor schedule")
	}

	name := professor.FirstName + " " + professor.LastName
	data := export.Dataset{Headers: scheduleHeaders}
	for _, e := range entries {
		data.Rows = append(data.Rows, scheduleRow(name, e))
	}
	filename := fmt.Sprintf("schedule_%d", professorID)
	return s.render(data, filename, "Schedule: "+name, format)
}

// FullRoster exports every schedule entry across the faculty.
func (s *ExportService) FullRoster(ctx context.Context, format string) (*ExportResult, error) {
	entries, err := s.schedules.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list schedules")
	}

	data := export.Dataset{Headers: scheduleHeaders}
	for _, e := range entries {
		data.Rows = append(data.Rows, scheduleRow(e.ProfessorFirst+" "+e.ProfessorLast, e.ScheduleDetail))
	}
	return s.render(data, "schedule_roster", "Schedule Roster", format)
}

func (s *ExportService) render(data export.Dataset, filename, title, format string) (*ExportResult, error) {
	switch format {
	case "csv":
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Filename: filename + ".csv", ContentType: "text/csv", Content: content}, nil
	case "pdf":
		content, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Filename: filename + ".pdf", ContentType: "application/pdf", Content: content}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Unsupported export format '%s'. Must be one of: csv, pdf", format))
	}
}

func scheduleRow(professorName string, e models.ScheduleDetail) map[string]string {
	return map[string]string{
		"Professor":     professorName,
		"Day":           e.DayOfWeek,
		"Start":         e.StartTime,
		"End":           e.EndTime,
		"Room":          deref(e.RoomLocation),
		"Course":        deref(e.CourseName),
		"Academic Year": e.AcademicYear,
		"Semester":      e.Semester,
	}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
