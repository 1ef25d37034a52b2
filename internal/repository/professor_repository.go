package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-directory-api/internal/models"
)

const professorDetailColumns = `p.faculty_id, p.f_name, p.l_name, p.email, p.office_id, p.subject_id, p.photo_url,
	f.office_name, f.building_num, f.room_num`

// ProfessorRepository manages persistence for professors.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository constructs a ProfessorRepository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// List returns all professors joined with department info, ordered by
// (last name, first name).
func (r *ProfessorRepository) List(ctx context.Context) ([]models.ProfessorDetail, error) {
	query := fmt.Sprintf(`SELECT %s
		FROM professors p
		LEFT JOIN faculty f ON p.office_id = f.office_id
		ORDER BY p.l_name, p.f_name`, professorDetailColumns)
	var professors []models.ProfessorDetail
	if err := r.db.SelectContext(ctx, &professors, query); err != nil {
		return nil, fmt.Errorf("list professors: %w", err)
	}
	return professors, nil
}

// FindByID fetches a professor joined with department info.
func (r *ProfessorRepository) FindByID(ctx context.Context, id int64) (*models.ProfessorDetail, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT %s
		FROM professors p
		LEFT JOIN faculty f ON p.office_id = f.office_id
		WHERE p.faculty_id = ?`, professorDetailColumns))
	var prof models.ProfessorDetail
	if err := r.db.GetContext(ctx, &prof, query, id); err != nil {
		return nil, err
	}
	return &prof, nil
}

// ExistsByEmail checks whether another professor already uses the email.
// The match is case-sensitive and exact.
func (r *ProfessorRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM professors WHERE email = ?"
	args := []interface{}{email}
	if excludeID != 0 {
		query += " AND faculty_id <> ?"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, r.db.Rebind(query+" LIMIT 1"), args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check professor email: %w", err)
	}
	return true, nil
}

// Create inserts a new professor and assigns its id.
func (r *ProfessorRepository) Create(ctx context.Context, prof *models.Professor) error {
	const query = `INSERT INTO professors (f_name, l_name, email, office_id, subject_id, photo_url)
		VALUES (?, ?, ?, ?, ?, ?)`
	id, err := insertReturningID(ctx, r.db, query, "faculty_id",
		prof.FirstName, prof.LastName, prof.Email, prof.DepartmentID, prof.Specialty, prof.PhotoURL)
	if err != nil {
		return fmt.Errorf("create professor: %w", err)
	}
	prof.ID = id
	return nil
}

// Update overwrites all professor fields.
func (r *ProfessorRepository) Update(ctx context.Context, prof *models.Professor) error {
	query := r.db.Rebind(`UPDATE professors
		SET f_name = ?, l_name = ?, email = ?, office_id = ?, subject_id = ?, photo_url = ?
		WHERE faculty_id = ?`)
	if _, err := r.db.ExecContext(ctx, query,
		prof.FirstName, prof.LastName, prof.Email, prof.DepartmentID, prof.Specialty, prof.PhotoURL, prof.ID); err != nil {
		return fmt.Errorf("update professor: %w", err)
	}
	return nil
}

// UpdatePhoto stores the photo reference for a professor.
func (r *ProfessorRepository) UpdatePhoto(ctx context.Context, id int64, photoURL *string) error {
	query := r.db.Rebind("UPDATE professors SET photo_url = ? WHERE faculty_id = ?")
	if _, err := r.db.ExecContext(ctx, query, photoURL, id); err != nil {
		return fmt.Errorf("update professor photo: %w", err)
	}
	return nil
}

// Delete removes the professor's schedule entries first, then the
// professor, atomically. Returns the number of schedule entries removed.
func (r *ProfessorRepository) Delete(ctx context.Context, id int64) (int, error) {
	var affected int
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &affected,
			tx.Rebind("SELECT COUNT(*) FROM professor_sched WHERE faculty_id = ?"), id); err != nil {
			return fmt.Errorf("count professor schedules: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("DELETE FROM professor_sched WHERE faculty_id = ?"), id); err != nil {
			return fmt.Errorf("cascade schedules: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("DELETE FROM professors WHERE faculty_id = ?"), id); err != nil {
			return fmt.Errorf("delete professor: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// ListByDepartment returns all professors assigned to the named department.
func (r *ProfessorRepository) ListByDepartment(ctx context.Context, departmentName string) ([]models.ProfessorDetail, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT %s
		FROM professors p
		JOIN faculty f ON p.office_id = f.office_id
		WHERE f.office_name = ?
		ORDER BY p.l_name, p.f_name`, professorDetailColumns))
	var professors []models.ProfessorDetail
	if err := r.db.SelectContext(ctx, &professors, query, departmentName); err != nil {
		return nil, fmt.Errorf("list professors by department: %w", err)
	}
	return professors, nil
}

// FilterByCourse returns professors with at least one schedule entry for
// the named course.
func (r *ProfessorRepository) FilterByCourse(ctx context.Context, courseName string) ([]models.ProfessorDetail, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT DISTINCT %s
		FROM professors p
		LEFT JOIN faculty f ON p.office_id = f.office_id
		JOIN professor_sched ps ON p.faculty_id = ps.faculty_id
		JOIN courses c ON ps.course_code = c.course_code
		WHERE c.course_name = ?
		ORDER BY p.l_name, p.f_name`, professorDetailColumns))
	var professors []models.ProfessorDetail
	if err := r.db.SelectContext(ctx, &professors, query, courseName); err != nil {
		return nil, fmt.Errorf("filter professors by course: %w", err)
	}
	return professors, nil
}

// Search finds professors by name, email, or specialty with a
// case-insensitive substring match. A term containing a space is treated
// as "first last": both name parts must match, or the whole term must
// match email or specialty. An empty term returns the full list.
func (r *ProfessorRepository) Search(ctx context.Context, term string) ([]models.ProfessorDetail, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return r.List(ctx)
	}

	pattern := "%" + strings.ToLower(term) + "%"
	var (
		where string
		args  []interface{}
	)
	if tokens := strings.Fields(term); len(tokens) >= 2 {
		first := "%" + strings.ToLower(tokens[0]) + "%"
		last := "%" + strings.ToLower(tokens[1]) + "%"
		where = `(LOWER(p.f_name) LIKE ? AND LOWER(p.l_name) LIKE ?)
			OR LOWER(p.email) LIKE ? OR LOWER(COALESCE(p.subject_id, '')) LIKE ?`
		args = []interface{}{first, last, pattern, pattern}
	} else {
		where = `LOWER(p.f_name) LIKE ? OR LOWER(p.l_name) LIKE ?
			OR LOWER(p.email) LIKE ? OR LOWER(COALESCE(p.subject_id, '')) LIKE ?`
		args = []interface{}{pattern, pattern, pattern, pattern}
	}

	query := r.db.Rebind(fmt.Sprintf(`SELECT %s
		FROM professors p
		LEFT JOIN faculty f ON p.office_id = f.office_id
		WHERE %s
		ORDER BY p.l_name, p.f_name`, professorDetailColumns, where))
	var professors []models.ProfessorDetail
	if err := r.db.SelectContext(ctx, &professors, query, args...); err != nil {
		return nil, fmt.Errorf("search professors: %w", err)
	}
	return professors, nil
}
