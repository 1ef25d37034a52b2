package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-directory-api/internal/models"
)

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns all courses ordered by code.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT course_code, course_name FROM courses ORDER BY course_code`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByCode fetches a course by its code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	query := r.db.Rebind("SELECT course_code, course_name FROM courses WHERE course_code = ?")
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, code); err != nil {
		return nil, err
	}
	return &course, nil
}

// ExistsByCode checks whether the code is already taken.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists,
		r.db.Rebind("SELECT 1 FROM courses WHERE course_code = ? LIMIT 1"), code)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := r.db.Rebind("INSERT INTO courses (course_code, course_name) VALUES (?, ?)")
	if _, err := r.db.ExecContext(ctx, query, course.Code, course.Name); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// UpdateName changes the course name. The code itself is never mutated.
func (r *CourseRepository) UpdateName(ctx context.Context, code, name string) error {
	query := r.db.Rebind("UPDATE courses SET course_name = ? WHERE course_code = ?")
	if _, err := r.db.ExecContext(ctx, query, name, code); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes the course together with every schedule entry referencing
// it, atomically. Returns the number of schedule entries removed.
func (r *CourseRepository) Delete(ctx context.Context, code string) (int, error) {
	var affected int
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &affected,
			tx.Rebind("SELECT COUNT(*) FROM professor_sched WHERE course_code = ?"), code); err != nil {
			return fmt.Errorf("count course schedules: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("DELETE FROM professor_sched WHERE course_code = ?"), code); err != nil {
			return fmt.Errorf("cascade schedules: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("DELETE FROM courses WHERE course_code = ?"), code); err != nil {
			return fmt.Errorf("delete course: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
