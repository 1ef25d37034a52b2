package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-directory-api/internal/models"
)

// DepartmentRepository manages persistence for departments (faculty
// offices).
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs a DepartmentRepository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// List returns all departments ordered by name, each annotated with its
// current professor headcount.
func (r *DepartmentRepository) List(ctx context.Context) ([]models.DepartmentWithCount, error) {
	const query = `SELECT f.office_id, f.office_name, f.building_num, f.room_num,
			COUNT(p.faculty_id) AS professor_count
		FROM faculty f
		LEFT JOIN professors p ON p.office_id = f.office_id
		GROUP BY f.office_id, f.office_name, f.building_num, f.room_num
		ORDER BY f.office_name`
	var departments []models.DepartmentWithCount
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// FindByID fetches a department by id.
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	query := r.db.Rebind("SELECT office_id, office_name, building_num, room_num FROM faculty WHERE office_id = ?")
	var dept models.Department
	if err := r.db.GetContext(ctx, &dept, query, id); err != nil {
		return nil, err
	}
	return &dept, nil
}

// FindByName fetches a department by its unique name.
func (r *DepartmentRepository) FindByName(ctx context.Context, name string) (*models.Department, error) {
	query := r.db.Rebind("SELECT office_id, office_name, building_num, room_num FROM faculty WHERE office_name = ?")
	var dept models.Department
	if err := r.db.GetContext(ctx, &dept, query, name); err != nil {
		return nil, err
	}
	return &dept, nil
}

// ExistsByName checks whether another department already uses the name.
func (r *DepartmentRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM faculty WHERE office_name = ?"
	args := []interface{}{name}
	if excludeID != 0 {
		query += " AND office_id <> ?"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, r.db.Rebind(query+" LIMIT 1"), args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check department name: %w", err)
	}
	return true, nil
}

// Create inserts a new department and assigns its id.
func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	const query = `INSERT INTO faculty (office_name, building_num, room_num) VALUES (?, ?, ?)`
	id, err := insertReturningID(ctx, r.db, query, "office_id", dept.Name, dept.BuildingNum, dept.RoomNum)
	if err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	dept.ID = id
	return nil
}

// Update overwrites all department fields.
func (r *DepartmentRepository) Update(ctx context.Context, dept *models.Department) error {
	query := r.db.Rebind(`UPDATE faculty SET office_name = ?, building_num = ?, room_num = ? WHERE office_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, dept.Name, dept.BuildingNum, dept.RoomNum, dept.ID); err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

// DeleteDetach removes the department and nulls out the department
// reference on its professors, atomically. Returns the number of
// professors detached.
func (r *DepartmentRepository) DeleteDetach(ctx context.Context, id int64) (int, error) {
	var affected int
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &affected,
			tx.Rebind("SELECT COUNT(*) FROM professors WHERE office_id = ?"), id); err != nil {
			return fmt.Errorf("count department professors: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("UPDATE professors SET office_id = NULL WHERE office_id = ?"), id); err != nil {
			return fmt.Errorf("detach professors: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("DELETE FROM faculty WHERE office_id = ?"), id); err != nil {
			return fmt.Errorf("delete department: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// DeleteCascade removes the department together with its professors and
// their schedules, atomically. Returns the number of professors removed.
func (r *DepartmentRepository) DeleteCascade(ctx context.Context, id int64) (int, error) {
	var affected int
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &affected,
			tx.Rebind("SELECT COUNT(*) FROM professors WHERE office_id = ?"), id); err != nil {
			return fmt.Errorf("count department professors: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			`DELETE FROM professor_sched WHERE faculty_id IN (SELECT faculty_id FROM professors WHERE office_id = ?)`), id); err != nil {
			return fmt.Errorf("cascade schedules: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("DELETE FROM professors WHERE office_id = ?"), id); err != nil {
			return fmt.Errorf("cascade professors: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("DELETE FROM faculty WHERE office_id = ?"), id); err != nil {
			return fmt.Errorf("delete department: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
