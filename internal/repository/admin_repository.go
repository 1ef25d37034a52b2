package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-directory-api/internal/models"
)

// AdminRepository manages persistence for admin accounts.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs an AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByUsername fetches an admin with its stored hash for verification.
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	query := r.db.Rebind(`SELECT admin_id, username, password_hash, full_name, email, last_login, is_active
		FROM admin_users WHERE username = ?`)
	var admin models.AdminUser
	if err := r.db.GetContext(ctx, &admin, query, username); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByID fetches an admin by id.
func (r *AdminRepository) FindByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	query := r.db.Rebind(`SELECT admin_id, username, password_hash, full_name, email, last_login, is_active
		FROM admin_users WHERE admin_id = ?`)
	var admin models.AdminUser
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		return nil, err
	}
	return &admin, nil
}

// ExistsByUsername checks whether the username is taken.
func (r *AdminRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists,
		r.db.Rebind("SELECT 1 FROM admin_users WHERE username = ? LIMIT 1"), username)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check admin username: %w", err)
	}
	return true, nil
}

// Create inserts a new active admin account and assigns its id.
func (r *AdminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	const query = `INSERT INTO admin_users (username, password_hash, full_name, email, is_active)
		VALUES (?, ?, ?, ?, ?)`
	id, err := insertReturningID(ctx, r.db, query, "admin_id",
		admin.Username, admin.PasswordHash, admin.FullName, admin.Email, admin.IsActive)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	admin.ID = id
	return nil
}

// UpdatePassword overwrites the stored hash.
func (r *AdminRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := r.db.Rebind("UPDATE admin_users SET password_hash = ? WHERE admin_id = ?")
	if _, err := r.db.ExecContext(ctx, query, passwordHash, id); err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps the login time.
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error {
	query := r.db.Rebind("UPDATE admin_users SET last_login = ? WHERE admin_id = ?")
	if _, err := r.db.ExecContext(ctx, query, ts, id); err != nil {
		return fmt.Errorf("update admin last login: %w", err)
	}
	return nil
}

// List returns all admin accounts without their password hashes, ordered
// by username.
func (r *AdminRepository) List(ctx context.Context) ([]models.AdminInfo, error) {
	const query = `SELECT admin_id, username, full_name, email, last_login, is_active
		FROM admin_users ORDER BY username`
	var admins []models.AdminInfo
	if err := r.db.SelectContext(ctx, &admins, query); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}
