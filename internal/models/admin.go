package models

import "time"

// AdminUser holds credentials for the administrative surface. PasswordHash
// never serializes.
type AdminUser struct {
	ID           int64      `db:"admin_id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     *string    `db:"full_name" json:"full_name,omitempty"`
	Email        *string    `db:"email" json:"email,omitempty"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	IsActive     bool       `db:"is_active" json:"is_active"`
}

// AdminInfo is the hash-free projection handed to non-authentication
// callers.
type AdminInfo struct {
	ID        int64      `db:"admin_id" json:"id"`
	Username  string     `db:"username" json:"username"`
	FullName  *string    `db:"full_name" json:"full_name,omitempty"`
	Email     *string    `db:"email" json:"email,omitempty"`
	LastLogin *time.Time `db:"last_login" json:"last_login,omitempty"`
	IsActive  bool       `db:"is_active" json:"is_active"`
}
