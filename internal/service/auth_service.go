package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/faculty-directory-api/internal/models"
	"github.com/noah-isme/faculty-directory-api/pkg/config"
	appErrors "github.com/noah-isme/faculty-directory-api/pkg/errors"
)

type adminRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id int64) (*models.AdminUser, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, admin *models.AdminUser) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error
	List(ctx context.Context) ([]models.AdminInfo, error)
}

// AuthService authenticates admins and manages their accounts. New
// passwords are stored as bcrypt; verification also accepts legacy
// unsalted SHA-256 hex digests so accounts imported from the previous
// system keep working until their next rotation.
type AuthService struct {
	repo      adminRepository
	jwtCfg    config.JWTConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(repo adminRepository, jwtCfg config.JWTConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{repo: repo, jwtCfg: jwtCfg, validator: validate, logger: logger, now: time.Now}
}

// Login verifies credentials, stamps last_login, and issues a signed
// access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	admin, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load admin")
	}
	if !admin.IsActive {
		return nil, appErrors.ErrInactiveAccount
	}
	if !verifyPassword(admin.PasswordHash, req.Password) {
		return nil, appErrors.ErrInvalidCredentials
	}

	issued := s.now()
	if err := s.repo.UpdateLastLogin(ctx, admin.ID, issued); err != nil {
		// Non-fatal: the login itself succeeded.
		s.logger.Warn("failed to stamp last login", zap.Int64("admin_id", admin.ID), zap.Error(err))
	}

	token, err := s.issueToken(admin, issued)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	lastLogin := issued
	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtCfg.Expiration.Seconds()),
		IssuedAt:    issued,
		Admin: models.AdminInfo{
			ID:        admin.ID,
			Username:  admin.Username,
			FullName:  admin.FullName,
			Email:     admin.Email,
			LastLogin: &lastLogin,
			IsActive:  admin.IsActive,
		},
	}, nil
}

// ValidateToken parses and verifies an access token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}

// ChangePassword rotates an admin's password after verifying the current
// one. The new hash is always bcrypt, retiring any legacy digest.
func (s *AuthService) ChangePassword(ctx context.Context, adminID int64, req models.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid password payload")
	}

	admin, err := s.repo.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Admin not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load admin")
	}
	if !verifyPassword(admin.PasswordHash, req.CurrentPassword) {
		return appErrors.Clone(appErrors.ErrForbidden, "Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	if err := s.repo.UpdatePassword(ctx, adminID, string(hash)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update password")
	}
	s.logger.Info("admin password rotated", zap.Int64("admin_id", adminID))
	return nil
}

// CreateAdmin registers an additional admin account.
func (s *AuthService) CreateAdmin(ctx context.Context, req models.CreateAdminRequest) (*models.AdminInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}

	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check username")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "Username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	admin := &models.AdminUser{
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     normalizeOptional(&req.FullName),
		Email:        normalizeOptional(&req.Email),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create admin")
	}

	return &models.AdminInfo{
		ID:       admin.ID,
		Username: admin.Username,
		FullName: admin.FullName,
		Email:    admin.Email,
		IsActive: admin.IsActive,
	}, nil
}

// ListAdmins returns all admin accounts without their hashes.
func (s *AuthService) ListAdmins(ctx context.Context) ([]models.AdminInfo, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list admins")
	}
	return admins, nil
}

func (s *AuthService) issueToken(admin *models.AdminUser, issued time.Time) (string, error) {
	claims := models.JWTClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtCfg.Issuer,
			Subject:   admin.Username,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.jwtCfg.Expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}

// verifyPassword checks a candidate against a stored hash. Bcrypt hashes
// are tried first; a 64-char hex hash is treated as a legacy unsalted
// SHA-256 digest.
func verifyPassword(stored, candidate string) bool {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)); err == nil {
		return true
	}
	if len(stored) == 64 {
		sum := sha256.Sum256([]byte(candidate))
		digest := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(stored), []byte(digest)) == 1
	}
	return false
}

// Sha256Hex returns the legacy digest format, used when seeding the
// default admin for compatibility with existing data files.
func Sha256Hex(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
