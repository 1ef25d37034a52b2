package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/faculty-directory-api/internal/models"
	"github.com/noah-isme/faculty-directory-api/pkg/config"
	appErrors "github.com/noah-isme/faculty-directory-api/pkg/errors"
)

type mockAdminRepo struct {
	items      map[int64]*models.AdminUser
	nextID     int64
	lastLogins map[int64]time.Time
	passwords  map[int64]string
}

func (m *mockAdminRepo) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	for _, admin := range m.items {
		if admin.Username == username {
			cp := *admin
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAdminRepo) FindByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	if admin, ok := m.items[id]; ok {
		cp := *admin
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAdminRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for _, admin := range m.items {
		if admin.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAdminRepo) Create(ctx context.Context, admin *models.AdminUser) error {
	if m.items == nil {
		m.items = make(map[int64]*models.AdminUser)
	}
	m.nextID++
	admin.ID = m.nextID
	cp := *admin
	m.items[admin.ID] = &cp
	return nil
}

func (m *mockAdminRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if m.passwords == nil {
		m.passwords = make(map[int64]string)
	}
	m.passwords[id] = passwordHash
	m.items[id].PasswordHash = passwordHash
	return nil
}

func (m *mockAdminRepo) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error {
	if m.lastLogins == nil {
		m.lastLogins = make(map[int64]time.Time)
	}
	m.lastLogins[id] = ts
	return nil
}

func (m *mockAdminRepo) List(ctx context.Context) ([]models.AdminInfo, error) {
	var out []models.AdminInfo
	for _, admin := range m.items {
		out = append(out, models.AdminInfo{ID: admin.ID, Username: admin.Username, IsActive: admin.IsActive})
	}
	return out, nil
}

var testJWTConfig = config.JWTConfig{
	Secret:     "test-secret",
	Expiration: time.Hour,
	Issuer:     "faculty-directory-test",
}

func newAuthFixture(t *testing.T) (*AuthService, *mockAdminRepo) {
	t.Helper()
	bcryptHash, err := bcrypt.GenerateFromPassword([]byte("s3cur3pass"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockAdminRepo{items: map[int64]*models.AdminUser{
		1: {ID: 1, Username: "admin", PasswordHash: Sha256Hex("admin123"), IsActive: true},
		2: {ID: 2, Username: "modern", PasswordHash: string(bcryptHash), IsActive: true},
		3: {ID: 3, Username: "retired", PasswordHash: Sha256Hex("admin123"), IsActive: false},
	}, nextID: 3}
	return NewAuthService(repo, testJWTConfig, nil, nil), repo
}

func TestAuthServiceLogin(t *testing.T) {
	t.Run("legacy sha256 hash still authenticates", func(t *testing.T) {
		svc, repo := newAuthFixture(t)
		resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "admin123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, int64(3600), resp.ExpiresIn)
		assert.Equal(t, "admin", resp.Admin.Username)
		assert.Contains(t, repo.lastLogins, int64(1))
	})

	t.Run("bcrypt hash authenticates", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "modern", Password: "s3cur3pass"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "wrong"})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidCredentials))
	})

	t.Run("unknown username looks like bad credentials", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		_, err := svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "admin123"})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidCredentials))
	})

	t.Run("inactive account", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		_, err := svc.Login(context.Background(), models.LoginRequest{Username: "retired", Password: "admin123"})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrInactiveAccount))
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin"})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	})
}

func TestAuthServiceValidateToken(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "admin123"})
		require.NoError(t, err)

		claims, err := svc.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.AdminID)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, testJWTConfig.Issuer, claims.Issuer)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		svc, repo := newAuthFixture(t)
		other := NewAuthService(repo, config.JWTConfig{Secret: "other-secret", Expiration: time.Hour}, nil, nil)

		resp, err := other.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "admin123"})
		require.NoError(t, err)

		_, err = svc.ValidateToken(resp.AccessToken)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized))
	})

	t.Run("rejects expired token", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

		resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "admin123"})
		require.NoError(t, err)

		_, err = svc.ValidateToken(resp.AccessToken)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		_, err := svc.ValidateToken("not.a.token")
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized))
	})
}

func TestAuthServiceChangePassword(t *testing.T) {
	t.Run("wrong current password", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		err := svc.ChangePassword(context.Background(), 1, models.ChangePasswordRequest{
			CurrentPassword: "wrong",
			NewPassword:     "brandnewpass",
		})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
		assert.Equal(t, "Current password is incorrect", appErrors.FromError(err).Message)
	})

	t.Run("rotation retires the legacy hash", func(t *testing.T) {
		svc, repo := newAuthFixture(t)
		err := svc.ChangePassword(context.Background(), 1, models.ChangePasswordRequest{
			CurrentPassword: "admin123",
			NewPassword:     "brandnewpass",
		})
		require.NoError(t, err)

		stored := repo.passwords[1]
		require.NotEmpty(t, stored)
		assert.NotEqual(t, Sha256Hex("brandnewpass"), stored)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("brandnewpass")))

		// The new password works on the next login.
		_, err = svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "brandnewpass"})
		require.NoError(t, err)
	})

	t.Run("enforces minimum length", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		err := svc.ChangePassword(context.Background(), 1, models.ChangePasswordRequest{
			CurrentPassword: "admin123",
			NewPassword:     "short",
		})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	})
}

func TestAuthServiceCreateAdmin(t *testing.T) {
	t.Run("rejects duplicate username", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		_, err := svc.CreateAdmin(context.Background(), models.CreateAdminRequest{
			Username: "admin",
			Password: "brandnewpass",
		})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrDuplicateKey))
		assert.Equal(t, "Username already exists", appErrors.FromError(err).Message)
	})

	t.Run("creates an active bcrypt account", func(t *testing.T) {
		svc, repo := newAuthFixture(t)
		info, err := svc.CreateAdmin(context.Background(), models.CreateAdminRequest{
			Username: "registrar",
			Password: "brandnewpass",
			FullName: "Office Registrar",
			Email:    "registrar@university.edu",
		})
		require.NoError(t, err)
		assert.True(t, info.IsActive)
		require.NotNil(t, info.FullName)
		assert.Equal(t, "Office Registrar", *info.FullName)

		stored := repo.items[info.ID].PasswordHash
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("brandnewpass")))
	})
}
