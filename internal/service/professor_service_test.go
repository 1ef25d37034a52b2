package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-directory-api/internal/models"
	appErrors "github.com/noah-isme/faculty-directory-api/pkg/errors"
)

type mockProfessorRepo struct {
	items   map[int64]*models.ProfessorDetail
	nextID  int64
	deleteN int
	photos  map[int64]*string
}

func (m *mockProfessorRepo) List(ctx context.Context) ([]models.ProfessorDetail, error) {
	var out []models.ProfessorDetail
	for _, p := range m.items {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProfessorRepo) FindByID(ctx context.Context, id int64) (*models.ProfessorDetail, error) {
	if prof, ok := m.items[id]; ok {
		cp := *prof
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProfessorRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	for _, p := range m.items {
		if p.Email == email && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProfessorRepo) Create(ctx context.Context, prof *models.Professor) error {
	if m.items == nil {
		m.items = make(map[int64]*models.ProfessorDetail)
	}
	m.nextID++
	prof.ID = m.nextID
	m.items[prof.ID] = &models.ProfessorDetail{Professor: *prof}
	return nil
}

func (m *mockProfessorRepo) Update(ctx context.Context, prof *models.Professor) error {
	m.items[prof.ID] = &models.ProfessorDetail{Professor: *prof}
	return nil
}

func (m *mockProfessorRepo) UpdatePhoto(ctx context.Context, id int64, photoURL *string) error {
	if m.photos == nil {
		m.photos = make(map[int64]*string)
	}
	m.photos[id] = photoURL
	return nil
}

func (m *mockProfessorRepo) Delete(ctx context.Context, id int64) (int, error) {
	delete(m.items, id)
	return m.deleteN, nil
}

func (m *mockProfessorRepo) ListByDepartment(ctx context.Context, departmentName string) ([]models.ProfessorDetail, error) {
	var out []models.ProfessorDetail
	for _, p := range m.items {
		if p.DepartmentName != nil && *p.DepartmentName == departmentName {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProfessorRepo) FilterByCourse(ctx context.Context, courseName string) ([]models.ProfessorDetail, error) {
	return nil, nil
}

func (m *mockProfessorRepo) Search(ctx context.Context, term string) ([]models.ProfessorDetail, error) {
	return nil, nil
}

type mockPhotoStore struct {
	saved   []string
	deleted []string
	saveErr error
}

func (m *mockPhotoStore) Save(originalName string, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	name := "stored_" + originalName
	m.saved = append(m.saved, name)
	return name, nil
}

func (m *mockPhotoStore) Delete(name string) error {
	m.deleted = append(m.deleted, name)
	return nil
}

func strPtr(v string) *string { return &v }

func TestProfessorServiceCreate(t *testing.T) {
	depts := &mockDepartmentRepo{items: map[int64]*models.Department{
		1: {ID: 1, Name: "Computer Engineering"},
	}}
	repo := &mockProfessorRepo{items: map[int64]*models.ProfessorDetail{
		1: {Professor: models.Professor{ID: 1, FirstName: "John", LastName: "Smith", Email: "john.smith@university.edu"}},
	}, nextID: 1}
	svc := NewProfessorService(repo, depts, nil, nil, nil)

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := svc.Create(context.Background(), ProfessorRequest{
			FirstName: "Johnny",
			LastName:  "Smithers",
			Email:     "john.smith@university.edu",
		})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrDuplicateKey))
		assert.Equal(t, "Email 'john.smith@university.edu' already in use", appErrors.FromError(err).Message)
	})

	t.Run("rejects unknown department", func(t *testing.T) {
		_, err := svc.Create(context.Background(), ProfessorRequest{
			FirstName:  "Emily",
			LastName:   "Johnson",
			Email:      "emily.johnson@university.edu",
			Department: "Astrology",
		})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrReferenceMissing))
		assert.Equal(t, "Department 'Astrology' not found", appErrors.FromError(err).Message)
	})

	t.Run("resolves department by name", func(t *testing.T) {
		prof, err := svc.Create(context.Background(), ProfessorRequest{
			FirstName:  "Emily",
			LastName:   "Johnson",
			Email:      "emily.johnson@university.edu",
			Department: "Computer Engineering",
			Specialty:  strPtr("  Software Design  "),
		})
		require.NoError(t, err)
		require.NotNil(t, prof.DepartmentID)
		assert.Equal(t, int64(1), *prof.DepartmentID)
		require.NotNil(t, prof.Specialty)
		assert.Equal(t, "Software Design", *prof.Specialty)
	})

	t.Run("empty department leaves professor unassigned", func(t *testing.T) {
		prof, err := svc.Create(context.Background(), ProfessorRequest{
			FirstName: "Michael",
			LastName:  "Williams",
			Email:     "michael.williams@university.edu",
		})
		require.NoError(t, err)
		assert.Nil(t, prof.DepartmentID)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := svc.Create(context.Background(), ProfessorRequest{
			FirstName: "Sarah",
			LastName:  "Brown",
			Email:     "not-an-email",
		})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	})
}

func TestProfessorServiceUpdate(t *testing.T) {
	depts := &mockDepartmentRepo{items: map[int64]*models.Department{
		1: {ID: 1, Name: "Computer Engineering"},
	}}
	repo := &mockProfessorRepo{items: map[int64]*models.ProfessorDetail{
		1: {Professor: models.Professor{ID: 1, FirstName: "John", LastName: "Smith", Email: "john.smith@university.edu"}},
		2: {Professor: models.Professor{ID: 2, FirstName: "Emily", LastName: "Johnson", Email: "emily.johnson@university.edu"}},
	}, nextID: 2}
	svc := NewProfessorService(repo, depts, nil, nil, nil)

	t.Run("keeping own email is not a duplicate", func(t *testing.T) {
		prof, err := svc.Update(context.Background(), 1, ProfessorRequest{
			FirstName: "Jonathan",
			LastName:  "Smith",
			Email:     "john.smith@university.edu",
		})
		require.NoError(t, err)
		assert.Equal(t, "Jonathan", prof.FirstName)
	})

	t.Run("stealing another email fails", func(t *testing.T) {
		_, err := svc.Update(context.Background(), 1, ProfessorRequest{
			FirstName: "John",
			LastName:  "Smith",
			Email:     "emily.johnson@university.edu",
		})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrDuplicateKey))
	})

	t.Run("unknown professor", func(t *testing.T) {
		_, err := svc.Update(context.Background(), 99, ProfessorRequest{
			FirstName: "Nobody",
			LastName:  "Here",
			Email:     "nobody@university.edu",
		})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
	})
}

func TestProfessorServiceDelete(t *testing.T) {
	photos := &mockPhotoStore{}
	repo := &mockProfessorRepo{items: map[int64]*models.ProfessorDetail{
		1: {Professor: models.Professor{
			ID: 1, FirstName: "John", LastName: "Smith",
			Email:    "john.smith@university.edu",
			PhotoURL: strPtr("abc123.jpg"),
		}},
	}, deleteN: 3}
	svc := NewProfessorService(repo, &mockDepartmentRepo{}, photos, nil, nil)

	affected, err := svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, affected)
	assert.Equal(t, []string{"abc123.jpg"}, photos.deleted)

	_, err = svc.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestProfessorServiceAttachPhoto(t *testing.T) {
	photos := &mockPhotoStore{}
	repo := &mockProfessorRepo{items: map[int64]*models.ProfessorDetail{
		1: {Professor: models.Professor{
			ID: 1, FirstName: "John", LastName: "Smith",
			Email:    "john.smith@university.edu",
			PhotoURL: strPtr("old.jpg"),
		}},
	}}
	svc := NewProfessorService(repo, &mockDepartmentRepo{}, photos, nil, nil)

	name, err := svc.AttachPhoto(context.Background(), 1, "portrait.jpg", strings.NewReader("bytes"))
	require.NoError(t, err)
	assert.Equal(t, "stored_portrait.jpg", name)
	require.NotNil(t, repo.photos[1])
	assert.Equal(t, name, *repo.photos[1])
	// The replaced photo is cleaned up after the new one is recorded.
	assert.Equal(t, []string{"old.jpg"}, photos.deleted)

	_, err = svc.AttachPhoto(context.Background(), 42, "portrait.jpg", strings.NewReader("bytes"))
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
