package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-directory-api/internal/models"
	appErrors "github.com/noah-isme/faculty-directory-api/pkg/errors"
)

type mockCourseRepo struct {
	items      map[string]*models.Course
	listResult []models.Course
	listErr    error
	deleteN    int
}

func (m *mockCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	return m.listResult, m.listErr
}

func (m *mockCourseRepo) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	if course, ok := m.items[code]; ok {
		cp := *course
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, ok := m.items[code]
	return ok, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.items == nil {
		m.items = make(map[string]*models.Course)
	}
	cp := *course
	m.items[course.Code] = &cp
	return nil
}

func (m *mockCourseRepo) UpdateName(ctx context.Context, code, name string) error {
	m.items[code].Name = name
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, code string) (int, error) {
	delete(m.items, code)
	return m.deleteN, nil
}

func TestCourseServiceCreate(t *testing.T) {
	repo := &mockCourseRepo{items: map[string]*models.Course{
		"CS101": {Code: "CS101", Name: "Introduction to Programming"},
	}}
	svc := NewCourseService(repo, nil, nil)

	t.Run("rejects duplicate code", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateCourseRequest{Code: "CS101", Name: "Anything"})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrDuplicateKey))
		assert.Equal(t, "Course code 'CS101' already exists", appErrors.FromError(err).Message)
	})

	t.Run("trims code and name", func(t *testing.T) {
		course, err := svc.Create(context.Background(), CreateCourseRequest{Code: " CS201 ", Name: " Data Structures "})
		require.NoError(t, err)
		assert.Equal(t, "CS201", course.Code)
		assert.Equal(t, "Data Structures", course.Name)
	})

	t.Run("requires code and name", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateCourseRequest{Code: "CS301"})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	})
}

func TestCourseServiceUpdate(t *testing.T) {
	repo := &mockCourseRepo{items: map[string]*models.Course{
		"CS101": {Code: "CS101", Name: "Introduction to Programming"},
	}}
	svc := NewCourseService(repo, nil, nil)

	t.Run("renames existing course", func(t *testing.T) {
		course, err := svc.Update(context.Background(), "CS101", UpdateCourseRequest{Name: "Programming Fundamentals"})
		require.NoError(t, err)
		assert.Equal(t, "CS101", course.Code)
		assert.Equal(t, "Programming Fundamentals", course.Name)
		assert.Equal(t, "Programming Fundamentals", repo.items["CS101"].Name)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "CS999", UpdateCourseRequest{Name: "Ghost Course"})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
		assert.Equal(t, "Course not found", appErrors.FromError(err).Message)
	})
}

func TestCourseServiceDelete(t *testing.T) {
	repo := &mockCourseRepo{items: map[string]*models.Course{
		"CS101": {Code: "CS101", Name: "Introduction to Programming"},
	}, deleteN: 4}
	svc := NewCourseService(repo, nil, nil)

	affected, err := svc.Delete(context.Background(), "CS101")
	require.NoError(t, err)
	assert.Equal(t, 4, affected)

	_, err = svc.Delete(context.Background(), "CS101")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
