package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-directory-api/internal/models"
)

func TestDepartmentRepositoryListWithCounts(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)
	repo := NewDepartmentRepository(db)

	departments, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, 2)

	// Alphabetical by name.
	assert.Equal(t, "Computer Engineering", departments[0].Name)
	assert.Equal(t, 1, departments[0].ProfessorCount)
	assert.Equal(t, "Software Engineering", departments[1].Name)
	assert.Equal(t, 1, departments[1].ProfessorCount)
}

func TestDepartmentRepositoryCreateAndExistsByName(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)
	repo := NewDepartmentRepository(db)
	ctx := context.Background()

	building, room := 3, 301
	dept := &models.Department{Name: "Network Engineering", BuildingNum: &building, RoomNum: &room}
	require.NoError(t, repo.Create(ctx, dept))
	assert.NotZero(t, dept.ID)

	exists, err := repo.ExistsByName(ctx, "Network Engineering", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	// The department itself is excluded when checking for rename clashes.
	exists, err = repo.ExistsByName(ctx, "Network Engineering", dept.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByName(ctx, "Quantum Engineering", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDepartmentRepositoryDeleteDetach(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)
	repo := NewDepartmentRepository(db)
	ctx := context.Background()

	affected, err := repo.DeleteDetach(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	_, err = repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// The professor survives with a null department; their schedule stays.
	var officeID *int64
	require.NoError(t, db.Get(&officeID, "SELECT office_id FROM professors WHERE faculty_id = 1"))
	assert.Nil(t, officeID)
	assert.Equal(t, 1, countRows(t, db, "professor_sched"))
}

func TestDepartmentRepositoryDeleteCascade(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)
	repo := NewDepartmentRepository(db)
	ctx := context.Background()

	affected, err := repo.DeleteCascade(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	assert.Equal(t, 1, countRows(t, db, "professors"))
	assert.Equal(t, 0, countRows(t, db, "professor_sched"))
	assert.Equal(t, 1, countRows(t, db, "faculty"))
}
