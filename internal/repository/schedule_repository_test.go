package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-directory-api/internal/models"
)

func TestScheduleRepositoryHasConflict(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)
	repo := NewScheduleRepository(db)
	ctx := context.Background()

	cases := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"identical interval", "09:00", "11:00", true},
		{"overlapping tail", "10:00", "12:00", true},
		{"contained", "09:30", "10:30", true},
		{"touching at end", "11:00", "13:00", false},
		{"touching at start", "07:00", "09:00", false},
		{"disjoint", "13:00", "15:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conflict, err := repo.HasConflict(ctx, 1, "Monday", tc.start, tc.end, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, conflict)
		})
	}
}

func TestScheduleRepositoryHasConflictScopedToProfessorAndDay(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)
	repo := NewScheduleRepository(db)
	ctx := context.Background()

	conflict, err := repo.HasConflict(ctx, 2, "Monday", "09:00", "11:00", 0)
	require.NoError(t, err)
	assert.False(t, conflict, "different professor must not conflict")

	conflict, err = repo.HasConflict(ctx, 1, "Tuesday", "09:00", "11:00", 0)
	require.NoError(t, err)
	assert.False(t, conflict, "different day must not conflict")
}

func TestScheduleRepositoryHasConflictExcludesSelf(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)
	repo := NewScheduleRepository(db)
	ctx := context.Background()

	conflict, err := repo.HasConflict(ctx, 1, "Monday", "09:00", "12:00", 1)
	require.NoError(t, err)
	assert.False(t, conflict, "the entry being updated must not conflict with itself")

	conflict, err = repo.HasConflict(ctx, 1, "Monday", "09:00", "12:00", 0)
	require.NoError(t, err)
	assert.True(t, conflict)
}

func TestScheduleRepositoryCreateAssignsID(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)
	repo := NewScheduleRepository(db)

	entry := &models.ScheduleEntry{
		ProfessorID:  1,
		DayOfWeek:    "Tuesday",
		StartTime:    "08:00",
		EndTime:      "10:00",
		AcademicYear: "2023-2024",
		Semester:     "1st",
		CourseCode:   "CS201",
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.Greater(t, entry.ID, int64(1))

	found, err := repo.FindByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tuesday", found.DayOfWeek)
	assert.Nil(t, found.RoomLocation)
}

func TestScheduleRepositoryListForProfessorOrdering(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)
	repo := NewScheduleRepository(db)
	ctx := context.Background()

	extra := []*models.ScheduleEntry{
		{ProfessorID: 1, DayOfWeek: "Wednesday", StartTime: "08:00", EndTime: "09:00", AcademicYear: "2023-2024", Semester: "1st", CourseCode: "CS201"},
		{ProfessorID: 1, DayOfWeek: "Monday", StartTime: "07:00", EndTime: "08:00", AcademicYear: "2023-2024", Semester: "1st", CourseCode: "CS101"},
		{ProfessorID: 1, DayOfWeek: "Saturday", StartTime: "10:00", EndTime: "11:00", AcademicYear: "2023-2024", Semester: "Summer", CourseCode: "CS101"},
	}
	for _, e := range extra {
		require.NoError(t, repo.Create(ctx, e))
	}

	entries, err := repo.ListForProfessor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, "Monday", entries[0].DayOfWeek)
	assert.Equal(t, "07:00", entries[0].StartTime)
	assert.Equal(t, "Monday", entries[1].DayOfWeek)
	assert.Equal(t, "09:00", entries[1].StartTime)
	assert.Equal(t, "Wednesday", entries[2].DayOfWeek)
	assert.Equal(t, "Saturday", entries[3].DayOfWeek)

	if assert.NotNil(t, entries[0].CourseName) {
		assert.Equal(t, "Introduction to Programming", *entries[0].CourseName)
	}
}

func TestScheduleRepositoryListAll(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)
	repo := NewScheduleRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.ScheduleEntry{
		ProfessorID: 2, DayOfWeek: "Friday", StartTime: "14:00", EndTime: "16:00",
		AcademicYear: "2023-2024", Semester: "2nd", CourseCode: "CS201",
	}))

	entries, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Ordered by professor last name: Johnson before Smith.
	assert.Equal(t, "Johnson", entries[0].ProfessorLast)
	assert.Equal(t, "Smith", entries[1].ProfessorLast)
}

func TestScheduleRepositoryUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)
	repo := NewScheduleRepository(db)
	ctx := context.Background()

	entry, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	entry.StartTime = "10:00"
	entry.EndTime = "12:00"
	require.NoError(t, repo.Update(ctx, entry))

	updated, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "10:00", updated.StartTime)

	require.NoError(t, repo.Delete(ctx, 1))
	_, err = repo.FindByID(ctx, 1)
	require.Error(t, err)
}
