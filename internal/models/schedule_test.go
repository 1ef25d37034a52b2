package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"identical", "09:00", "11:00", "09:00", "11:00", true},
		{"contained", "09:00", "12:00", "10:00", "11:00", true},
		{"partial", "09:00", "11:00", "10:00", "12:00", true},
		{"touching end to start", "09:00", "11:00", "11:00", "13:00", false},
		{"touching start to end", "11:00", "13:00", "09:00", "11:00", false},
		{"disjoint", "08:00", "09:00", "10:00", "11:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.s1, tc.e1, tc.s2, tc.e2))
			assert.Equal(t, tc.want, Overlaps(tc.s2, tc.e2, tc.s1, tc.e1))
		})
	}
}

func TestDayOrdinal(t *testing.T) {
	assert.Equal(t, 1, DayOrdinal("Monday"))
	assert.Equal(t, 6, DayOrdinal("Saturday"))
	assert.Equal(t, 0, DayOrdinal("Sunday"))
	assert.Equal(t, 0, DayOrdinal("monday"))
}

func TestValidSemester(t *testing.T) {
	for _, s := range Semesters {
		assert.True(t, ValidSemester(s))
	}
	assert.False(t, ValidSemester("3rd"))
	assert.False(t, ValidSemester(""))
}
