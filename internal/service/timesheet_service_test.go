package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/tutorhub/internal/model"
)

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		name      string
		in        time.Time
		wantStart time.Time
	}{
		{name: "wednesday", in: time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC), wantStart: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{name: "monday is its own start", in: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), wantStart: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{name: "sunday belongs to the preceding monday", in: time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC), wantStart: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := weekBounds(tt.in)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantStart.AddDate(0, 0, 6), end)
			assert.Equal(t, time.Monday, start.Weekday())
			assert.Equal(t, time.Sunday, end.Weekday())
		})
	}
}

func TestBuildGroupEntries(t *testing.T) {
	tutorID, weeklyID := uuid.New(), uuid.New()
	aliceID, bobID := uuid.New(), uuid.New()
	date := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	session := &model.GroupSession{
		TutorID: tutorID,
		Subject: "Maths",
		Date:    date,
		Attendance: []model.GroupAttendance{
			{StudentID: aliceID, Present: true},
			{StudentID: bobID, Present: false, Note: "called in sick"},
		},
	}

	entries := buildGroupEntries(session, 1.5, "30.00", weeklyID)
	require.Len(t, entries, 2)

	for _, entry := range entries {
		assert.Equal(t, tutorID, entry.TutorID)
		assert.Equal(t, date, entry.Date)
		assert.Equal(t, 1.5, entry.Duration)
		assert.Equal(t, "30.00", entry.TutorEarnings)
		assert.Equal(t, model.EntryStatusPending, entry.Status)
		assert.Equal(t, model.SessionTypeGroup, entry.SessionType)
		require.NotNil(t, entry.WeeklyTimesheetID)
		assert.Equal(t, weeklyID, *entry.WeeklyTimesheetID)
	}

	require.NotNil(t, entries[0].StudentID)
	assert.Equal(t, aliceID, *entries[0].StudentID)
	require.NotNil(t, entries[1].StudentID)
	assert.Equal(t, bobID, *entries[1].StudentID)
	assert.Equal(t, "called in sick", entries[1].Notes)
}
