package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/tutorhub/internal/model"
)

func occ(start, end time.Time, status model.OccurrenceStatus) *model.SessionOccurrence {
	return &model.SessionOccurrence{
		ID:        uuid.New(),
		TutorID:   uuid.New(),
		Subject:   "Maths",
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
}

func TestResolveStyle(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := occ(now.Add(-2*time.Hour), now.Add(-time.Hour), model.OccurrenceStatusScheduled)
	future := occ(now.Add(time.Hour), now.Add(2*time.Hour), model.OccurrenceStatusScheduled)

	pendingCancel := &model.ChangeRequest{
		Type:   model.ChangeRequestCancel,
		Status: model.ChangeRequestStatusPending,
	}
	pendingReschedule := &model.ChangeRequest{
		Type:   model.ChangeRequestReschedule,
		Status: model.ChangeRequestStatusPending,
	}
	approvedCancel := &model.ChangeRequest{
		Type:   model.ChangeRequestCancel,
		Status: model.ChangeRequestStatusApproved,
	}

	tests := []struct {
		name     string
		occ      *model.SessionOccurrence
		pending  *model.ChangeRequest
		isLogged bool
		want     model.EventStyle
	}{
		{name: "default scheduled", occ: future, want: model.StyleScheduled},
		{name: "confirmed", occ: occ(now.Add(time.Hour), now.Add(2*time.Hour), model.OccurrenceStatusConfirmed), want: model.StyleConfirmed},
		{name: "past unactioned", occ: past, want: model.StyleNeedsAction},
		{name: "past but logged", occ: past, isLogged: true, want: model.StyleCompleted},
		{name: "completed status", occ: occ(now.Add(-2*time.Hour), now.Add(-time.Hour), model.OccurrenceStatusCompleted), want: model.StyleCompleted},
		{name: "cancelled status", occ: occ(now.Add(-2*time.Hour), now.Add(-time.Hour), model.OccurrenceStatusCancelled), want: model.StyleCancelled},
		{name: "no-show status", occ: occ(now.Add(-2*time.Hour), now.Add(-time.Hour), model.OccurrenceStatusNoShow), want: model.StyleNoShow},
		{name: "pending cancel wins over everything", occ: occ(now.Add(-2*time.Hour), now.Add(-time.Hour), model.OccurrenceStatusCancelled), pending: pendingCancel, want: model.StyleTentativeCancel},
		{name: "pending reschedule wins over cancelled", occ: occ(now.Add(-2*time.Hour), now.Add(-time.Hour), model.OccurrenceStatusCancelled), pending: pendingReschedule, want: model.StyleTentativeReschedule},
		{name: "pending reschedule wins over logged", occ: past, pending: pendingReschedule, isLogged: true, want: model.StyleTentativeReschedule},
		{name: "resolved request no longer counts", occ: future, pending: approvedCancel, want: model.StyleScheduled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStyle(tt.occ, tt.pending, tt.isLogged, now))
		})
	}
}

func TestNeedsAction(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	logged := make(map[uuid.UUID]struct{})

	pastScheduled := occ(now.Add(-2*time.Hour), now.Add(-time.Hour), model.OccurrenceStatusScheduled)
	pastConfirmed := occ(now.Add(-2*time.Hour), now.Add(-time.Hour), model.OccurrenceStatusConfirmed)
	pastCancelled := occ(now.Add(-2*time.Hour), now.Add(-time.Hour), model.OccurrenceStatusCancelled)
	pastCompleted := occ(now.Add(-2*time.Hour), now.Add(-time.Hour), model.OccurrenceStatusCompleted)
	futureScheduled := occ(now.Add(time.Hour), now.Add(2*time.Hour), model.OccurrenceStatusScheduled)
	pastLogged := occ(now.Add(-2*time.Hour), now.Add(-time.Hour), model.OccurrenceStatusScheduled)
	logged[pastLogged.ID] = struct{}{}

	tests := []struct {
		name string
		occ  *model.SessionOccurrence
		want bool
	}{
		{name: "past scheduled unlogged", occ: pastScheduled, want: true},
		{name: "past confirmed unlogged", occ: pastConfirmed, want: true},
		{name: "past cancelled", occ: pastCancelled, want: false},
		{name: "past completed", occ: pastCompleted, want: false},
		{name: "future scheduled", occ: futureScheduled, want: false},
		{name: "past scheduled but logged", occ: pastLogged, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsAction(tt.occ, logged, now))
		})
	}

	flagged := SessionsNeedingAction(
		[]*model.SessionOccurrence{pastScheduled, pastConfirmed, pastCancelled, futureScheduled, pastLogged},
		logged, now)
	require.Len(t, flagged, 2)
	assert.Equal(t, pastScheduled.ID, flagged[0].ID)
	assert.Equal(t, pastConfirmed.ID, flagged[1].ID)
}

func TestProjectEventsGroupBucketing(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	start := now.Add(24 * time.Hour)
	end := start.Add(time.Hour)

	groupID := uuid.New()
	aliceID, bobID := uuid.New(), uuid.New()

	a := occ(start, end, model.OccurrenceStatusScheduled)
	a.GroupID = &groupID
	a.StudentID = &aliceID
	b := occ(start, end, model.OccurrenceStatusScheduled)
	b.GroupID = &groupID
	b.StudentID = &bobID

	// same group id, different time: a separate bucket
	c := occ(start.Add(48*time.Hour), end.Add(48*time.Hour), model.OccurrenceStatusScheduled)
	c.GroupID = &groupID
	c.StudentID = &aliceID

	solo := occ(start.Add(2*time.Hour), end.Add(2*time.Hour), model.OccurrenceStatusScheduled)
	solo.StudentID = &aliceID

	events := ProjectEvents(ProjectorInput{
		Occurrences: []*model.SessionOccurrence{a, b, c, solo},
		Students: map[uuid.UUID]model.Student{
			aliceID: {ID: aliceID, Name: "Alice"},
			bobID:   {ID: bobID, Name: "Bob"},
		},
		Now: now,
	})

	// two group buckets plus the individual event
	require.Len(t, events, 3)

	assert.Equal(t, model.EventKindGroupSession, events[0].Kind)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, events[0].OccurrenceIDs)
	assert.Equal(t, "Maths (Alice, Bob)", events[0].Title)
	require.Len(t, events[0].Members, 2)

	assert.Equal(t, model.EventKindSession, events[1].Kind)
	assert.Equal(t, "Alice - Maths", events[1].Title)

	assert.Equal(t, model.EventKindGroupSession, events[2].Kind)
	assert.Equal(t, []uuid.UUID{c.ID}, events[2].OccurrenceIDs)

	// output is sorted by start time
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Start.Before(events[i-1].Start))
	}
}

func TestProjectEventsGroupStyle(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	start := now.Add(-3 * time.Hour)
	end := start.Add(time.Hour)

	groupID := uuid.New()
	a := occ(start, end, model.OccurrenceStatusScheduled)
	a.GroupID = &groupID
	b := occ(start, end, model.OccurrenceStatusScheduled)
	b.GroupID = &groupID

	// only one of the two logged: the unlogged one drives the style
	events := ProjectEvents(ProjectorInput{
		Occurrences: []*model.SessionOccurrence{a, b},
		LoggedIDs:   map[uuid.UUID]struct{}{a.ID: {}},
		Now:         now,
	})
	require.Len(t, events, 1)
	assert.Equal(t, model.StyleNeedsAction, events[0].Style)

	// both logged: completed
	events = ProjectEvents(ProjectorInput{
		Occurrences: []*model.SessionOccurrence{a, b},
		LoggedIDs:   map[uuid.UUID]struct{}{a.ID: {}, b.ID: {}},
		Now:         now,
	})
	require.Len(t, events, 1)
	assert.Equal(t, model.StyleCompleted, events[0].Style)
}

func TestProjectEventsGroupMemberSources(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	start := now.Add(24 * time.Hour)
	end := start.Add(time.Hour)
	groupID := uuid.New()

	alice := model.Student{ID: uuid.New(), Name: "Alice"}
	bob := model.Student{ID: uuid.New(), Name: "Bob"}

	t.Run("denormalized members on the rows win", func(t *testing.T) {
		a := occ(start, end, model.OccurrenceStatusScheduled)
		a.GroupID = &groupID
		a.GroupMembers = []model.Student{alice, bob}

		events := ProjectEvents(ProjectorInput{
			Occurrences: []*model.SessionOccurrence{a},
			// a conflicting group record must not override the rows
			Groups: map[uuid.UUID][]model.Student{groupID: {alice}},
			Now:    now,
		})
		require.Len(t, events, 1)
		assert.Equal(t, "Maths (Alice, Bob)", events[0].Title)
		assert.Len(t, events[0].Members, 2)
	})

	t.Run("group record fills in when the rows are bare", func(t *testing.T) {
		a := occ(start, end, model.OccurrenceStatusScheduled)
		a.GroupID = &groupID
		b := occ(start, end, model.OccurrenceStatusScheduled)
		b.GroupID = &groupID

		events := ProjectEvents(ProjectorInput{
			Occurrences: []*model.SessionOccurrence{a, b},
			Groups:      map[uuid.UUID][]model.Student{groupID: {alice, bob}},
			Now:         now,
		})
		require.Len(t, events, 1)
		assert.Equal(t, "Maths (Alice, Bob)", events[0].Title)
		assert.Len(t, events[0].Members, 2)
	})

	t.Run("bucket students are the last resort", func(t *testing.T) {
		a := occ(start, end, model.OccurrenceStatusScheduled)
		a.GroupID = &groupID
		a.StudentID = &alice.ID

		events := ProjectEvents(ProjectorInput{
			Occurrences: []*model.SessionOccurrence{a},
			Students:    map[uuid.UUID]model.Student{alice.ID: alice},
			Now:         now,
		})
		require.Len(t, events, 1)
		assert.Equal(t, "Maths (Alice)", events[0].Title)
	})
}

func TestExpandRecurringSlot(t *testing.T) {
	// Wednesday
	now := time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC)
	require.Equal(t, time.Wednesday, now.Weekday())

	slot := &model.AvailabilitySlot{
		ID:          uuid.New(),
		DayOfWeek:   1, // Monday
		StartTime:   "16:00",
		EndTime:     "18:30",
		IsRecurring: true,
	}

	events := ExpandRecurringSlot(slot, now)

	// anchor is next Monday; the -1 week instance falls before today and
	// is dropped, leaving weeks 0..6
	require.Len(t, events, 7)

	first := events[0]
	assert.Equal(t, time.Date(2026, 3, 16, 16, 0, 0, 0, time.UTC), first.Start)
	assert.Equal(t, time.Date(2026, 3, 16, 18, 30, 0, 0, time.UTC), first.End)
	assert.Equal(t, model.StyleAvailability, first.Style)
	assert.Equal(t, "availability-"+slot.ID.String()+"-2026-03-16", first.ID)

	for i, ev := range events {
		assert.Equal(t, time.Monday, ev.Start.Weekday())
		if i > 0 {
			assert.Equal(t, 7*24*time.Hour, ev.Start.Sub(events[i-1].Start))
		}
	}
}

func TestExpandRecurringSlotSameDayKeepsPriorWeek(t *testing.T) {
	// Monday: the anchor is today, so the -1 week instance is in the past
	// and dropped, but today's own instance stays
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, now.Weekday())

	slot := &model.AvailabilitySlot{
		ID:          uuid.New(),
		DayOfWeek:   1,
		StartTime:   "16:00",
		EndTime:     "17:00",
		IsRecurring: true,
	}

	events := ExpandRecurringSlot(slot, now)
	require.Len(t, events, 7)
	assert.Equal(t, time.Date(2026, 3, 9, 16, 0, 0, 0, time.UTC), events[0].Start)
}

func TestExpandRecurringSlotSeasonal(t *testing.T) {
	slot := &model.AvailabilitySlot{
		ID:          uuid.New(),
		DayOfWeek:   1,
		StartTime:   "16:00",
		EndTime:     "17:00",
		IsRecurring: false,
	}
	assert.Empty(t, ExpandRecurringSlot(slot, time.Now()))
}

func TestProjectEventsMockExamOverlay(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	studentID := uuid.New()
	exam := &model.MockExamBooking{
		ID:        uuid.New(),
		StudentID: studentID,
		Subject:   "Physics",
		ExamDate:  time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
	}

	events := ProjectEvents(ProjectorInput{
		MockExams: []*model.MockExamBooking{exam},
		Students:  map[uuid.UUID]model.Student{studentID: {ID: studentID, Name: "Alice"}},
		Now:       now,
	})

	require.Len(t, events, 1)
	ev := events[0]
	assert.True(t, ev.AllDay)
	assert.False(t, ev.Clickable)
	assert.Equal(t, model.StyleMockExam, ev.Style)
	assert.Equal(t, "Mock exam: Physics (Alice)", ev.Title)
	assert.Equal(t, exam.ExamDate.AddDate(0, 0, 1), ev.End)
}
