package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/tutorhub/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func TestGroupEntries(t *testing.T) {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	groupID := uuid.New()
	aliceID, bobID := uuid.New(), uuid.New()

	entries := []*model.TimesheetEntry{
		{
			ID:             uuid.New(),
			StudentID:      &aliceID,
			StudentName:    "Alice",
			Date:           day.AddDate(0, 0, 1),
			Duration:       1.0,
			TutorEarnings:  "20.00",
			SessionType:    model.SessionTypeGroup,
			GroupSessionID: &groupID,
			Present:        boolPtr(true),
		},
		{
			ID:            uuid.New(),
			StudentID:     &aliceID,
			Date:          day,
			Duration:      2.0,
			TutorEarnings: "45.50",
			SessionType:   model.SessionTypeIndividual,
		},
		{
			ID:             uuid.New(),
			StudentID:      &bobID,
			StudentName:    "Bob",
			Date:           day.AddDate(0, 0, 1),
			Duration:       1.5,
			TutorEarnings:  "30.00",
			SessionType:    model.SessionTypeGroup,
			GroupSessionID: &groupID,
			Present:        boolPtr(false),
		},
	}

	grouped := GroupEntries(entries)
	require.Len(t, grouped, 2)

	// sorted ascending by date: the individual entry comes first
	individual := grouped[0]
	assert.Equal(t, model.GroupedEntryIndividual, individual.Type)
	assert.Equal(t, day, individual.Date)
	assert.Equal(t, 2.0, individual.TotalDuration)
	assert.Equal(t, "45.50", individual.TotalEarnings)
	require.Len(t, individual.Entries, 1)

	group := grouped[1]
	assert.Equal(t, model.GroupedEntryGroup, group.Type)
	assert.Equal(t, groupID, group.ID)
	assert.Equal(t, 2.5, group.TotalDuration)
	assert.Equal(t, "50.00", group.TotalEarnings)
	require.Len(t, group.Entries, 2)
	require.Len(t, group.Members, 2)
	assert.Equal(t, "Alice", group.Members[0].StudentName)
	assert.True(t, *group.Members[0].Present)
	assert.Equal(t, "Bob", group.Members[1].StudentName)
	assert.False(t, *group.Members[1].Present)
}

func TestGroupEntriesWithoutGroupSessionID(t *testing.T) {
	// a group-type entry missing its group session id stays a singleton
	entry := &model.TimesheetEntry{
		ID:            uuid.New(),
		Date:          time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		Duration:      1.0,
		TutorEarnings: "20.00",
		SessionType:   model.SessionTypeGroup,
	}

	grouped := GroupEntries([]*model.TimesheetEntry{entry})
	require.Len(t, grouped, 1)
	assert.Equal(t, model.GroupedEntryIndividual, grouped[0].Type)
	assert.Equal(t, entry.ID, grouped[0].ID)
}

func TestGroupEntriesUnparseableEarnings(t *testing.T) {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	groupID := uuid.New()

	grouped := GroupEntries([]*model.TimesheetEntry{
		{ID: uuid.New(), Date: day, Duration: 1, TutorEarnings: "20.00", SessionType: model.SessionTypeGroup, GroupSessionID: &groupID},
		{ID: uuid.New(), Date: day, Duration: 1, TutorEarnings: "oops", SessionType: model.SessionTypeGroup, GroupSessionID: &groupID},
	})
	require.Len(t, grouped, 1)
	assert.Equal(t, "20.00", grouped[0].TotalEarnings)
}

func TestGroupEntriesEmpty(t *testing.T) {
	assert.Empty(t, GroupEntries(nil))
}
