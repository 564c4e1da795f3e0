package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndoBuffer(t *testing.T) {
	buf := NewUndoBuffer()
	tutorID := uuid.New()

	_, ok := buf.Pop(tutorID)
	assert.False(t, ok, "empty buffer pops nothing")

	first := RescheduleSnapshot{
		OccurrenceID: uuid.New(),
		Start:        time.Date(2026, 3, 9, 16, 0, 0, 0, time.UTC),
		End:          time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC),
	}
	buf.Push(tutorID, first)

	// a second reschedule overwrites the snapshot
	second := RescheduleSnapshot{
		OccurrenceID: uuid.New(),
		Start:        first.Start.AddDate(0, 0, 1),
		End:          first.End.AddDate(0, 0, 1),
	}
	buf.Push(tutorID, second)

	snap, ok := buf.Pop(tutorID)
	require.True(t, ok)
	assert.Equal(t, second, snap)

	// popping consumed the snapshot; undoing again is a no-op
	_, ok = buf.Pop(tutorID)
	assert.False(t, ok)
}

func TestUndoBufferPerTutor(t *testing.T) {
	buf := NewUndoBuffer()
	a, b := uuid.New(), uuid.New()

	snapA := RescheduleSnapshot{OccurrenceID: uuid.New()}
	buf.Push(a, snapA)

	_, ok := buf.Pop(b)
	assert.False(t, ok, "one tutor's snapshot is invisible to another")

	got, ok := buf.Pop(a)
	require.True(t, ok)
	assert.Equal(t, snapA, got)
}
