package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RescheduleSnapshot is the original timing of an occurrence captured
// right before a direct reschedule.
type RescheduleSnapshot struct {
	OccurrenceID uuid.UUID
	Start        time.Time
	End          time.Time
}

// UndoBuffer is the bounded reschedule history: capacity one snapshot
// per tutor. Each direct reschedule overwrites the previous snapshot;
// taking the snapshot empties the buffer, so undoing twice in a row is
// a no-op. In-memory only - a process restart loses all snapshots.
type UndoBuffer struct {
	mu        sync.Mutex
	snapshots map[uuid.UUID]RescheduleSnapshot
}

func NewUndoBuffer() *UndoBuffer {
	return &UndoBuffer{snapshots: make(map[uuid.UUID]RescheduleSnapshot)}
}

// Push stores the tutor's snapshot, replacing any previous one.
func (b *UndoBuffer) Push(tutorID uuid.UUID, snap RescheduleSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshots[tutorID] = snap
}

// Pop removes and returns the tutor's snapshot; ok is false when the
// buffer is empty.
func (b *UndoBuffer) Pop(tutorID uuid.UUID) (RescheduleSnapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap, ok := b.snapshots[tutorID]
	if ok {
		delete(b.snapshots, tutorID)
	}
	return snap, ok
}
