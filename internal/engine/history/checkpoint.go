package history

import "github.com/dshills/cartstore/internal/state"

// Checkpoint represents a snapshot that can be returned to.
type Checkpoint struct {
	seq uint64
}

// CreateCheckpoint creates a checkpoint at the current cursor position.
// The zero Checkpoint is returned for an empty log.
func (l *Log) CreateCheckpoint() Checkpoint {
	if l.cursor < 0 {
		return Checkpoint{}
	}
	return Checkpoint{seq: l.entries[l.cursor].seq}
}

// indexOf locates the checkpoint's snapshot, or -1.
func (l *Log) indexOf(cp Checkpoint) int {
	for i, e := range l.entries {
		if e.seq == cp.seq {
			return i
		}
	}
	return -1
}

// UndoToCheckpoint moves the cursor back to the checkpoint's snapshot.
// It does nothing if the checkpoint is ahead of the cursor.
func (l *Log) UndoToCheckpoint(cp Checkpoint) (state.State, error) {
	idx := l.indexOf(cp)
	if idx < 0 {
		s, _ := l.Current()
		return s, ErrStaleCheckpoint
	}
	if idx < l.cursor {
		l.cursor = idx
	}
	s, _ := l.Current()
	return s, nil
}

// RedoToCheckpoint moves the cursor forward to the checkpoint's snapshot.
// This only works while the snapshots after the cursor are still held.
func (l *Log) RedoToCheckpoint(cp Checkpoint) (state.State, error) {
	idx := l.indexOf(cp)
	if idx < 0 {
		s, _ := l.Current()
		return s, ErrStaleCheckpoint
	}
	if idx > l.cursor {
		l.cursor = idx
	}
	s, _ := l.Current()
	return s, nil
}
