package history

import (
	"time"

	"github.com/dshills/cartstore/internal/state"
)

// Unlimited disables eviction; the log then only shrinks by truncation.
const Unlimited = 0

// entry is a snapshot with metadata.
type entry struct {
	state     state.State
	label     string
	timestamp time.Time
	seq       uint64
}

// EntryInfo provides read-only info about a snapshot.
// Used for displaying history to users.
type EntryInfo struct {
	Index     int       // Position in the log
	Label     string    // What produced the snapshot
	Timestamp time.Time // When the snapshot was recorded
	Current   bool      // True for the snapshot under the cursor
}

// Log manages state snapshots and the undo/redo cursor.
type Log struct {
	entries []entry
	cursor  int

	// seq numbers entries so checkpoints survive eviction shifts.
	seq uint64

	maxEntries int
}

// NewLog creates an empty log holding at most maxEntries snapshots.
// A non-positive maxEntries means Unlimited.
func NewLog(maxEntries int) *Log {
	return &Log{
		cursor:     -1,
		maxEntries: max(maxEntries, Unlimited),
	}
}

// Append records s as the newest snapshot and moves the cursor onto it.
// Snapshots beyond the cursor are discarded first.
func (l *Log) Append(s state.State, label string) {
	if l.cursor < len(l.entries)-1 {
		clear(l.entries[l.cursor+1:])
		l.entries = l.entries[:l.cursor+1]
	}

	l.seq++
	l.entries = append(l.entries, entry{
		state:     s,
		label:     label,
		timestamp: time.Now(),
		seq:       l.seq,
	})
	l.cursor = len(l.entries) - 1

	l.enforceLimit()
}

// enforceLimit drops the oldest snapshots, then redo snapshots, until the
// log fits maxEntries. The active snapshot is always kept.
func (l *Log) enforceLimit() {
	if l.maxEntries == Unlimited {
		return
	}
	excess := len(l.entries) - l.maxEntries
	if excess <= 0 {
		return
	}

	front := min(excess, l.cursor)
	if front > 0 {
		l.entries = append([]entry(nil), l.entries[front:]...)
		l.cursor -= front
		excess -= front
	}
	if excess > 0 {
		clear(l.entries[len(l.entries)-excess:])
		l.entries = l.entries[:len(l.entries)-excess]
	}
}

// Undo moves the cursor back one snapshot and returns it.
// Returns the active snapshot and false if there is nothing to undo.
func (l *Log) Undo() (state.State, bool) {
	if l.cursor <= 0 {
		s, _ := l.Current()
		return s, false
	}
	l.cursor--
	return l.entries[l.cursor].state, true
}

// Redo moves the cursor forward one snapshot and returns it.
// Returns the active snapshot and false if there is nothing to redo.
func (l *Log) Redo() (state.State, bool) {
	if l.cursor >= len(l.entries)-1 {
		s, _ := l.Current()
		return s, false
	}
	l.cursor++
	return l.entries[l.cursor].state, true
}

// Current returns the snapshot under the cursor.
// Returns the initial state and false if the log is empty.
func (l *Log) Current() (state.State, bool) {
	if l.cursor < 0 {
		return state.Initial(), false
	}
	return l.entries[l.cursor].state, true
}

// CanUndo returns true if undo is available.
func (l *Log) CanUndo() bool {
	return l.cursor > 0
}

// CanRedo returns true if redo is available.
func (l *Log) CanRedo() bool {
	return l.cursor < len(l.entries)-1
}

// UndoCount returns the number of undo steps available.
func (l *Log) UndoCount() int {
	return max(l.cursor, 0)
}

// RedoCount returns the number of redo steps available.
func (l *Log) RedoCount() int {
	return len(l.entries) - 1 - l.cursor
}

// Cursor returns the index of the active snapshot, or -1 if empty.
func (l *Log) Cursor() int {
	return l.cursor
}

// Len returns the number of snapshots held.
func (l *Log) Len() int {
	return len(l.entries)
}

// Reset discards all snapshots and records initial as the only one.
func (l *Log) Reset(initial state.State) {
	clear(l.entries)
	l.entries = l.entries[:0]
	l.cursor = -1
	l.Append(initial, "reset")
}

// Entries returns info about every snapshot, oldest first.
func (l *Log) Entries() []EntryInfo {
	result := make([]EntryInfo, len(l.entries))
	for i, e := range l.entries {
		result[i] = EntryInfo{
			Index:     i,
			Label:     e.label,
			Timestamp: e.timestamp,
			Current:   i == l.cursor,
		}
	}
	return result
}

// SetMaxEntries changes the maximum number of snapshots.
// If the log is larger, snapshots are dropped as in Append.
// A non-positive maxEntries means Unlimited.
func (l *Log) SetMaxEntries(maxEntries int) {
	l.maxEntries = max(maxEntries, Unlimited)
	l.enforceLimit()
}

// MaxEntries returns the maximum number of snapshots, or Unlimited.
func (l *Log) MaxEntries() int {
	return l.maxEntries
}
