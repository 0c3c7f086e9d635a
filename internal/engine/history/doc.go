// Package history records state snapshots for undo/redo.
//
// The Log keeps an ordered list of immutable state.State snapshots and a
// cursor marking the active one:
//
//	log := history.NewLog(history.Unlimited) // or a positive cap
//	log.Append(state.Initial(), "initial")
//	log.Append(next, "ADD_TO_CART")
//
//	prev, ok := log.Undo() // cursor moves back one snapshot
//	next, ok = log.Redo()  // and forward again
//
// # Cursor
//
// The cursor is -1 for an empty log and otherwise indexes the active
// snapshot. Undo stops at the oldest snapshot and Redo at the newest; at a
// boundary both are no-ops that return the active snapshot and false.
//
// Appending after an undo discards every snapshot beyond the cursor, so the
// history stays linear.
//
// By default the log never evicts. A positive limit opts in to dropping the
// oldest snapshots once the log grows past it.
//
// # Checkpoints
//
// A Checkpoint remembers a cursor position that can later be returned to
// with UndoToCheckpoint or RedoToCheckpoint, as long as the snapshots in
// between have not been discarded.
//
// # Concurrency
//
// Log is not safe for concurrent use. The dispatcher guards its log and its
// live state with a single mutex.
package history
