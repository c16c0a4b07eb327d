// Package history provides the transactional undo/redo store for the
// timeline model.
//
// History is snapshot-based: each undo step is a full deep copy of the
// model taken at transaction begin. A begin/commit pair brackets one
// logical user gesture, so a whole drag lands in history as a single
// step. Committing a transaction with no net change records nothing but
// still invalidates any pending redo.
package history

import (
	"bytes"
	"errors"

	"github.com/dshills/clipstorm/internal/engine/clip"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the past stack when no limit is configured.
const DefaultMaxEntries = 100

// Store manages undo/redo snapshots. It is purely synchronous; callers
// are responsible for bracketing mutating sequences with Begin/Commit.
type Store struct {
	past   []*clip.Model
	future []*clip.Model

	// Open transaction state.
	inTx   bool
	base   *clip.Model
	baseFP []byte

	maxEntries int
}

// NewStore creates a history store bounded to maxEntries undo steps.
func NewStore(maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{maxEntries: maxEntries}
}

// Begin captures the base snapshot for a transaction. Nested calls are
// no-ops: the outermost gesture owns the undo step.
func (s *Store) Begin(current *clip.Model) {
	if s.inTx {
		return
	}
	s.inTx = true
	s.base = current.Clone()
	s.baseFP = current.Fingerprint()
}

// Commit closes the open transaction. If the model differs structurally
// from the base snapshot, the base (pre-change) state is pushed onto the
// past stack and Commit reports true. An unchanged model is discarded
// silently. Either way the future stack is cleared: committing always
// invalidates pending redo.
func (s *Store) Commit(current *clip.Model) bool {
	if !s.inTx {
		return false
	}
	s.inTx = false
	s.future = nil

	if bytes.Equal(s.baseFP, current.Fingerprint()) {
		s.base = nil
		s.baseFP = nil
		return false
	}

	s.push(s.base)
	s.base = nil
	s.baseFP = nil
	return true
}

// Cancel abandons the open transaction and returns the base snapshot for
// the caller to restore. Returns nil if no transaction is open.
func (s *Store) Cancel() *clip.Model {
	if !s.inTx {
		return nil
	}
	s.inTx = false
	base := s.base
	s.base = nil
	s.baseFP = nil
	return base
}

// InTx reports whether a transaction is open.
func (s *Store) InTx() bool { return s.inTx }

// Undo returns the snapshot to restore, pushing the current state onto
// the future stack. An open transaction is committed first so the
// in-flight change becomes undoable.
func (s *Store) Undo(current *clip.Model) (*clip.Model, error) {
	if s.inTx {
		s.Commit(current)
	}
	if len(s.past) == 0 {
		return nil, ErrNothingToUndo
	}
	top := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	s.future = append(s.future, current.Clone())
	return top, nil
}

// Redo returns the snapshot to restore, pushing the current state onto
// the past stack.
func (s *Store) Redo(current *clip.Model) (*clip.Model, error) {
	if len(s.future) == 0 {
		return nil, ErrNothingToRedo
	}
	top := s.future[len(s.future)-1]
	s.future = s.future[:len(s.future)-1]
	s.past = append(s.past, current.Clone())
	return top, nil
}

// CanUndo reports whether undo is available.
func (s *Store) CanUndo() bool { return len(s.past) > 0 || s.inTx }

// CanRedo reports whether redo is available.
func (s *Store) CanRedo() bool { return len(s.future) > 0 }

// UndoCount returns the number of recorded undo steps.
func (s *Store) UndoCount() int { return len(s.past) }

// RedoCount returns the number of recorded redo steps.
func (s *Store) RedoCount() int { return len(s.future) }

// Clear removes all history and abandons any open transaction.
func (s *Store) Clear() {
	s.past = nil
	s.future = nil
	s.inTx = false
	s.base = nil
	s.baseFP = nil
}

// push appends a snapshot to the past stack, evicting the oldest entry
// on overflow.
func (s *Store) push(m *clip.Model) {
	s.past = append(s.past, m)
	if len(s.past) > s.maxEntries {
		excess := len(s.past) - s.maxEntries
		s.past = s.past[excess:]
	}
}
