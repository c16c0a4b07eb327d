package engine

import (
	"errors"

	"github.com/dshills/clipstorm/internal/engine/history"
)

// Errors returned by engine operations. Normal user-input edge cases
// (out-of-range drags, no clip under the playhead) clamp or no-op
// silently and never surface an error.
var (
	// ErrUnknownClip indicates no clip exists with the given id.
	ErrUnknownClip = errors.New("unknown clip")

	// ErrUnknownTrack indicates no track exists with the given id.
	ErrUnknownTrack = errors.New("unknown track")

	// ErrUnknownAsset indicates the asset resolver has no entry for the id.
	ErrUnknownAsset = errors.New("unknown asset")

	// ErrTrackKindMismatch indicates a clip was addressed to a track of
	// the wrong media kind.
	ErrTrackKindMismatch = errors.New("track kind mismatch")

	// ErrSplitOutOfRange indicates a split point that does not leave at
	// least one frame on each side of the cut.
	ErrSplitOutOfRange = errors.New("split point out of range")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo
)
