package engine

import (
	"github.com/dshills/clipstorm/internal/asset"
	"github.com/dshills/clipstorm/internal/engine/clip"
	"github.com/dshills/clipstorm/internal/engine/history"
	"github.com/dshills/clipstorm/internal/engine/link"
	"github.com/dshills/clipstorm/internal/notify"
	"github.com/dshills/clipstorm/internal/timebase"
)

// Re-export commonly used types for convenience.
type (
	// Model is the complete timeline state.
	Model = clip.Model

	// Track is a lane of same-kind clips.
	Track = clip.Track

	// Scene is a visual clip.
	Scene = clip.Scene

	// AudioClip is a clip on an audio track.
	AudioClip = clip.AudioClip

	// Clip is the common view of scenes and audio clips.
	Clip = clip.Clip

	// MediaKind identifies a track's media lane.
	MediaKind = clip.MediaKind

	// Edge identifies the side of a clip a trim gesture drags.
	Edge = link.Edge

	// MoveResult reports snap/unlink transitions from a move.
	MoveResult = link.MoveResult

	// ResizeResult reports snap/unlink transitions from a resize.
	ResizeResult = link.ResizeResult
)

// Re-export constants.
const (
	MediaVideo = clip.MediaVideo
	MediaAudio = clip.MediaAudio

	EdgeLeft  = link.EdgeLeft
	EdgeRight = link.EdgeRight
)

// Engine is the facade over the timeline editing engine. It owns the
// model, routes every mutation through the magnetic link rules, keeps
// the total duration normalized, and brackets each public operation in
// a history transaction so it is exactly one undo step.
//
// The engine is synchronous and single-threaded: each call is one atomic
// state transition. Interactive gestures spanning several calls are
// bracketed with BeginGesture/EndGesture to collapse into one step.
type Engine struct {
	model   *clip.Model
	history *history.Store
	link    *link.Engine

	resolver asset.Resolver
	notifier *notify.Notifier

	fps          int
	historyDepth int
	minClipMs    int64
	snapPx       float64
	unlinkPx     float64
	zoom         float64

	defaultClipMs  int64
	defaultImageMs int64
	paddingMs      int64
	floorMs        int64

	// gesture is true between BeginGesture and EndGesture; per-operation
	// transaction bracketing is suppressed so the whole gesture commits
	// as one undo step.
	gesture bool
}

// New creates an Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		model:          clip.NewModel(),
		fps:            DefaultFPS,
		historyDepth:   DefaultHistoryDepth,
		minClipMs:      DefaultMinClipMs,
		snapPx:         DefaultSnapPx,
		unlinkPx:       DefaultUnlinkPx,
		zoom:           DefaultZoomPxPerSecond,
		defaultClipMs:  DefaultClipMs,
		defaultImageMs: DefaultImageMs,
		paddingMs:      DefaultPaddingMs,
		floorMs:        DefaultDurationFloorMs,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.history = history.NewStore(e.historyDepth)
	e.link = e.makeLink()
	e.normalizeDuration()
	return e
}

// NewFromModel creates an Engine around a restored model. EnsureFrameData
// runs on every clip before anything else touches it; older persisted
// data may carry only millisecond fields.
func NewFromModel(m *clip.Model, opts ...Option) *Engine {
	e := New(opts...)
	m.EnsureFrameData(e.fps)
	e.model = m
	e.normalizeDuration()
	return e
}

// makeLink builds the link engine from current settings. Pixel
// thresholds convert to milliseconds at the current zoom.
func (e *Engine) makeLink() *link.Engine {
	minFrames := timebase.MsToFrames(e.minClipMs, e.fps)
	if minFrames < 1 {
		minFrames = 1
	}
	return &link.Engine{
		FPS:       e.fps,
		SnapMs:    timebase.PxToMs(e.snapPx, e.zoom),
		UnlinkMs:  timebase.PxToMs(e.unlinkPx, e.zoom),
		MinFrames: minFrames,
	}
}

// FPS returns the project frame rate.
func (e *Engine) FPS() int { return e.fps }

// Zoom returns the current zoom in pixels per second.
func (e *Engine) Zoom() float64 { return e.zoom }

// SetZoom updates the zoom level. The magnetic thresholds are defined
// in pixels, so their time equivalents scale with zoom.
func (e *Engine) SetZoom(pxPerSecond float64) {
	if pxPerSecond <= 0 {
		return
	}
	e.zoom = pxPerSecond
	e.link = e.makeLink()
}

// DurationMs returns the normalized total duration.
func (e *Engine) DurationMs() int64 { return e.model.DurationMs }

// PlayheadMs returns the playhead position.
func (e *Engine) PlayheadMs() int64 { return e.model.PlayheadMs }

// SetPlayhead moves the playhead, clamped to the timeline bounds.
// Playhead motion is not an undoable edit.
func (e *Engine) SetPlayhead(ms int64) {
	if ms < 0 {
		ms = 0
	}
	if ms > e.model.DurationMs {
		ms = e.model.DurationMs
	}
	e.model.PlayheadMs = ms
	e.emit("playhead.moved")
}

// ============================================================================
// Transactions and gestures
// ============================================================================

// BeginGesture opens a gesture bracket: all mutations until EndGesture
// become a single undo step. Nested calls are no-ops.
func (e *Engine) BeginGesture() {
	if e.gesture {
		return
	}
	e.gesture = true
	e.history.Begin(e.model)
}

// EndGesture closes the gesture bracket and commits it as one undo step.
// Committing with no net change records nothing.
func (e *Engine) EndGesture() {
	if !e.gesture {
		return
	}
	e.gesture = false
	e.history.Commit(e.model)
}

// CancelGesture abandons the gesture, restoring the state at
// BeginGesture without recording history.
func (e *Engine) CancelGesture() {
	if !e.gesture {
		return
	}
	e.gesture = false
	if base := e.history.Cancel(); base != nil {
		e.model = base
		e.emit("history.cancelled")
	}
}

// beginOp opens a per-operation transaction unless a gesture owns the
// bracket. Returns whether this operation must commit.
func (e *Engine) beginOp() bool {
	if e.gesture {
		return false
	}
	e.history.Begin(e.model)
	return true
}

// endOp commits the per-operation transaction when owned.
func (e *Engine) endOp(owned bool) {
	if owned {
		e.history.Commit(e.model)
	}
}

// Undo restores the previous undo step. An open gesture is committed
// first.
func (e *Engine) Undo() error {
	e.gesture = false
	m, err := e.history.Undo(e.model)
	if err != nil {
		return err
	}
	e.model = m
	e.emit("history.undo")
	return nil
}

// Redo restores the next redo step.
func (e *Engine) Redo() error {
	m, err := e.history.Redo(e.model)
	if err != nil {
		return err
	}
	e.model = m
	e.emit("history.redo")
	return nil
}

// CanUndo reports whether undo is available.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether redo is available.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// UndoCount returns the number of recorded undo steps.
func (e *Engine) UndoCount() int { return e.history.UndoCount() }

// RedoCount returns the number of recorded redo steps.
func (e *Engine) RedoCount() int { return e.history.RedoCount() }

// ============================================================================
// Read surface
// ============================================================================

// Snapshot returns a deep copy of the model for read-only consumers
// (rendering, persistence). The copy is detached: later edits do not
// affect it.
func (e *Engine) Snapshot() *clip.Model { return e.model.Clone() }

// Tracks returns the track list in display order.
func (e *Engine) Tracks() []*clip.Track {
	out := make([]*clip.Track, len(e.model.Tracks))
	copy(out, e.model.Tracks)
	return out
}

// TrackClips returns the clips on a track sorted by start time.
func (e *Engine) TrackClips(trackID string) []clip.Clip {
	return e.model.TrackClips(trackID)
}

// Find returns the clip with the given id, or nil.
func (e *Engine) Find(id string) clip.Clip { return e.model.Find(id) }

// emit publishes a change notification if a notifier is attached.
func (e *Engine) emit(op string, ids ...string) {
	if e.notifier != nil {
		e.notifier.Publish(notify.Change{Op: op, IDs: ids})
	}
}
