package clip

import "github.com/dshills/clipstorm/internal/timebase"

// ClipBase carries the timing and linking state shared by scenes and audio
// clips. StartFrame and DurationFrame are the source of truth; StartMs and
// EndMs are projections recomputed from them via SyncMs.
type ClipBase struct {
	ID      string `json:"id" yaml:"id"`
	TrackID string `json:"trackId" yaml:"trackId"`

	StartFrame    int `json:"startFrame" yaml:"startFrame"`
	DurationFrame int `json:"durationFrame" yaml:"durationFrame"`

	StartMs int64 `json:"startMs" yaml:"startMs"`
	EndMs   int64 `json:"endMs" yaml:"endMs"`

	// Magnetic link ids. A non-empty LinkLeftID names the clip glued to
	// this clip's left edge; links never cross tracks.
	LinkLeftID  string `json:"linkLeftId,omitempty" yaml:"linkLeftId,omitempty"`
	LinkRightID string `json:"linkRightId,omitempty" yaml:"linkRightId,omitempty"`

	// Asset-derived duration ceiling. MaxDurationKnown is false until the
	// source media's true duration has been resolved; while false the clip
	// is unconstrained.
	MaxDurationMs    int64 `json:"maxDurationMs,omitempty" yaml:"maxDurationMs,omitempty"`
	MaxDurationKnown bool  `json:"maxDurationKnown,omitempty" yaml:"maxDurationKnown,omitempty"`
}

// SyncMs recomputes the millisecond projections from the frame fields.
func (b *ClipBase) SyncMs(fps int) {
	b.StartMs = timebase.FramesToMs(b.StartFrame, fps)
	b.EndMs = timebase.FramesToMs(b.StartFrame+b.DurationFrame, fps)
}

// EndFrame returns the first frame past the clip.
func (b *ClipBase) EndFrame() int {
	return b.StartFrame + b.DurationFrame
}

// Clip is the common view of a scene or audio clip used by the model and
// the link engine.
type Clip interface {
	// Base returns the shared timing and linking state.
	Base() *ClipBase

	// OffsetMs is the current in-point into the source media, in
	// milliseconds. Zero for clips without a trimmed source.
	OffsetMs() float64

	// ShiftOffset moves the in-point by delta milliseconds, clamped at 0.
	ShiftOffset(delta float64)

	// Media reports the track kind this clip belongs on.
	Media() MediaKind
}

// ensureFrameData derives missing frame fields from legacy millisecond
// fields, then recomputes the projections. Clips rehydrated from older
// persisted data may carry only StartMs/EndMs.
func ensureFrameData(b *ClipBase, fps int) {
	if b.DurationFrame == 0 {
		start := timebase.MsToFrames(b.StartMs, fps)
		end := timebase.MsToFrames(b.EndMs, fps)
		b.StartFrame = start
		b.DurationFrame = end - start
		if b.DurationFrame < 1 {
			b.DurationFrame = 1
		}
	}
	if b.StartFrame < 0 {
		b.StartFrame = 0
	}
	b.SyncMs(fps)
}
