package engine

import (
	"github.com/dshills/clipstorm/internal/engine/clip"
	"github.com/dshills/clipstorm/internal/timebase"
	"github.com/google/uuid"
)

// Split cuts a clip in two at the given timeline position. The cut is
// quantized to the frame grid; both halves must keep at least one frame
// or ErrSplitOutOfRange is returned. The left half keeps the original
// id, the right half gets a fresh one, and media offsets are adjusted so
// playback across the cut is seamless. The halves come out linked, and a
// link the original had on its right edge transfers to the new half.
// Returns the right half's id.
//
// ErrUnknownClip and ErrSplitOutOfRange report that there was nothing
// to cut; callers decide whether that matters. Interactive layers
// typically ignore them rather than show an error.
func (e *Engine) Split(id string, atMs int64) (string, error) {
	c := e.model.Find(id)
	if c == nil {
		return "", ErrUnknownClip
	}
	b := c.Base()

	cutFrame := timebase.MsToFrames(atMs, e.fps)
	if cutFrame <= b.StartFrame || cutFrame >= b.EndFrame() {
		return "", ErrSplitOutOfRange
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	leftFrames := cutFrame - b.StartFrame
	rightFrames := b.EndFrame() - cutFrame
	offsetShift := float64(leftFrames) * 1000.0 / float64(e.fps)

	var rightID string
	switch v := c.(type) {
	case *clip.Scene:
		r := v.Clone()
		r.ID = uuid.New().String()
		r.StartFrame = cutFrame
		r.DurationFrame = rightFrames
		r.TrimOffsetMs += offsetShift
		e.rewire(b, &r.ClipBase)
		r.SyncMs(e.fps)
		e.model.PutScene(r)
		rightID = r.ID
	case *clip.AudioClip:
		r := v.Clone()
		r.ID = uuid.New().String()
		r.StartFrame = cutFrame
		r.DurationFrame = rightFrames
		r.AudioOffsetMs += offsetShift
		// The fade-out belongs to the tail half, the fade-in stays on
		// the head.
		r.FadeInMs = 0
		v.FadeOutMs = 0
		e.rewire(b, &r.ClipBase)
		r.SyncMs(e.fps)
		e.model.PutAudio(r)
		rightID = r.ID
	}

	b.DurationFrame = leftFrames
	b.SyncMs(e.fps)

	e.emit("clip.split", id, rightID)
	return rightID, nil
}

// SplitAtPlayhead splits the clip under the playhead on the given track.
func (e *Engine) SplitAtPlayhead(trackID string) (string, error) {
	c := e.model.ClipAt(trackID, e.model.PlayheadMs)
	if c == nil {
		return "", ErrUnknownClip
	}
	return e.Split(c.Base().ID, e.model.PlayheadMs)
}

// rewire transfers the left clip's right-edge link onto the new right
// half and links the two halves to each other.
func (e *Engine) rewire(left, right *clip.ClipBase) {
	right.LinkRightID = left.LinkRightID
	if right.LinkRightID != "" {
		if n := e.model.Find(right.LinkRightID); n != nil {
			n.Base().LinkLeftID = right.ID
		}
	}
	left.LinkRightID = right.ID
	right.LinkLeftID = left.ID
}
