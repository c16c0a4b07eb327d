package engine

import (
	"github.com/dshills/clipstorm/internal/engine/clip"
	"github.com/google/uuid"
)

// Delete removes a clip and clears any links pointing at it. The gap it
// leaves behind stays open. ErrUnknownClip signals there was nothing to
// remove; interactive layers typically ignore it rather than show an
// error.
func (e *Engine) Delete(id string) error {
	if e.model.Find(id) == nil {
		return ErrUnknownClip
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	e.model.Remove(id)
	e.normalizeDuration()
	e.emit("clip.deleted", id)
	return nil
}

// RippleDelete removes a clip and closes the gap: every clip on every
// track that starts at or after the deleted clip's end shifts left by
// the deleted duration. Shifts clamp at the preceding clip on the same
// track so the move can never create an overlap. When the deleted clip
// was linked on both sides and its former partners meet after the
// shift, they link to each other. As with Delete, ErrUnknownClip is a
// caller-discretion signal, not a failure to surface to the user.
func (e *Engine) RippleDelete(id string) error {
	c := e.model.Find(id)
	if c == nil {
		return ErrUnknownClip
	}
	b := c.Base()
	cutEnd := b.EndFrame()
	delta := b.DurationFrame
	leftID := b.LinkLeftID
	rightID := b.LinkRightID

	owned := e.beginOp()
	defer e.endOp(owned)

	e.model.Remove(id)

	for _, t := range e.model.Tracks {
		prevEnd := 0
		for _, tc := range e.model.TrackClips(t.ID) {
			tb := tc.Base()
			if tb.StartFrame >= cutEnd {
				start := tb.StartFrame - delta
				if start < prevEnd {
					start = prevEnd
				}
				tb.StartFrame = start
				tb.SyncMs(e.fps)
			}
			prevEnd = tb.EndFrame()
		}
	}

	if leftID != "" && rightID != "" {
		l := e.model.Find(leftID)
		r := e.model.Find(rightID)
		if l != nil && r != nil && l.Base().EndFrame() == r.Base().StartFrame {
			l.Base().LinkRightID = rightID
			r.Base().LinkLeftID = leftID
		}
	}

	e.normalizeDuration()
	e.emit("clip.deleted", id)
	return nil
}

// Duplicate copies a clip onto its own track. The copy starts at the
// original's end when that slot is free, otherwise it appends after the
// track's last clip. Links are not copied. Returns the new clip's id.
func (e *Engine) Duplicate(id string) (string, error) {
	c := e.model.Find(id)
	if c == nil {
		return "", ErrUnknownClip
	}
	b := c.Base()

	owned := e.beginOp()
	defer e.endOp(owned)

	start := e.firstFit(b.TrackID, b.EndFrame(), b.DurationFrame)

	var dupID string
	switch v := c.(type) {
	case *clip.Scene:
		d := v.Clone()
		d.ID = uuid.New().String()
		d.LinkLeftID, d.LinkRightID = "", ""
		d.StartFrame = start
		d.SyncMs(e.fps)
		e.model.PutScene(d)
		dupID = d.ID
	case *clip.AudioClip:
		d := v.Clone()
		d.ID = uuid.New().String()
		d.LinkLeftID, d.LinkRightID = "", ""
		d.StartFrame = start
		d.SyncMs(e.fps)
		e.model.PutAudio(d)
		dupID = d.ID
	}

	e.normalizeDuration()
	e.emit("clip.duplicated", dupID)
	return dupID, nil
}
