package engine

import (
	"github.com/dshills/clipstorm/internal/engine/clip"
	"github.com/dshills/clipstorm/internal/engine/link"
)

// MoveClip drags a clip to a new start time on its own track. The link
// engine handles clamping, overlap avoidance, edge snapping, and the
// magnetic hysteresis on existing links.
func (e *Engine) MoveClip(id string, targetStartMs int64) (link.MoveResult, error) {
	c := e.model.Find(id)
	if c == nil {
		return link.MoveResult{}, ErrUnknownClip
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	res := e.link.Move(e.model, c, targetStartMs)
	e.afterMove(id, res)
	return res, nil
}

// MoveClipToTrack drags a clip onto another track of the same media
// kind. Links to the old neighbors are always severed; the clip then
// settles into the target track like a fresh move.
func (e *Engine) MoveClipToTrack(id, trackID string, targetStartMs int64) (link.MoveResult, error) {
	c := e.model.Find(id)
	if c == nil {
		return link.MoveResult{}, ErrUnknownClip
	}
	t := e.model.Track(trackID)
	if t == nil {
		return link.MoveResult{}, ErrUnknownTrack
	}
	if t.Kind != c.Media() {
		return link.MoveResult{}, ErrTrackKindMismatch
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	res := e.link.MoveToTrack(e.model, c, trackID, targetStartMs)
	e.afterMove(id, res)
	return res, nil
}

func (e *Engine) afterMove(id string, res link.MoveResult) {
	e.normalizeDuration()
	if res.Unlinked {
		e.emit("link.torn", id)
	}
	if res.SnappedLeft || res.SnappedRight {
		e.emit("link.snapped", id)
	}
	e.emit("clip.moved", id)
}

// ResizeClip drags one edge of a clip to a new timeline position.
// Bounds come from neighbors, the minimum clip duration, and the source
// asset's extent; linked edges resist small drags and tear past the
// unlink threshold.
func (e *Engine) ResizeClip(id string, edge link.Edge, targetMs int64) (link.ResizeResult, error) {
	c := e.model.Find(id)
	if c == nil {
		return link.ResizeResult{}, ErrUnknownClip
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	res := e.link.Resize(e.model, c, edge, targetMs)
	e.normalizeDuration()
	if res.Unlinked {
		e.emit("link.torn", id)
	}
	if res.Snapped {
		e.emit("link.snapped", id)
	}
	e.emit("clip.resized", id)
	return res, nil
}

// SetClipGain sets the playback gain on any clip.
func (e *Engine) SetClipGain(id string, gain float64) error {
	c := e.model.Find(id)
	if c == nil {
		return ErrUnknownClip
	}
	if gain < 0 {
		gain = 0
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	switch v := c.(type) {
	case *clip.Scene:
		v.Gain = gain
	case *clip.AudioClip:
		v.Gain = gain
	}
	e.emit("clip.updated", id)
	return nil
}

// SetAudioFades sets the fade-in and fade-out ramps on an audio clip.
func (e *Engine) SetAudioFades(id string, fadeInMs, fadeOutMs int64) error {
	a, ok := e.model.Find(id).(*clip.AudioClip)
	if !ok {
		return ErrUnknownClip
	}
	if fadeInMs < 0 {
		fadeInMs = 0
	}
	if fadeOutMs < 0 {
		fadeOutMs = 0
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	a.FadeInMs = fadeInMs
	a.FadeOutMs = fadeOutMs
	e.emit("clip.updated", id)
	return nil
}

// SetSceneTransform replaces the visual transform on a scene clip. A nil
// transform resets the scene to its natural placement.
func (e *Engine) SetSceneTransform(id string, t *clip.Transform) error {
	s, ok := e.model.Find(id).(*clip.Scene)
	if !ok {
		return ErrUnknownClip
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	if t == nil {
		s.Transform = nil
	} else {
		tc := *t
		s.Transform = &tc
	}
	e.emit("clip.updated", id)
	return nil
}

// SetSceneLabel renames a scene clip.
func (e *Engine) SetSceneLabel(id, label string) error {
	s, ok := e.model.Find(id).(*clip.Scene)
	if !ok {
		return ErrUnknownClip
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	s.Label = label
	e.emit("clip.updated", id)
	return nil
}

// SetAudioMuted mutes or unmutes the audio portion of a scene clip.
func (e *Engine) SetAudioMuted(id string, muted bool) error {
	s, ok := e.model.Find(id).(*clip.Scene)
	if !ok {
		return ErrUnknownClip
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	s.AudioMuted = muted
	e.emit("clip.updated", id)
	return nil
}
