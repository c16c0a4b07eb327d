package engine

import (
	"fmt"

	"github.com/dshills/clipstorm/internal/engine/clip"
	"github.com/google/uuid"
)

// AddTrack creates a track of the given kind, keeping video tracks
// ordered before audio tracks, and returns its id.
func (e *Engine) AddTrack(kind clip.MediaKind) string {
	owned := e.beginOp()
	defer e.endOp(owned)

	t := e.addTrack(kind)
	e.emit("track.added", t.ID)
	return t.ID
}

// addTrack creates and inserts a track without transaction bracketing.
func (e *Engine) addTrack(kind clip.MediaKind) *clip.Track {
	count := 0
	for _, t := range e.model.Tracks {
		if t.Kind == kind {
			count++
		}
	}
	name := fmt.Sprintf("Video %d", count+1)
	if kind == clip.MediaAudio {
		name = fmt.Sprintf("Audio %d", count+1)
	}
	t := &clip.Track{ID: uuid.New().String(), Name: name, Kind: kind}
	e.model.AddTrack(t)
	return t
}

// resolveTrack returns a track of the given kind, auto-creating one when
// none exists.
func (e *Engine) resolveTrack(kind clip.MediaKind) *clip.Track {
	if t := e.model.FirstTrackOfKind(kind); t != nil {
		return t
	}
	return e.addTrack(kind)
}

// RemoveTrack deletes a track and every clip bound to it. Clips on other
// tracks are never affected.
func (e *Engine) RemoveTrack(id string) error {
	if e.model.Track(id) == nil {
		return ErrUnknownTrack
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	removed := e.model.RemoveTrack(id)
	e.normalizeDuration()
	e.emit("track.removed", append([]string{id}, removed...)...)
	return nil
}

// SetTrackMuted toggles a track's mute flag. The engine stores the flag;
// interpreting it is the playback subsystem's concern.
func (e *Engine) SetTrackMuted(id string, muted bool) error {
	t := e.model.Track(id)
	if t == nil {
		return ErrUnknownTrack
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	t.Muted = muted
	e.emit("track.muted", id)
	return nil
}

// SetTrackSoloed toggles a track's solo flag.
func (e *Engine) SetTrackSoloed(id string, soloed bool) error {
	t := e.model.Track(id)
	if t == nil {
		return ErrUnknownTrack
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	t.Soloed = soloed
	e.emit("track.soloed", id)
	return nil
}
