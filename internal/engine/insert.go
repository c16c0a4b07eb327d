package engine

import (
	"github.com/dshills/clipstorm/internal/asset"
	"github.com/dshills/clipstorm/internal/engine/clip"
	"github.com/dshills/clipstorm/internal/timebase"
	"github.com/google/uuid"
)

// InsertAsset places a new clip for the given asset on a track of the
// matching kind, auto-creating the track when none exists. atMs, when
// non-nil, requests an explicit position; otherwise the clip lands at
// frame 0 on an empty track or appends after that track's last clip.
// Returns the new clip's id.
func (e *Engine) InsertAsset(assetID string, atMs *int64) (string, error) {
	if e.resolver == nil {
		return "", ErrUnknownAsset
	}
	a, ok := e.resolver.Lookup(assetID)
	if !ok {
		return "", ErrUnknownAsset
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	var id string
	switch a.Kind {
	case asset.KindAudio:
		id = e.insertAudio(a, atMs, clip.AudioMusic)
	default:
		id = e.insertScene(a, atMs)
	}

	e.normalizeDuration()
	e.emit("clip.inserted", id)
	return id, nil
}

// InsertVoiceOver places an audio asset as a voice-over clip.
func (e *Engine) InsertVoiceOver(assetID string, atMs *int64) (string, error) {
	if e.resolver == nil {
		return "", ErrUnknownAsset
	}
	a, ok := e.resolver.Lookup(assetID)
	if !ok {
		return "", ErrUnknownAsset
	}
	if a.Kind != asset.KindAudio {
		return "", ErrTrackKindMismatch
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	id := e.insertAudio(a, atMs, clip.AudioVoiceOver)
	e.normalizeDuration()
	e.emit("clip.inserted", id)
	return id, nil
}

func (e *Engine) insertScene(a asset.Asset, atMs *int64) string {
	track := e.resolveTrack(clip.MediaVideo)

	durMs := e.defaultClipMs
	if a.Kind == asset.KindImage {
		durMs = e.defaultImageMs
	} else if a.DurationKnown && a.DurationMs > 0 {
		durMs = a.DurationMs
	}

	s := &clip.Scene{
		ClipBase: clip.ClipBase{
			ID:      uuid.New().String(),
			TrackID: track.ID,
		},
		AssetID: a.ID,
		Gain:    1,
	}
	if a.Kind == asset.KindVideo && a.DurationKnown {
		s.MaxDurationMs = a.DurationMs
		s.MaxDurationKnown = true
	}
	e.placeNew(&s.ClipBase, track.ID, durMs, atMs)
	e.model.PutScene(s)
	return s.ID
}

func (e *Engine) insertAudio(a asset.Asset, atMs *int64, kind clip.AudioKind) string {
	track := e.resolveTrack(clip.MediaAudio)

	durMs := e.defaultClipMs
	if a.DurationKnown && a.DurationMs > 0 {
		durMs = a.DurationMs
	}

	c := &clip.AudioClip{
		ClipBase: clip.ClipBase{
			ID:      uuid.New().String(),
			TrackID: track.ID,
		},
		AssetID: a.ID,
		Kind:    kind,
		Gain:    1,
	}
	if a.DurationKnown {
		c.MaxDurationMs = a.DurationMs
		c.MaxDurationKnown = true
	}
	e.placeNew(&c.ClipBase, track.ID, durMs, atMs)
	e.model.PutAudio(c)
	return c.ID
}

// placeNew computes a new clip's frame position and duration. Explicit
// positions that collide with existing clips slide right to the first
// gap that can hold the clip; the append position is per-track, not
// global.
func (e *Engine) placeNew(b *clip.ClipBase, trackID string, durMs int64, atMs *int64) {
	b.DurationFrame = timebase.MsToFrames(durMs, e.fps)
	if b.DurationFrame < 1 {
		b.DurationFrame = 1
	}

	var startFrame int
	switch {
	case atMs != nil:
		at := *atMs
		if at < 0 {
			at = 0
		}
		startFrame = e.firstFit(trackID, timebase.MsToFrames(at, e.fps), b.DurationFrame)
	default:
		if last := e.model.LastClipOn(trackID); last != nil {
			startFrame = last.Base().EndFrame()
		}
	}
	b.StartFrame = startFrame
	b.SyncMs(e.fps)
}

// firstFit returns the first start frame at or after the requested frame
// where a clip of the given duration fits without overlap.
func (e *Engine) firstFit(trackID string, fromFrame, durFrames int) int {
	start := fromFrame
	for _, c := range e.model.TrackClips(trackID) {
		cb := c.Base()
		if cb.EndFrame() <= start {
			continue
		}
		if cb.StartFrame >= start+durFrames {
			break
		}
		start = cb.EndFrame()
	}
	return start
}
