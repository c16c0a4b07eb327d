package engine

import (
	"github.com/dshills/clipstorm/internal/engine/clip"
	"github.com/dshills/clipstorm/internal/timebase"
)

// ResolveAssetDuration applies a late-arriving media duration to every
// clip referencing the asset. Probing runs asynchronously, so clips may
// have been inserted with a placeholder length; once the real duration
// is known their ceiling tightens. Clips whose trimmed range exceeds the
// new ceiling shrink to fit but are never removed. Returns the ids of
// the clips that changed length.
func (e *Engine) ResolveAssetDuration(assetID string, durationMs int64) []string {
	if durationMs <= 0 {
		return nil
	}

	owned := e.beginOp()
	defer e.endOp(owned)

	var shrunk []string
	for _, c := range e.model.All() {
		if !clipUsesAsset(c, assetID) {
			continue
		}
		b := c.Base()
		b.MaxDurationMs = durationMs
		b.MaxDurationKnown = true

		remainMs := float64(durationMs) - c.OffsetMs()
		maxFrames := 1
		if remainMs > 0 {
			maxFrames = timebase.MaxFramesFor(int64(remainMs), e.fps)
			if maxFrames < 1 {
				maxFrames = 1
			}
		}
		if b.DurationFrame > maxFrames {
			b.DurationFrame = maxFrames
			b.SyncMs(e.fps)
			e.unlinkAfterShrink(c)
			shrunk = append(shrunk, b.ID)
		}
	}

	if len(shrunk) > 0 {
		e.normalizeDuration()
		e.emit("clip.resized", shrunk...)
	}
	return shrunk
}

// unlinkAfterShrink drops a right-edge link that no longer touches its
// partner.
func (e *Engine) unlinkAfterShrink(c clip.Clip) {
	b := c.Base()
	if b.LinkRightID == "" {
		return
	}
	n := e.model.Find(b.LinkRightID)
	if n == nil || n.Base().StartFrame != b.EndFrame() {
		if n != nil {
			n.Base().LinkLeftID = ""
		}
		b.LinkRightID = ""
	}
}

func clipUsesAsset(c clip.Clip, assetID string) bool {
	switch v := c.(type) {
	case *clip.Scene:
		return v.AssetID == assetID
	case *clip.AudioClip:
		return v.AssetID == assetID
	}
	return false
}
