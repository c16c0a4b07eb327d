// Package link implements the magnetic edge behavior between neighboring
// clips: snap-to-contact on move, link hysteresis, and coupled or torn
// resizes at linked junctions.
//
// Two thresholds govern the magnetism. The snap threshold pulls an
// unlinked edge into exact contact with its neighbor; the larger unlink
// threshold is how far a linked edge must be dragged before the link
// tears. The asymmetry is deliberate hysteresis: without it an edge
// sitting right at the boundary would flicker between linked and
// unlinked on every pointer jitter.
package link

import (
	"math"

	"github.com/dshills/clipstorm/internal/engine/clip"
	"github.com/dshills/clipstorm/internal/timebase"
)

// Engine evaluates move and resize gestures against the model. The
// thresholds are in milliseconds, already converted from pixels at the
// caller's zoom level.
type Engine struct {
	FPS       int
	SnapMs    int64
	UnlinkMs  int64
	MinFrames int
}

// MoveResult reports what a move did, including the transient
// "just snapped" markers the UI uses for feedback.
type MoveResult struct {
	Moved        bool
	SnappedLeft  bool
	SnappedRight bool
	Unlinked     bool
}

// Move repositions a clip to the target start time, clamped to frame 0
// and to the nearest gap that can hold it on its track. After
// repositioning, each side is checked against the immediate neighbor for
// snap and unlink transitions.
func (e *Engine) Move(m *clip.Model, c clip.Clip, targetStartMs int64) MoveResult {
	var res MoveResult
	b := c.Base()

	if targetStartMs < 0 {
		targetStartMs = 0
	}
	targetFrame := timebase.MsToFrames(targetStartMs, e.FPS)

	newStart, ok := e.placeInTrack(m, c, targetFrame)
	if !ok {
		return res
	}
	if newStart != b.StartFrame {
		res.Moved = true
	}
	b.StartFrame = newStart
	b.SyncMs(e.FPS)

	e.settleLinks(m, c, &res)
	return res
}

// MoveToTrack moves a clip onto another track. Links are cleared
// unconditionally: they never cross tracks.
func (e *Engine) MoveToTrack(m *clip.Model, c clip.Clip, trackID string, targetStartMs int64) MoveResult {
	b := c.Base()
	e.unlinkLeft(m, c)
	e.unlinkRight(m, c)
	b.TrackID = trackID
	return e.Move(m, c, targetStartMs)
}

// placeInTrack finds the start frame nearest the target at which the
// clip fits without overlapping any other clip on its track. Reports
// false when no gap can hold the clip.
func (e *Engine) placeInTrack(m *clip.Model, c clip.Clip, targetFrame int) (int, bool) {
	b := c.Base()
	others := e.trackOthers(m, c)

	best := -1
	bestDist := math.MaxInt

	// Candidate slots: before the first clip, between each pair, after
	// the last.
	lo := 0
	for i := 0; i <= len(others); i++ {
		hi := math.MaxInt
		if i < len(others) {
			hi = others[i].Base().StartFrame
		}
		if hi != math.MaxInt && hi-lo < b.DurationFrame {
			// Slot too small.
			if i < len(others) {
				lo = max(lo, others[i].Base().EndFrame())
			}
			continue
		}
		upper := hi
		if upper != math.MaxInt {
			upper -= b.DurationFrame
		}
		pos := clampInt(targetFrame, lo, upper)
		dist := abs(pos - targetFrame)
		if dist < bestDist {
			best = pos
			bestDist = dist
		}
		if i < len(others) {
			lo = max(lo, others[i].Base().EndFrame())
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// settleLinks runs the per-side snap/unlink transitions after a clip has
// been repositioned.
func (e *Engine) settleLinks(m *clip.Model, c clip.Clip, res *MoveResult) {
	b := c.Base()
	prev, next := m.Neighbors(c)

	// Links referring to anything but the current immediate neighbor are
	// stale: the clip jumped past its old partner.
	if b.LinkLeftID != "" && (prev == nil || prev.Base().ID != b.LinkLeftID) {
		e.unlinkLeft(m, c)
		res.Unlinked = true
	}
	if b.LinkRightID != "" && (next == nil || next.Base().ID != b.LinkRightID) {
		e.unlinkRight(m, c)
		res.Unlinked = true
	}

	leftGap := int64(math.MaxInt64)
	rightGap := int64(math.MaxInt64)
	if prev != nil {
		leftGap = b.StartMs - prev.Base().EndMs
	}
	if next != nil {
		rightGap = next.Base().StartMs - b.EndMs
	}

	// Linked sides resist: within the unlink threshold the edge pulls
	// back to exact contact, beyond it the link tears.
	if prev != nil && b.LinkLeftID == prev.Base().ID {
		if leftGap < 0 || leftGap > e.UnlinkMs {
			e.unlinkLeft(m, c)
			res.Unlinked = true
		} else if leftGap > 0 && e.fitsAt(m, c, prev.Base().EndFrame()) {
			b.StartFrame = prev.Base().EndFrame()
			b.SyncMs(e.FPS)
		}
	}
	if next != nil && b.LinkRightID == next.Base().ID {
		rightGap = next.Base().StartMs - b.EndMs
		if rightGap < 0 || rightGap > e.UnlinkMs {
			e.unlinkRight(m, c)
			res.Unlinked = true
		} else if rightGap > 0 && e.fitsAt(m, c, next.Base().StartFrame-b.DurationFrame) {
			b.StartFrame = next.Base().StartFrame - b.DurationFrame
			b.SyncMs(e.FPS)
		}
	}

	// Unlinked sides snap when inside the snap threshold. If both sides
	// qualify the nearer neighbor wins.
	leftGap, rightGap = int64(math.MaxInt64), int64(math.MaxInt64)
	if prev != nil && b.LinkLeftID == "" {
		leftGap = b.StartMs - prev.Base().EndMs
	}
	if next != nil && b.LinkRightID == "" {
		rightGap = next.Base().StartMs - b.EndMs
	}
	snapLeft := leftGap >= 0 && leftGap <= e.SnapMs
	snapRight := rightGap >= 0 && rightGap <= e.SnapMs
	if snapLeft && snapRight && rightGap < leftGap {
		snapLeft = false
	}
	switch {
	case snapLeft:
		if e.fitsAt(m, c, prev.Base().EndFrame()) {
			b.StartFrame = prev.Base().EndFrame()
			b.SyncMs(e.FPS)
			e.linkPair(prev, c)
			res.SnappedLeft = true
			// Contact on the right may have formed as a side effect.
			if next != nil && next.Base().StartMs == b.EndMs {
				e.linkPair(c, next)
			}
		}
	case snapRight:
		if e.fitsAt(m, c, next.Base().StartFrame-b.DurationFrame) {
			b.StartFrame = next.Base().StartFrame - b.DurationFrame
			b.SyncMs(e.FPS)
			e.linkPair(c, next)
			res.SnappedRight = true
			if prev != nil && prev.Base().EndMs == b.StartMs {
				e.linkPair(prev, c)
			}
		}
	}
}

// fitsAt reports whether the clip can sit at the given start frame
// without overlapping any other clip on its track.
func (e *Engine) fitsAt(m *clip.Model, c clip.Clip, startFrame int) bool {
	if startFrame < 0 {
		return false
	}
	end := startFrame + c.Base().DurationFrame
	for _, other := range e.trackOthers(m, c) {
		ob := other.Base()
		if startFrame < ob.EndFrame() && ob.StartFrame < end {
			return false
		}
	}
	return true
}

// trackOthers returns the clips sharing c's track, sorted by start,
// excluding c itself.
func (e *Engine) trackOthers(m *clip.Model, c clip.Clip) []clip.Clip {
	all := m.TrackClips(c.Base().TrackID)
	out := all[:0]
	for _, other := range all {
		if other.Base().ID != c.Base().ID {
			out = append(out, other)
		}
	}
	return out
}

// linkPair establishes a mutual link between left and right, which must
// be in exact contact on the same track.
func (e *Engine) linkPair(left, right clip.Clip) {
	left.Base().LinkRightID = right.Base().ID
	right.Base().LinkLeftID = left.Base().ID
}

// unlinkLeft clears the clip's left link and the partner's matching
// right link.
func (e *Engine) unlinkLeft(m *clip.Model, c clip.Clip) {
	b := c.Base()
	if b.LinkLeftID == "" {
		return
	}
	if partner := m.Find(b.LinkLeftID); partner != nil {
		partner.Base().LinkRightID = ""
	}
	b.LinkLeftID = ""
}

// unlinkRight clears the clip's right link and the partner's matching
// left link.
func (e *Engine) unlinkRight(m *clip.Model, c clip.Clip) {
	b := c.Base()
	if b.LinkRightID == "" {
		return
	}
	if partner := m.Find(b.LinkRightID); partner != nil {
		partner.Base().LinkLeftID = ""
	}
	b.LinkRightID = ""
}

// maxDurationFrames returns the clip's asset-derived duration ceiling in
// frames, counting from the current source in-point. Unconstrained clips
// report false.
func (e *Engine) maxDurationFrames(c clip.Clip) (int, bool) {
	b := c.Base()
	if !b.MaxDurationKnown {
		return 0, false
	}
	avail := float64(b.MaxDurationMs) - c.OffsetMs()
	if avail < 0 {
		avail = 0
	}
	frames := timebase.MaxFramesFor(int64(avail), e.FPS)
	if frames < e.minFrames() {
		frames = e.minFrames()
	}
	return frames, true
}

// maxLeftExtensionFrames returns how many frames the clip's left edge
// can extend into earlier source material.
func (e *Engine) maxLeftExtensionFrames(c clip.Clip) (int, bool) {
	if !c.Base().MaxDurationKnown {
		return 0, false
	}
	return timebase.MaxFramesFor(int64(c.OffsetMs()), e.FPS), true
}

func (e *Engine) minFrames() int {
	if e.MinFrames < 1 {
		return 1
	}
	return e.MinFrames
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
