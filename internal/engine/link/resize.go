package link

import (
	"math"

	"github.com/dshills/clipstorm/internal/engine/clip"
	"github.com/dshills/clipstorm/internal/timebase"
)

// Edge identifies which side of a clip a trim gesture is dragging.
type Edge int

const (
	// EdgeLeft is the clip's start edge.
	EdgeLeft Edge = iota

	// EdgeRight is the clip's end edge.
	EdgeRight
)

// ResizeResult reports what a resize did.
type ResizeResult struct {
	Resized  bool
	Snapped  bool
	Unlinked bool
}

// Resize drags one edge of a clip toward the target time.
//
// When the dragged edge is linked to a neighbor the junction is glued:
// displacements inside the unlink threshold are resisted and the edge
// stays in exact contact. A pull beyond the threshold tears the link;
// pulling into the partner moves the junction as a coupled pair (each
// clip keeping its far edge and respecting its own bounds), pulling away
// trims only the dragged clip. A torn junction that ends up in exact
// contact stays unlinked: contact without a link is a valid state until
// a later drag re-crosses the snap threshold.
//
// When the edge is unlinked, the trim is clamped by the opposite edge
// plus the minimum duration, by the neighbor on that side, and by the
// asset-derived maximum, then the same snap logic as Move may form a new
// link.
func (e *Engine) Resize(m *clip.Model, c clip.Clip, edge Edge, targetMs int64) ResizeResult {
	if edge == EdgeLeft {
		return e.resizeLeft(m, c, targetMs)
	}
	return e.resizeRight(m, c, targetMs)
}

func (e *Engine) resizeLeft(m *clip.Model, c clip.Clip, targetMs int64) ResizeResult {
	var res ResizeResult
	b := c.Base()

	if b.LinkLeftID != "" {
		partner := m.Find(b.LinkLeftID)
		if partner != nil {
			d := targetMs - b.StartMs
			if d >= -e.UnlinkMs && d <= e.UnlinkMs {
				// Glued: the junction resists small displacements.
				return res
			}
			e.unlinkLeft(m, c)
			res.Unlinked = true
			if d < 0 {
				// Tearing into the partner: move the junction as a
				// coupled pair so no overlap forms.
				res.Resized = e.moveJunction(partner, c, targetMs)
				return res
			}
			// Tearing away: fall through to a plain trim.
		}
	}

	prev, _ := m.Neighbors(c)

	lo := 0
	if prev != nil {
		lo = prev.Base().EndFrame()
	}
	if ext, bounded := e.maxLeftExtensionFrames(c); bounded {
		if floor := b.StartFrame - ext; floor > lo {
			lo = floor
		}
	}
	hi := b.EndFrame() - e.minFrames()
	if lo > hi {
		return res
	}

	newStart := clampInt(timebase.MsToFrames(targetMs, e.FPS), lo, hi)

	// Snap to the previous clip's edge when close enough.
	if prev != nil && b.LinkLeftID == "" {
		gap := timebase.FramesToMs(newStart, e.FPS) - prev.Base().EndMs
		if gap >= 0 && gap <= e.SnapMs && prev.Base().EndFrame() <= hi {
			newStart = prev.Base().EndFrame()
			res.Snapped = true
		}
	}

	if newStart != b.StartFrame {
		e.applyLeftTrim(c, newStart)
		res.Resized = true
	}
	if res.Snapped && prev != nil && prev.Base().EndMs == b.StartMs {
		e.linkPair(prev, c)
	}
	return res
}

func (e *Engine) resizeRight(m *clip.Model, c clip.Clip, targetMs int64) ResizeResult {
	var res ResizeResult
	b := c.Base()

	if b.LinkRightID != "" {
		partner := m.Find(b.LinkRightID)
		if partner != nil {
			d := targetMs - b.EndMs
			if d >= -e.UnlinkMs && d <= e.UnlinkMs {
				return res
			}
			e.unlinkRight(m, c)
			res.Unlinked = true
			if d > 0 {
				res.Resized = e.moveJunction(c, partner, targetMs)
				return res
			}
		}
	}

	_, next := m.Neighbors(c)

	lo := b.StartFrame + e.minFrames()
	hi := math.MaxInt
	if next != nil {
		hi = next.Base().StartFrame
	}
	if maxDur, bounded := e.maxDurationFrames(c); bounded {
		if ceil := b.StartFrame + maxDur; ceil < hi {
			hi = ceil
		}
	}
	if lo > hi {
		return res
	}

	newEnd := clampInt(timebase.MsToFrames(targetMs, e.FPS), lo, hi)

	if next != nil && b.LinkRightID == "" {
		gap := next.Base().StartMs - timebase.FramesToMs(newEnd, e.FPS)
		if gap >= 0 && gap <= e.SnapMs && next.Base().StartFrame >= lo && next.Base().StartFrame <= hi {
			newEnd = next.Base().StartFrame
			res.Snapped = true
		}
	}

	if newEnd != b.EndFrame() {
		b.DurationFrame = newEnd - b.StartFrame
		b.SyncMs(e.FPS)
		res.Resized = true
	}
	if res.Snapped && next != nil && next.Base().StartMs == b.EndMs {
		e.linkPair(c, next)
	}
	return res
}

// moveJunction moves the contact point between left and right to the
// target, clamped by the intersection of both clips' bounds: each keeps
// its far edge, its minimum duration, and its asset ceiling.
func (e *Engine) moveJunction(left, right clip.Clip, targetMs int64) bool {
	lb := left.Base()
	rb := right.Base()

	lo := lb.StartFrame + e.minFrames()
	hi := rb.EndFrame() - e.minFrames()

	if maxDur, bounded := e.maxDurationFrames(left); bounded {
		if ceil := lb.StartFrame + maxDur; ceil < hi {
			hi = ceil
		}
	}
	if ext, bounded := e.maxLeftExtensionFrames(right); bounded {
		if floor := rb.StartFrame - ext; floor > lo {
			lo = floor
		}
	}
	if lo > hi {
		return false
	}

	newJ := clampInt(timebase.MsToFrames(targetMs, e.FPS), lo, hi)
	if newJ == rb.StartFrame {
		return false
	}

	lb.DurationFrame = newJ - lb.StartFrame
	lb.SyncMs(e.FPS)

	oldStartMs := rb.StartMs
	rb.DurationFrame = rb.EndFrame() - newJ
	rb.StartFrame = newJ
	rb.SyncMs(e.FPS)
	right.ShiftOffset(float64(rb.StartMs - oldStartMs))

	return true
}

// applyLeftTrim moves a clip's start edge to the given frame, keeping
// the end fixed and shifting the source in-point by the timeline delta
// so the visible region still addresses the same material.
func (e *Engine) applyLeftTrim(c clip.Clip, newStart int) {
	b := c.Base()
	oldStartMs := b.StartMs
	b.DurationFrame = b.EndFrame() - newStart
	b.StartFrame = newStart
	b.SyncMs(e.FPS)
	c.ShiftOffset(float64(b.StartMs - oldStartMs))
}
