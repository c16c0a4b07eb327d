package link

import (
	"testing"

	"github.com/dshills/clipstorm/internal/engine/clip"
)

// Thresholds match an 8px snap / 14px unlink at 100 px/s zoom.
func newEngine(fps int) *Engine {
	return &Engine{FPS: fps, SnapMs: 80, UnlinkMs: 140, MinFrames: 1}
}

func addScene(m *clip.Model, id, trackID string, startFrame, durFrame, fps int) *clip.Scene {
	s := &clip.Scene{ClipBase: clip.ClipBase{ID: id, TrackID: trackID, StartFrame: startFrame, DurationFrame: durFrame}}
	s.SyncMs(fps)
	m.PutScene(s)
	return s
}

func addAudio(m *clip.Model, id, trackID string, startFrame, durFrame, fps int) *clip.AudioClip {
	a := &clip.AudioClip{ClipBase: clip.ClipBase{ID: id, TrackID: trackID, StartFrame: startFrame, DurationFrame: durFrame}}
	a.SyncMs(fps)
	m.PutAudio(a)
	return a
}

func videoModel() *clip.Model {
	m := clip.NewModel()
	m.AddTrack(&clip.Track{ID: "v1", Kind: clip.MediaVideo})
	return m
}

// checkLinks asserts that every link in the model is mutual, same-track,
// and in exact contact.
func checkLinks(t *testing.T, m *clip.Model) {
	t.Helper()
	for _, c := range m.All() {
		b := c.Base()
		if b.LinkRightID != "" {
			partner := m.Find(b.LinkRightID)
			if partner == nil {
				t.Fatalf("%s links right to missing clip %s", b.ID, b.LinkRightID)
			}
			pb := partner.Base()
			if pb.LinkLeftID != b.ID {
				t.Errorf("link %s->%s not mutual", b.ID, pb.ID)
			}
			if pb.TrackID != b.TrackID {
				t.Errorf("link %s->%s crosses tracks", b.ID, pb.ID)
			}
			if b.EndMs != pb.StartMs {
				t.Errorf("linked pair %s->%s not in contact: %d != %d", b.ID, pb.ID, b.EndMs, pb.StartMs)
			}
		}
	}
}

// checkNoOverlap asserts per-track ordering with no overlap.
func checkNoOverlap(t *testing.T, m *clip.Model) {
	t.Helper()
	for _, tr := range m.Tracks {
		clips := m.TrackClips(tr.ID)
		for i := 0; i+1 < len(clips); i++ {
			a, b := clips[i].Base(), clips[i+1].Base()
			if a.EndMs > b.StartMs {
				t.Errorf("track %s: %s [%d,%d) overlaps %s [%d,%d)",
					tr.ID, a.ID, a.StartMs, a.EndMs, b.ID, b.StartMs, b.EndMs)
			}
		}
	}
}

func TestMoveClampsToZero(t *testing.T) {
	m := videoModel()
	e := newEngine(30)
	s := addScene(m, "a", "v1", 60, 30, 30)

	e.Move(m, s, -5000)

	if s.StartFrame != 0 || s.StartMs != 0 {
		t.Errorf("start = frame %d / %dms, want 0", s.StartFrame, s.StartMs)
	}
}

func TestMoveSnapsToLeftNeighbor(t *testing.T) {
	m := videoModel()
	e := newEngine(30)
	addScene(m, "a", "v1", 0, 150, 30) // [0, 5000)
	b := addScene(m, "b", "v1", 300, 30, 30)

	// Target 5050: gap 50 is under the 80ms snap threshold.
	res := e.Move(m, b, 5050)

	if !res.SnappedLeft {
		t.Error("expected a left snap")
	}
	if b.StartMs != 5000 {
		t.Errorf("b.StartMs = %d, want 5000", b.StartMs)
	}
	if b.LinkLeftID != "a" || m.Scenes["a"].LinkRightID != "b" {
		t.Error("mutual link not established")
	}
	checkLinks(t, m)
	checkNoOverlap(t, m)
}

func TestMoveOutsideSnapThresholdDoesNotLink(t *testing.T) {
	m := videoModel()
	e := newEngine(30)
	addScene(m, "a", "v1", 0, 150, 30)
	b := addScene(m, "b", "v1", 300, 30, 30)

	// Gap 100 exceeds the 80ms snap threshold.
	e.Move(m, b, 5100)

	if b.LinkLeftID != "" {
		t.Error("link formed outside the snap threshold")
	}
	if b.StartMs != 5100 {
		t.Errorf("b.StartMs = %d, want 5100", b.StartMs)
	}
}

func TestMoveHysteresisKeepsLinkInsideUnlinkThreshold(t *testing.T) {
	m := videoModel()
	e := newEngine(30)
	a := addScene(m, "a", "v1", 0, 150, 30)
	b := addScene(m, "b", "v1", 150, 90, 30)
	e.linkPair(a, b)

	// 100ms is past the snap threshold but inside the unlink threshold:
	// the linked edge resists and pulls back to contact.
	e.Move(m, b, 5100)

	if b.StartMs != 5000 {
		t.Errorf("b.StartMs = %d, want 5000 (snapped back)", b.StartMs)
	}
	if b.LinkLeftID != "a" {
		t.Error("link was lost inside the unlink threshold")
	}
	checkLinks(t, m)
}

func TestMoveBeyondUnlinkThresholdBreaksLink(t *testing.T) {
	m := videoModel()
	e := newEngine(30)
	a := addScene(m, "a", "v1", 0, 150, 30)
	b := addScene(m, "b", "v1", 150, 90, 30)
	e.linkPair(a, b)

	res := e.Move(m, b, 5200)

	if !res.Unlinked {
		t.Error("expected an unlink")
	}
	if b.LinkLeftID != "" || a.LinkRightID != "" {
		t.Error("link survived a move past the unlink threshold")
	}
	if b.StartMs != 5200 {
		t.Errorf("b.StartMs = %d, want 5200", b.StartMs)
	}
	checkLinks(t, m)
	checkNoOverlap(t, m)
}

func TestMoveCannotOverlapNeighbor(t *testing.T) {
	m := videoModel()
	e := newEngine(30)
	addScene(m, "a", "v1", 0, 150, 30)
	b := addScene(m, "b", "v1", 300, 60, 30)

	// Target is inside a's body; b clamps to contact and links.
	res := e.Move(m, b, 3000)

	if b.StartMs != 5000 {
		t.Errorf("b.StartMs = %d, want 5000", b.StartMs)
	}
	if !res.SnappedLeft {
		t.Error("contact clamp should register as a snap")
	}
	checkNoOverlap(t, m)
	checkLinks(t, m)
}

func TestMoveIntoGapBetweenClips(t *testing.T) {
	m := videoModel()
	e := newEngine(30)
	addScene(m, "a", "v1", 0, 30, 30)    // [0, 1000)
	addScene(m, "b", "v1", 150, 30, 30)  // [5000, 6000)
	c := addScene(m, "c", "v1", 300, 30, 30)

	e.Move(m, c, 3000)

	if c.StartMs != 3000 {
		t.Errorf("c.StartMs = %d, want 3000", c.StartMs)
	}
	checkNoOverlap(t, m)
}

func TestMoveToTrackClearsLinks(t *testing.T) {
	m := videoModel()
	m.AddTrack(&clip.Track{ID: "v2", Kind: clip.MediaVideo})
	e := newEngine(30)
	a := addScene(m, "a", "v1", 0, 150, 30)
	b := addScene(m, "b", "v1", 150, 90, 30)
	e.linkPair(a, b)

	e.MoveToTrack(m, b, "v2", 5000)

	if b.TrackID != "v2" {
		t.Errorf("TrackID = %q, want v2", b.TrackID)
	}
	if b.LinkLeftID != "" || a.LinkRightID != "" {
		t.Error("links survived a track change")
	}
	checkLinks(t, m)
}

// The drag scenarios from the snap/unlink hysteresis design, at 60fps so
// 4550ms lands exactly on a frame boundary.
func TestLinkedEdgeDragTearAndResist(t *testing.T) {
	fps := 60
	e := newEngine(fps)

	// Two linked scenes [0,5000) and [5000,8000).
	build := func() (*clip.Model, *clip.Scene, *clip.Scene) {
		m := videoModel()
		a := addScene(m, "a", "v1", 0, 300, fps)
		b := addScene(m, "b", "v1", 300, 180, fps)
		e.linkPair(a, b)
		return m, a, b
	}

	// Dragging b's left edge to 4550: 450ms exceeds the 140ms unlink
	// threshold, so the link tears and the junction follows the drag.
	m, a, b := build()
	res := e.Resize(m, b, EdgeLeft, 4550)
	if !res.Unlinked {
		t.Error("expected the link to tear")
	}
	if b.StartMs != 4550 {
		t.Errorf("b.StartMs = %d, want 4550", b.StartMs)
	}
	if a.LinkRightID != "" || b.LinkLeftID != "" {
		t.Error("link ids not cleared after tear")
	}
	checkNoOverlap(t, m)

	// Dragging instead to 5050: 50ms is inside the threshold, the glued
	// junction resists and the edge stays at exactly 5000.
	m, a, b = build()
	res = e.Resize(m, b, EdgeLeft, 5050)
	if res.Resized || res.Unlinked {
		t.Error("glued junction should resist a 50ms displacement")
	}
	if b.StartMs != 5000 {
		t.Errorf("b.StartMs = %d, want 5000", b.StartMs)
	}
	if b.LinkLeftID != "a" || a.LinkRightID != "b" {
		t.Error("link must survive a displacement inside the threshold")
	}
	checkLinks(t, m)
}

func TestUnlinkedResizeRightClampsAtNeighborAndLinks(t *testing.T) {
	m := videoModel()
	e := newEngine(30)
	a := addScene(m, "a", "v1", 0, 60, 30)    // [0, 2000)
	addScene(m, "b", "v1", 150, 30, 30)       // [5000, 6000)

	// Dragging a's right edge way past b clamps at b's start and links.
	res := e.Resize(m, a, EdgeRight, 9000)

	if a.EndMs != 5000 {
		t.Errorf("a.EndMs = %d, want 5000", a.EndMs)
	}
	if !res.Snapped {
		t.Error("expected a snap at the neighbor edge")
	}
	if a.LinkRightID != "b" {
		t.Error("expected a link at contact")
	}
	checkLinks(t, m)
	checkNoOverlap(t, m)
}

func TestResizeRespectsMinimumDuration(t *testing.T) {
	m := videoModel()
	e := newEngine(30)
	e.MinFrames = 6 // 200ms at 30fps
	a := addScene(m, "a", "v1", 0, 60, 30)

	e.Resize(m, a, EdgeRight, 0)

	if a.DurationFrame != 6 {
		t.Errorf("DurationFrame = %d, want the 6-frame minimum", a.DurationFrame)
	}
}

func TestResizeRespectsAssetCeiling(t *testing.T) {
	m := videoModel()
	e := newEngine(30)
	a := addScene(m, "a", "v1", 0, 60, 30) // 2000ms
	a.MaxDurationMs = 3000
	a.MaxDurationKnown = true

	e.Resize(m, a, EdgeRight, 10000)

	// 3000ms at 30fps is 90 frames.
	if a.DurationFrame != 90 {
		t.Errorf("DurationFrame = %d, want 90 (asset ceiling)", a.DurationFrame)
	}
}

func TestImageSceneIsUnbounded(t *testing.T) {
	m := videoModel()
	e := newEngine(30)
	a := addScene(m, "a", "v1", 0, 60, 30) // no MaxDurationKnown

	e.Resize(m, a, EdgeRight, 60000)

	if a.EndMs != 60000 {
		t.Errorf("EndMs = %d, want 60000 (no ceiling for images)", a.EndMs)
	}
}

func TestAudioLeftTrimShiftsOffset(t *testing.T) {
	m := clip.NewModel()
	m.AddTrack(&clip.Track{ID: "a1", Kind: clip.MediaAudio})
	e := newEngine(30)
	a := addAudio(m, "c", "a1", 0, 300, 30) // [0, 10000)
	a.AudioOffsetMs = 0
	a.MaxDurationMs = 10000
	a.MaxDurationKnown = true

	// Trim the left edge to 2000ms: offset follows the timeline delta.
	e.Resize(m, a, EdgeLeft, 2000)

	if a.StartMs != 2000 {
		t.Errorf("StartMs = %d, want 2000", a.StartMs)
	}
	if a.AudioOffsetMs != 2000 {
		t.Errorf("AudioOffsetMs = %v, want 2000", a.AudioOffsetMs)
	}

	// Extending back left restores earlier material.
	e.Resize(m, a, EdgeLeft, 500)
	if a.StartMs != 500 {
		t.Errorf("StartMs = %d, want 500", a.StartMs)
	}
	if a.AudioOffsetMs != 500 {
		t.Errorf("AudioOffsetMs = %v, want 500", a.AudioOffsetMs)
	}
}

func TestAudioLeftExtensionBoundedByOffset(t *testing.T) {
	m := clip.NewModel()
	m.AddTrack(&clip.Track{ID: "a1", Kind: clip.MediaAudio})
	e := newEngine(30)
	a := addAudio(m, "c", "a1", 150, 60, 30) // [5000, 7000)
	a.AudioOffsetMs = 1000
	a.MaxDurationMs = 10000
	a.MaxDurationKnown = true

	// Only 1000ms of earlier source material exists.
	e.Resize(m, a, EdgeLeft, 0)

	if a.StartMs != 4000 {
		t.Errorf("StartMs = %d, want 4000 (bounded by source in-point)", a.StartMs)
	}
	if a.AudioOffsetMs != 0 {
		t.Errorf("AudioOffsetMs = %v, want 0", a.AudioOffsetMs)
	}
}

func TestAudioRightTrimLeavesOffsetUntouched(t *testing.T) {
	m := clip.NewModel()
	m.AddTrack(&clip.Track{ID: "a1", Kind: clip.MediaAudio})
	e := newEngine(30)
	a := addAudio(m, "c", "a1", 0, 300, 30)
	a.AudioOffsetMs = 1500
	a.MaxDurationMs = 20000
	a.MaxDurationKnown = true

	e.Resize(m, a, EdgeRight, 4000)

	if a.EndMs != 4000 {
		t.Errorf("EndMs = %d, want 4000", a.EndMs)
	}
	if a.AudioOffsetMs != 1500 {
		t.Errorf("AudioOffsetMs = %v, want 1500 (right trim must not shift it)", a.AudioOffsetMs)
	}
}

func TestCoupledJunctionRespectsBothBounds(t *testing.T) {
	fps := 30
	m := videoModel()
	e := newEngine(fps)
	e.MinFrames = 30 // 1s minimum
	a := addScene(m, "a", "v1", 0, 150, fps)   // [0, 5000)
	b := addScene(m, "b", "v1", 150, 90, fps)  // [5000, 8000)
	e.linkPair(a, b)

	// Tearing drag far into a: junction clamps at a's minimum duration.
	e.Resize(m, b, EdgeLeft, 200)

	if a.DurationFrame != 30 {
		t.Errorf("a.DurationFrame = %d, want the 30-frame minimum", a.DurationFrame)
	}
	if b.StartFrame != 30 {
		t.Errorf("b.StartFrame = %d, want 30", b.StartFrame)
	}
	if b.EndMs != 8000 {
		t.Errorf("b.EndMs = %d, want 8000 (far edge fixed)", b.EndMs)
	}
	checkNoOverlap(t, m)
}
