// Package clip defines the timeline's in-memory data model: tracks,
// scenes, audio clips, and the id-indexed store holding them.
//
// Clips reference their magnetic-link partners by id rather than by
// pointer; neighbors are resolved through lookup so there are no cyclic
// references to maintain and no dangling pointers after deletion.
package clip

import (
	"encoding/json"
	"sort"
)

// Model is the complete editable state of a timeline. All mutation goes
// through the engine; the model itself only offers storage, queries, and
// deep copying for history snapshots.
type Model struct {
	Tracks []*Track              `json:"tracks" yaml:"tracks"`
	Scenes map[string]*Scene     `json:"scenes" yaml:"scenes"`
	Audio  map[string]*AudioClip `json:"audioClips" yaml:"audioClips"`

	DurationMs int64 `json:"durationMs" yaml:"durationMs"`
	PlayheadMs int64 `json:"playheadMs" yaml:"playheadMs"`
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		Scenes: make(map[string]*Scene),
		Audio:  make(map[string]*AudioClip),
	}
}

// Clone returns a deep copy of the model. Used for history snapshots and
// read-only views handed to the UI.
func (m *Model) Clone() *Model {
	c := &Model{
		Tracks:     make([]*Track, len(m.Tracks)),
		Scenes:     make(map[string]*Scene, len(m.Scenes)),
		Audio:      make(map[string]*AudioClip, len(m.Audio)),
		DurationMs: m.DurationMs,
		PlayheadMs: m.PlayheadMs,
	}
	for i, t := range m.Tracks {
		c.Tracks[i] = t.Clone()
	}
	for id, s := range m.Scenes {
		c.Scenes[id] = s.Clone()
	}
	for id, a := range m.Audio {
		c.Audio[id] = a.Clone()
	}
	return c
}

// Fingerprint returns a structural serialization of the model suitable
// for change detection. Map keys serialize in sorted order, so equal
// states always produce equal fingerprints.
func (m *Model) Fingerprint() []byte {
	data, err := json.Marshal(m)
	if err != nil {
		// The model contains only plain data types; this cannot fail.
		panic("clip: fingerprint: " + err.Error())
	}
	return data
}

// EnsureFrameData normalizes every clip in the model: frame fields are
// derived from legacy millisecond fields where missing, then the
// millisecond projections are recomputed unconditionally. Must run on
// every freshly loaded model before any other operation touches it.
func (m *Model) EnsureFrameData(fps int) {
	for _, s := range m.Scenes {
		ensureFrameData(&s.ClipBase, fps)
	}
	for _, a := range m.Audio {
		ensureFrameData(&a.ClipBase, fps)
	}
}

// ============================================================================
// Tracks
// ============================================================================

// AddTrack inserts a track, keeping video tracks ordered before audio
// tracks. A new video track goes after the existing video tracks; a new
// audio track goes at the end.
func (m *Model) AddTrack(t *Track) {
	if t.Kind == MediaVideo {
		pos := 0
		for pos < len(m.Tracks) && m.Tracks[pos].Kind == MediaVideo {
			pos++
		}
		m.Tracks = append(m.Tracks, nil)
		copy(m.Tracks[pos+1:], m.Tracks[pos:])
		m.Tracks[pos] = t
		return
	}
	m.Tracks = append(m.Tracks, t)
}

// Track returns the track with the given id, or nil.
func (m *Model) Track(id string) *Track {
	for _, t := range m.Tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// FirstTrackOfKind returns the first track of the given kind, or nil.
func (m *Model) FirstTrackOfKind(kind MediaKind) *Track {
	for _, t := range m.Tracks {
		if t.Kind == kind {
			return t
		}
	}
	return nil
}

// RemoveTrack deletes a track and every clip bound to it. It returns the
// ids of the removed clips. Link references from clips on other tracks
// are untouched because links never cross tracks.
func (m *Model) RemoveTrack(id string) []string {
	idx := -1
	for i, t := range m.Tracks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	m.Tracks = append(m.Tracks[:idx], m.Tracks[idx+1:]...)

	var removed []string
	for cid, s := range m.Scenes {
		if s.TrackID == id {
			removed = append(removed, cid)
			delete(m.Scenes, cid)
		}
	}
	for cid, a := range m.Audio {
		if a.TrackID == id {
			removed = append(removed, cid)
			delete(m.Audio, cid)
		}
	}
	return removed
}

// ============================================================================
// Clips
// ============================================================================

// PutScene stores a scene in the arena.
func (m *Model) PutScene(s *Scene) { m.Scenes[s.ID] = s }

// PutAudio stores an audio clip in the arena.
func (m *Model) PutAudio(a *AudioClip) { m.Audio[a.ID] = a }

// Find returns the clip with the given id, scene or audio, or nil.
func (m *Model) Find(id string) Clip {
	if s, ok := m.Scenes[id]; ok {
		return s
	}
	if a, ok := m.Audio[id]; ok {
		return a
	}
	return nil
}

// Remove deletes a clip from the arena and clears any link references
// pointing at it. Returns the removed clip, or nil.
func (m *Model) Remove(id string) Clip {
	c := m.Find(id)
	if c == nil {
		return nil
	}
	delete(m.Scenes, id)
	delete(m.Audio, id)
	m.ClearLinksTo(id)
	return c
}

// ClearLinksTo removes every link reference pointing at the given id.
func (m *Model) ClearLinksTo(id string) {
	for _, c := range m.all() {
		b := c.Base()
		if b.LinkLeftID == id {
			b.LinkLeftID = ""
		}
		if b.LinkRightID == id {
			b.LinkRightID = ""
		}
	}
}

// All returns every clip in the model, in no particular order.
func (m *Model) All() []Clip { return m.all() }

func (m *Model) all() []Clip {
	out := make([]Clip, 0, len(m.Scenes)+len(m.Audio))
	for _, s := range m.Scenes {
		out = append(out, s)
	}
	for _, a := range m.Audio {
		out = append(out, a)
	}
	return out
}

// TrackClips returns the clips on a track, sorted by start frame.
func (m *Model) TrackClips(trackID string) []Clip {
	var out []Clip
	for _, c := range m.all() {
		if c.Base().TrackID == trackID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Base().StartFrame < out[j].Base().StartFrame
	})
	return out
}

// LastClipOn returns the clip ending last on a track, or nil if the track
// is empty.
func (m *Model) LastClipOn(trackID string) Clip {
	var last Clip
	for _, c := range m.all() {
		if c.Base().TrackID != trackID {
			continue
		}
		if last == nil || c.Base().EndFrame() > last.Base().EndFrame() {
			last = c
		}
	}
	return last
}

// Neighbors returns the immediate previous and next clips on the same
// track as c, by start order. Either may be nil.
func (m *Model) Neighbors(c Clip) (prev, next Clip) {
	base := c.Base()
	for _, other := range m.all() {
		ob := other.Base()
		if ob.TrackID != base.TrackID || ob.ID == base.ID {
			continue
		}
		if ob.StartFrame < base.StartFrame ||
			(ob.StartFrame == base.StartFrame && ob.ID < base.ID) {
			if prev == nil || ob.StartFrame > prev.Base().StartFrame {
				prev = other
			}
		} else {
			if next == nil || ob.StartFrame < next.Base().StartFrame {
				next = other
			}
		}
	}
	return prev, next
}

// ClipAt returns the clip on the given track covering the millisecond
// position, or nil.
func (m *Model) ClipAt(trackID string, ms int64) Clip {
	for _, c := range m.TrackClips(trackID) {
		b := c.Base()
		if b.StartMs <= ms && ms < b.EndMs {
			return c
		}
	}
	return nil
}

// MaxEndMs returns the largest clip end time in the model.
func (m *Model) MaxEndMs() int64 {
	var max int64
	for _, c := range m.all() {
		if end := c.Base().EndMs; end > max {
			max = end
		}
	}
	return max
}
