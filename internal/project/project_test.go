package project

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/clipstorm/internal/engine/clip"
)

func sampleModel() *clip.Model {
	m := clip.NewModel()
	m.AddTrack(&clip.Track{ID: "v1", Name: "Video 1", Kind: clip.MediaVideo})
	m.AddTrack(&clip.Track{ID: "a1", Name: "Audio 1", Kind: clip.MediaAudio})
	m.PutScene(&clip.Scene{ClipBase: clip.ClipBase{
		ID: "s2", TrackID: "v1", StartFrame: 150, DurationFrame: 90, LinkLeftID: "s1",
	}, AssetID: "clip.mp4", Gain: 1})
	m.PutScene(&clip.Scene{ClipBase: clip.ClipBase{
		ID: "s1", TrackID: "v1", StartFrame: 0, DurationFrame: 150, LinkRightID: "s2",
	}, AssetID: "intro.mp4", Gain: 1})
	m.PutAudio(&clip.AudioClip{ClipBase: clip.ClipBase{
		ID: "m1", TrackID: "a1", StartFrame: 0, DurationFrame: 240,
	}, AssetID: "bed.wav", Kind: clip.AudioMusic, Gain: 0.8, AudioOffsetMs: 1500})
	m.EnsureFrameData(30)
	m.DurationMs = 10000
	m.PlayheadMs = 2500
	return m
}

func TestFromModelSortsClips(t *testing.T) {
	d := FromModel(sampleModel(), 30)

	if d.Version != FormatVersion || d.FPS != 30 {
		t.Fatalf("header %d/%d", d.Version, d.FPS)
	}
	if len(d.Scenes) != 2 || d.Scenes[0].ID != "s1" || d.Scenes[1].ID != "s2" {
		t.Fatalf("scenes should sort by start frame, got %v", sceneIDs(d))
	}
}

func sceneIDs(d *Document) []string {
	ids := make([]string, len(d.Scenes))
	for i, s := range d.Scenes {
		ids[i] = s.ID
	}
	return ids
}

func TestJSONRoundTrip(t *testing.T) {
	m := sampleModel()
	d := FromModel(m, 30)

	data, err := EncodeJSON(d)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	m2, err := got.ToModel()
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}

	if !bytes.Equal(m.Fingerprint(), m2.Fingerprint()) {
		t.Fatal("model should survive a JSON round trip unchanged")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	m := sampleModel()
	d := FromModel(m, 30)

	data, err := EncodeYAML(d)
	if err != nil {
		t.Fatalf("EncodeYAML: %v", err)
	}
	got, err := DecodeYAML(data)
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	m2, err := got.ToModel()
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}

	if !bytes.Equal(m.Fingerprint(), m2.Fingerprint()) {
		t.Fatal("model should survive a YAML round trip unchanged")
	}
}

func TestToModelDerivesFramesFromLegacyMs(t *testing.T) {
	d := &Document{
		Version: 1,
		FPS:     30,
		Tracks:  []*clip.Track{{ID: "v1", Kind: clip.MediaVideo}},
		Scenes: []*clip.Scene{{ClipBase: clip.ClipBase{
			ID: "s1", TrackID: "v1", StartMs: 1000, EndMs: 4000,
		}}},
	}
	m, err := d.ToModel()
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}
	b := m.Find("s1").Base()
	if b.StartFrame != 30 || b.DurationFrame != 90 {
		t.Fatalf("legacy ms should derive frames 30/90, got %d/%d", b.StartFrame, b.DurationFrame)
	}
}

func TestToModelRejectsBadDocuments(t *testing.T) {
	cases := []struct {
		name string
		doc  *Document
	}{
		{"clip on missing track", &Document{FPS: 30,
			Tracks: []*clip.Track{{ID: "v1", Kind: clip.MediaVideo}},
			Scenes: []*clip.Scene{{ClipBase: clip.ClipBase{ID: "s1", TrackID: "nope", DurationFrame: 30}}},
		}},
		{"duplicate track ids", &Document{FPS: 30,
			Tracks: []*clip.Track{{ID: "v1"}, {ID: "v1"}},
		}},
		{"scene without id", &Document{FPS: 30,
			Tracks: []*clip.Track{{ID: "v1", Kind: clip.MediaVideo}},
			Scenes: []*clip.Scene{{ClipBase: clip.ClipBase{TrackID: "v1", DurationFrame: 30}}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.doc.ToModel(); !errors.Is(err, ErrBadDocument) {
				t.Fatalf("want ErrBadDocument, got %v", err)
			}
		})
	}
}

func TestSaveLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	m := sampleModel()
	d := FromModel(m, 30)

	for _, name := range []string{"edit.json", "edit.yaml", "edit.clipstorm"} {
		path := filepath.Join(dir, name)
		if err := Save(path, d); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		m2, err := got.ToModel()
		if err != nil {
			t.Fatalf("ToModel(%s): %v", name, err)
		}
		if !bytes.Equal(m.Fingerprint(), m2.Fingerprint()) {
			t.Fatalf("%s: round trip changed the model", name)
		}
	}
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	d := FromModel(sampleModel(), 30)
	err := Save(filepath.Join(t.TempDir(), "edit.xml"), d)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("want ErrUnsupportedFormat, got %v", err)
	}
}

func TestSaveDoesNotLeaveTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := Save(filepath.Join(dir, "edit.json"), FromModel(sampleModel(), 30)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "edit.json" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}
