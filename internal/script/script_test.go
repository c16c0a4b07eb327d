package script

import (
	"strings"
	"testing"

	"github.com/dshills/clipstorm/internal/asset"
	"github.com/dshills/clipstorm/internal/engine"
)

func newRunner(t *testing.T) (*Runner, *engine.Engine) {
	t.Helper()
	lib := asset.NewLibrary()
	lib.Add(asset.Asset{ID: "vid", Kind: asset.KindVideo, Locator: "vid.mp4", DurationMs: 10000, DurationKnown: true})
	lib.Add(asset.Asset{ID: "aud", Kind: asset.KindAudio, Locator: "take.wav", DurationMs: 10000, DurationKnown: true})
	eng := engine.New(engine.WithResolver(lib))
	r := NewRunner(eng, lib)
	t.Cleanup(r.Close)
	return r, eng
}

func TestScriptInsertAndQuery(t *testing.T) {
	r, eng := newRunner(t)

	err := r.Run(`
		local id = timeline.insert("vid")
		assert(type(id) == "string" and #id > 0, "insert should return an id")
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	tracks := eng.Tracks()
	if len(tracks) != 1 || len(eng.TrackClips(tracks[0].ID)) != 1 {
		t.Fatal("script insert should create one clip on one track")
	}
}

func TestScriptSplitReturnsRightHalf(t *testing.T) {
	r, eng := newRunner(t)

	err := r.Run(`
		local id = timeline.insert("aud")
		local right = timeline.split(id, 4000)
		assert(right ~= id, "split should mint a new id")
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	tracks := eng.Tracks()
	if got := len(eng.TrackClips(tracks[0].ID)); got != 2 {
		t.Fatalf("want 2 clips after split, got %d", got)
	}
}

func TestScriptGestureIsOneUndoStep(t *testing.T) {
	r, eng := newRunner(t)

	err := r.Run(`
		timeline.begin()
		for i = 1, 3 do
			timeline.insert("vid")
		end
		timeline.done()
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := eng.UndoCount(); got != 1 {
		t.Fatalf("bracketed script should be one undo step, got %d", got)
	}
	if err := eng.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(eng.Tracks()) != 0 {
		t.Fatal("undo should remove everything the script did")
	}
}

func TestScriptRegistersAssetsIntoEmptyLibrary(t *testing.T) {
	lib := asset.NewLibrary()
	eng := engine.New(engine.WithResolver(lib))
	r := NewRunner(eng, lib)
	t.Cleanup(r.Close)

	err := r.Run(`timeline.insert("slate")`)
	if err == nil || !strings.Contains(err.Error(), "slate") {
		t.Fatalf("want unknown-asset error before registration, got %v", err)
	}

	err = r.Run(`
		timeline.add_asset("slate", "video", "slate.mp4", 3000)
		local id = timeline.insert("slate")
		assert(type(id) == "string" and #id > 0, "insert should return an id")
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	a, ok := lib.Lookup("slate")
	if !ok || a.Kind != asset.KindVideo || a.DurationMs != 3000 || !a.DurationKnown {
		t.Fatalf("library should hold the registered asset, got %+v ok=%v", a, ok)
	}
	tracks := eng.Tracks()
	if len(tracks) != 1 || len(eng.TrackClips(tracks[0].ID)) != 1 {
		t.Fatal("registered asset should insert onto one track")
	}
}

func TestScriptAddAssetRejectsBadKind(t *testing.T) {
	r, _ := newRunner(t)

	err := r.Run(`timeline.add_asset("x", "font", "x.ttf")`)
	if err == nil || !strings.Contains(err.Error(), "kind") {
		t.Fatalf("want kind error, got %v", err)
	}
}

func TestScriptResolveDurationShrinksClip(t *testing.T) {
	r, eng := newRunner(t)

	err := r.Run(`
		timeline.add_asset("take", "video", "take.mp4")
		clip_id = timeline.insert("take")
		local shrunk = timeline.resolve_duration("take", 3000)
		assert(#shrunk == 1 and shrunk[1] == clip_id, "resolve should report the shrunk clip")
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	id := r.L.GetGlobal("clip_id").String()
	b := eng.Find(id).Base()
	if b.DurationFrame != 90 {
		t.Fatalf("clip should shrink to 90 frames, got %d", b.DurationFrame)
	}
}

func TestScriptErrorsSurfaceToGo(t *testing.T) {
	r, _ := newRunner(t)

	err := r.Run(`timeline.insert("missing")`)
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("want raised error naming the asset, got %v", err)
	}
}

func TestScriptSandboxHasNoOS(t *testing.T) {
	r, _ := newRunner(t)
	if err := r.Run(`assert(os == nil and io == nil, "os and io must not load")`); err != nil {
		t.Fatalf("sandbox check failed: %v", err)
	}
}

func TestScriptClipsTable(t *testing.T) {
	r, eng := newRunner(t)

	err := r.Run(`
		timeline.insert("vid")
		timeline.insert("vid")
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	trackID := eng.Tracks()[0].ID

	err = r.Run(`
		local clips = timeline.clips("` + trackID + `")
		assert(#clips == 2, "want 2 clips")
		assert(clips[1].startMs == 0, "first clip starts at 0")
		assert(clips[2].startMs == 10000, "second clip appends")
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}
