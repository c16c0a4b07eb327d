// Package script runs Lua automation against a timeline engine.
//
// Scripts see a single `timeline` module whose functions map one to one
// onto engine and asset-library operations. A script typically registers
// its media first, then edits; batch edits wrap themselves in a gesture
// so a whole script undoes as a single step:
//
//	timeline.add_asset("slate", "video", "slate.mp4", 3000)
//	timeline.begin()
//	for i = 1, 10 do
//	    timeline.insert("slate")
//	end
//	timeline.done()
//
// The runner opens only the safe Lua standard libraries; scripts get no
// io, os, or debug access.
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/clipstorm/internal/asset"
	"github.com/dshills/clipstorm/internal/engine"
)

// Runner executes Lua scripts against an engine. Not safe for concurrent
// use; run scripts from the goroutine that owns the engine.
type Runner struct {
	eng *engine.Engine
	lib *asset.Library
	L   *lua.LState
}

// NewRunner creates a Runner bound to the engine and its asset library.
// The library is the same one the engine resolves insertions through, so
// assets a script registers are immediately insertable.
func NewRunner(eng *engine.Engine, lib *asset.Library) *Runner {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	r := &Runner{eng: eng, lib: lib, L: L}
	r.install()
	return r
}

// Close releases the Lua state.
func (r *Runner) Close() {
	r.L.Close()
}

// Run executes a script from source text.
func (r *Runner) Run(src string) error {
	if err := r.L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// RunFile executes a script file.
func (r *Runner) RunFile(path string) error {
	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// install registers the timeline module.
func (r *Runner) install() {
	mod := r.L.NewTable()
	funcs := map[string]lua.LGFunction{
		"add_asset":        r.luaAddAsset,
		"resolve_duration": r.luaResolveDuration,
		"insert":           r.luaInsert,
		"voice_over":       r.luaVoiceOver,
		"move":             r.luaMove,
		"resize":           r.luaResize,
		"split":            r.luaSplit,
		"delete":           r.luaDelete,
		"ripple_delete":    r.luaRippleDelete,
		"duplicate":        r.luaDuplicate,
		"add_track":        r.luaAddTrack,
		"set_playhead":     r.luaSetPlayhead,
		"playhead":         r.luaPlayhead,
		"duration":         r.luaDuration,
		"clips":            r.luaClips,
		"undo":             r.luaUndo,
		"redo":             r.luaRedo,
		"begin":            r.luaBegin,
		"done":             r.luaDone,
		"cancel":           r.luaCancel,
	}
	r.L.SetFuncs(mod, funcs)
	r.L.SetGlobal("timeline", mod)
}

// optMs reads an optional millisecond argument at position n.
func optMs(L *lua.LState, n int) *int64 {
	if L.GetTop() < n || L.Get(n) == lua.LNil {
		return nil
	}
	ms := int64(L.CheckNumber(n))
	return &ms
}

// luaAddAsset registers a media asset: add_asset(id, kind, locator
// [, duration_ms]). Kind is "video", "image", or "audio"; the duration
// may be omitted for media not yet probed.
func (r *Runner) luaAddAsset(L *lua.LState) int {
	if r.lib == nil {
		L.RaiseError("add_asset: no asset library attached")
		return 0
	}
	id := L.CheckString(1)
	kind := L.CheckString(2)
	locator := L.CheckString(3)

	a := asset.Asset{ID: id, Locator: locator}
	switch kind {
	case "video":
		a.Kind = asset.KindVideo
	case "image":
		a.Kind = asset.KindImage
	case "audio":
		a.Kind = asset.KindAudio
	default:
		L.RaiseError("add_asset: kind must be \"video\", \"image\", or \"audio\", got %q", kind)
		return 0
	}
	if ms := optMs(L, 4); ms != nil && *ms > 0 {
		a.DurationMs = *ms
		a.DurationKnown = true
	}
	r.lib.Add(a)
	return 0
}

// luaResolveDuration records a probed duration on the library and
// tightens any clips already referencing the asset. Returns the ids of
// the clips that shrank.
func (r *Runner) luaResolveDuration(L *lua.LState) int {
	if r.lib == nil {
		L.RaiseError("resolve_duration: no asset library attached")
		return 0
	}
	id := L.CheckString(1)
	ms := int64(L.CheckNumber(2))
	if !r.lib.SetDuration(id, ms) {
		L.RaiseError("resolve_duration %s: unknown asset", id)
		return 0
	}
	out := L.NewTable()
	for _, clipID := range r.eng.ResolveAssetDuration(id, ms) {
		out.Append(lua.LString(clipID))
	}
	L.Push(out)
	return 1
}

func (r *Runner) luaInsert(L *lua.LState) int {
	assetID := L.CheckString(1)
	id, err := r.eng.InsertAsset(assetID, optMs(L, 2))
	if err != nil {
		L.RaiseError("insert %s: %s", assetID, err)
		return 0
	}
	L.Push(lua.LString(id))
	return 1
}

func (r *Runner) luaVoiceOver(L *lua.LState) int {
	assetID := L.CheckString(1)
	id, err := r.eng.InsertVoiceOver(assetID, optMs(L, 2))
	if err != nil {
		L.RaiseError("voice_over %s: %s", assetID, err)
		return 0
	}
	L.Push(lua.LString(id))
	return 1
}

func (r *Runner) luaMove(L *lua.LState) int {
	id := L.CheckString(1)
	ms := int64(L.CheckNumber(2))
	if _, err := r.eng.MoveClip(id, ms); err != nil {
		L.RaiseError("move %s: %s", id, err)
	}
	return 0
}

func (r *Runner) luaResize(L *lua.LState) int {
	id := L.CheckString(1)
	side := L.CheckString(2)
	ms := int64(L.CheckNumber(3))

	var edge engine.Edge
	switch side {
	case "left":
		edge = engine.EdgeLeft
	case "right":
		edge = engine.EdgeRight
	default:
		L.RaiseError("resize: edge must be \"left\" or \"right\", got %q", side)
		return 0
	}
	if _, err := r.eng.ResizeClip(id, edge, ms); err != nil {
		L.RaiseError("resize %s: %s", id, err)
	}
	return 0
}

func (r *Runner) luaSplit(L *lua.LState) int {
	id := L.CheckString(1)
	ms := int64(L.CheckNumber(2))
	rightID, err := r.eng.Split(id, ms)
	if err != nil {
		L.RaiseError("split %s: %s", id, err)
		return 0
	}
	L.Push(lua.LString(rightID))
	return 1
}

func (r *Runner) luaDelete(L *lua.LState) int {
	id := L.CheckString(1)
	if err := r.eng.Delete(id); err != nil {
		L.RaiseError("delete %s: %s", id, err)
	}
	return 0
}

func (r *Runner) luaRippleDelete(L *lua.LState) int {
	id := L.CheckString(1)
	if err := r.eng.RippleDelete(id); err != nil {
		L.RaiseError("ripple_delete %s: %s", id, err)
	}
	return 0
}

func (r *Runner) luaDuplicate(L *lua.LState) int {
	id := L.CheckString(1)
	dupID, err := r.eng.Duplicate(id)
	if err != nil {
		L.RaiseError("duplicate %s: %s", id, err)
		return 0
	}
	L.Push(lua.LString(dupID))
	return 1
}

func (r *Runner) luaAddTrack(L *lua.LState) int {
	kind := L.CheckString(1)
	var mk engine.MediaKind
	switch kind {
	case "video":
		mk = engine.MediaVideo
	case "audio":
		mk = engine.MediaAudio
	default:
		L.RaiseError("add_track: kind must be \"video\" or \"audio\", got %q", kind)
		return 0
	}
	L.Push(lua.LString(r.eng.AddTrack(mk)))
	return 1
}

func (r *Runner) luaSetPlayhead(L *lua.LState) int {
	r.eng.SetPlayhead(int64(L.CheckNumber(1)))
	return 0
}

func (r *Runner) luaPlayhead(L *lua.LState) int {
	L.Push(lua.LNumber(r.eng.PlayheadMs()))
	return 1
}

func (r *Runner) luaDuration(L *lua.LState) int {
	L.Push(lua.LNumber(r.eng.DurationMs()))
	return 1
}

// luaClips returns the clips on a track as an array of tables with id,
// startMs, endMs, startFrame, and durationFrame fields.
func (r *Runner) luaClips(L *lua.LState) int {
	trackID := L.CheckString(1)
	out := L.NewTable()
	for _, c := range r.eng.TrackClips(trackID) {
		b := c.Base()
		t := L.NewTable()
		t.RawSetString("id", lua.LString(b.ID))
		t.RawSetString("startMs", lua.LNumber(b.StartMs))
		t.RawSetString("endMs", lua.LNumber(b.EndMs))
		t.RawSetString("startFrame", lua.LNumber(b.StartFrame))
		t.RawSetString("durationFrame", lua.LNumber(b.DurationFrame))
		out.Append(t)
	}
	L.Push(out)
	return 1
}

func (r *Runner) luaUndo(L *lua.LState) int {
	if err := r.eng.Undo(); err != nil {
		L.RaiseError("undo: %s", err)
	}
	return 0
}

func (r *Runner) luaRedo(L *lua.LState) int {
	if err := r.eng.Redo(); err != nil {
		L.RaiseError("redo: %s", err)
	}
	return 0
}

func (r *Runner) luaBegin(L *lua.LState) int {
	r.eng.BeginGesture()
	return 0
}

func (r *Runner) luaDone(L *lua.LState) int {
	r.eng.EndGesture()
	return 0
}

func (r *Runner) luaCancel(L *lua.LState) int {
	r.eng.CancelGesture()
	return 0
}
