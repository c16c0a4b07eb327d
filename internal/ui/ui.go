// Package ui renders the timeline in a terminal and translates key
// events into engine operations.
//
// The layout is one row per track: a fixed name column on the left and
// clip bars on the right, drawn at the engine's zoom (one terminal cell
// per zoom pixel). Linked edges render as a joint glyph so magnetic
// pairs are visible at a glance.
package ui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/clipstorm/internal/engine"
)

// ErrQuit signals a normal user-requested exit.
var ErrQuit = errors.New("quit")

// SaveFunc persists the current timeline when the user presses save.
type SaveFunc func(*engine.Model) error

// App drives the interactive timeline session.
type App struct {
	eng    *engine.Engine
	screen tcell.Screen
	save   SaveFunc

	selected string
	scrollMs int64
	status   string
	dragging bool
}

// Option configures an App.
type Option func(*App)

// WithSave sets the handler invoked on Ctrl+S.
func WithSave(fn SaveFunc) Option {
	return func(a *App) { a.save = fn }
}

// New creates an App on the given screen. The caller owns screen
// lifecycle; Run assumes Init was already called.
func New(eng *engine.Engine, screen tcell.Screen, opts ...Option) *App {
	a := &App{eng: eng, screen: screen}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run draws the timeline and processes events until quit. Returns nil on
// a normal quit.
func (a *App) Run() error {
	for {
		a.Draw()
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := a.Handle(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
}

// Handle processes one event. Exposed for tests.
func (a *App) Handle(ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		return a.handleKey(e)
	}
	return nil
}

func (a *App) handleKey(ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		if a.dragging {
			a.eng.CancelGesture()
			a.dragging = false
			a.status = "drag cancelled"
			return nil
		}
		return ErrQuit
	case tcell.KeyCtrlS:
		return a.doSave()
	case tcell.KeyLeft:
		a.nudgePlayhead(-a.stepMs(ev.Modifiers()))
		return nil
	case tcell.KeyRight:
		a.nudgePlayhead(a.stepMs(ev.Modifiers()))
		return nil
	case tcell.KeyTab:
		a.cycleSelection(1)
		return nil
	case tcell.KeyBacktab:
		a.cycleSelection(-1)
		return nil
	}

	switch ev.Rune() {
	case 'q':
		return ErrQuit
	case 'u':
		a.report("undo", a.eng.Undo())
	case 'R':
		a.report("redo", a.eng.Redo())
	case 's':
		a.splitSelected()
	case 'x':
		a.deleteSelected(false)
	case 'X':
		a.deleteSelected(true)
	case 'c':
		a.duplicateSelected()
	case 'h':
		a.moveSelected(-a.stepMs(ev.Modifiers()))
	case 'l':
		a.moveSelected(a.stepMs(ev.Modifiers()))
	case '[':
		a.trimSelected(engine.EdgeLeft, a.stepMs(ev.Modifiers()))
	case '{':
		a.trimSelected(engine.EdgeLeft, -a.stepMs(ev.Modifiers()))
	case ']':
		a.trimSelected(engine.EdgeRight, a.stepMs(ev.Modifiers()))
	case '}':
		a.trimSelected(engine.EdgeRight, -a.stepMs(ev.Modifiers()))
	case 'g':
		a.toggleDrag()
	case '+', '=':
		a.eng.SetZoom(a.eng.Zoom() * 1.25)
	case '-':
		a.eng.SetZoom(a.eng.Zoom() / 1.25)
	case 'v':
		a.selected = ""
		a.eng.AddTrack(engine.MediaVideo)
		a.status = "video track added"
	case 'b':
		a.selected = ""
		a.eng.AddTrack(engine.MediaAudio)
		a.status = "audio track added"
	}
	return nil
}

// report sets the status line to the error, or to the operation name on
// success.
func (a *App) report(op string, err error) {
	if err != nil {
		a.status = err.Error()
		return
	}
	a.status = op
}

// stepMs is one frame normally, one second with shift held.
func (a *App) stepMs(mods tcell.ModMask) int64 {
	if mods&tcell.ModShift != 0 {
		return 1000
	}
	step := int64(1000 / a.eng.FPS())
	if step < 1 {
		step = 1
	}
	return step
}

func (a *App) doSave() error {
	if a.save == nil {
		a.status = "no save target"
		return nil
	}
	if err := a.save(a.eng.Snapshot()); err != nil {
		a.status = fmt.Sprintf("save failed: %v", err)
		return nil
	}
	a.status = "saved"
	return nil
}

func (a *App) nudgePlayhead(deltaMs int64) {
	a.eng.SetPlayhead(a.eng.PlayheadMs() + deltaMs)
}

// cycleSelection walks all clips in track order.
func (a *App) cycleSelection(dir int) {
	var ids []string
	for _, t := range a.eng.Tracks() {
		for _, c := range a.eng.TrackClips(t.ID) {
			ids = append(ids, c.Base().ID)
		}
	}
	if len(ids) == 0 {
		a.selected = ""
		return
	}
	cur := -1
	for i, id := range ids {
		if id == a.selected {
			cur = i
			break
		}
	}
	next := (cur + dir + len(ids)) % len(ids)
	a.selected = ids[next]
}

func (a *App) splitSelected() {
	if a.selected == "" {
		a.status = "nothing selected"
		return
	}
	right, err := a.eng.Split(a.selected, a.eng.PlayheadMs())
	if err != nil {
		a.status = err.Error()
		return
	}
	a.status = "split"
	a.selected = right
}

func (a *App) deleteSelected(ripple bool) {
	if a.selected == "" {
		a.status = "nothing selected"
		return
	}
	var err error
	if ripple {
		err = a.eng.RippleDelete(a.selected)
	} else {
		err = a.eng.Delete(a.selected)
	}
	if err != nil {
		a.status = err.Error()
		return
	}
	a.selected = ""
	if ripple {
		a.status = "ripple deleted"
	} else {
		a.status = "deleted"
	}
}

func (a *App) duplicateSelected() {
	if a.selected == "" {
		a.status = "nothing selected"
		return
	}
	id, err := a.eng.Duplicate(a.selected)
	if err != nil {
		a.status = err.Error()
		return
	}
	a.selected = id
	a.status = "duplicated"
}

func (a *App) moveSelected(deltaMs int64) {
	c := a.eng.Find(a.selected)
	if c == nil {
		a.status = "nothing selected"
		return
	}
	res, err := a.eng.MoveClip(a.selected, c.Base().StartMs+deltaMs)
	if err != nil {
		a.status = err.Error()
		return
	}
	switch {
	case res.Unlinked:
		a.status = "link torn"
	case res.SnappedLeft || res.SnappedRight:
		a.status = "snapped"
	default:
		a.status = ""
	}
}

func (a *App) trimSelected(edge engine.Edge, deltaMs int64) {
	c := a.eng.Find(a.selected)
	if c == nil {
		a.status = "nothing selected"
		return
	}
	b := c.Base()
	target := b.EndMs + deltaMs
	if edge == engine.EdgeLeft {
		target = b.StartMs + deltaMs
	}
	res, err := a.eng.ResizeClip(a.selected, edge, target)
	if err != nil {
		a.status = err.Error()
		return
	}
	switch {
	case res.Unlinked:
		a.status = "link torn"
	case res.Snapped:
		a.status = "snapped"
	case !res.Resized:
		a.status = "held by link"
	default:
		a.status = ""
	}
}

// toggleDrag brackets subsequent edits into one undo step.
func (a *App) toggleDrag() {
	if a.dragging {
		a.eng.EndGesture()
		a.dragging = false
		a.status = "drag committed"
		return
	}
	a.eng.BeginGesture()
	a.dragging = true
	a.status = "dragging"
}
