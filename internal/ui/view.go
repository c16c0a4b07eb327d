package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/clipstorm/internal/engine"
	"github.com/dshills/clipstorm/internal/timebase"
)

const (
	nameColWidth = 12
	headerRows   = 2
	trackRows    = 2
)

var (
	styleDefault  = tcell.StyleDefault
	styleHeader   = tcell.StyleDefault.Bold(true)
	styleVideo    = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleAudio    = tcell.StyleDefault.Background(tcell.ColorDarkGreen).Foreground(tcell.ColorWhite)
	styleSelected = tcell.StyleDefault.Background(tcell.ColorOrange).Foreground(tcell.ColorBlack)
	styleMuted    = tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorBlack)
	stylePlayhead = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleLink     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// Draw renders the whole timeline.
func (a *App) Draw() {
	a.screen.Clear()
	width, height := a.screen.Size()

	a.ensurePlayheadVisible(width)
	a.drawHeader(width)

	y := headerRows
	for _, t := range a.eng.Tracks() {
		if y+trackRows > height-1 {
			break
		}
		a.drawTrack(t, y, width)
		y += trackRows
	}

	a.drawPlayhead(width, height)
	a.drawStatus(width, height)
	a.screen.Show()
}

// ensurePlayheadVisible scrolls horizontally so the playhead stays on
// screen.
func (a *App) ensurePlayheadVisible(width int) {
	lane := width - nameColWidth
	if lane <= 0 {
		return
	}
	visibleMs := timebase.PxToMs(float64(lane), a.eng.Zoom())
	ph := a.eng.PlayheadMs()
	if ph < a.scrollMs {
		a.scrollMs = ph
	}
	if ph > a.scrollMs+visibleMs {
		a.scrollMs = ph - visibleMs
	}
	if a.scrollMs < 0 {
		a.scrollMs = 0
	}
}

func (a *App) msToX(ms int64) int {
	return nameColWidth + int(timebase.MsToPx(ms-a.scrollMs, a.eng.Zoom()))
}

func (a *App) drawHeader(width int) {
	header := fmt.Sprintf(" clipstorm  %s / %s  %dfps  zoom %.0fpx/s",
		fmtTime(a.eng.PlayheadMs()), fmtTime(a.eng.DurationMs()),
		a.eng.FPS(), a.eng.Zoom())
	a.drawText(0, 0, width, header, styleHeader)

	// Ruler with a tick every second.
	for x := nameColWidth; x < width; x++ {
		ms := a.scrollMs + timebase.PxToMs(float64(x-nameColWidth), a.eng.Zoom())
		ch := '·'
		if ms%1000 < timebase.PxToMs(1, a.eng.Zoom()) {
			ch = '|'
		}
		a.screen.SetContent(x, 1, ch, nil, styleDefault.Foreground(tcell.ColorGray))
	}
}

func (a *App) drawTrack(t *engine.Track, y, width int) {
	name := t.Name
	switch {
	case t.Soloed:
		name = "[S] " + name
	case t.Muted:
		name = "[M] " + name
	}
	a.drawText(0, y, nameColWidth-1, name, styleHeader)

	for _, c := range a.eng.TrackClips(t.ID) {
		a.drawClip(c, t, y, width)
	}
}

func (a *App) drawClip(c engine.Clip, t *engine.Track, y, width int) {
	b := c.Base()
	x0 := a.msToX(b.StartMs)
	x1 := a.msToX(b.EndMs)
	if x1 <= nameColWidth || x0 >= width {
		return
	}
	if x0 < nameColWidth {
		x0 = nameColWidth
	}
	if x1 > width {
		x1 = width
	}
	if x1 == x0 {
		x1 = x0 + 1
	}

	style := styleVideo
	if c.Media() == engine.MediaAudio {
		style = styleAudio
	}
	if t.Muted {
		style = styleMuted
	}
	if b.ID == a.selected {
		style = styleSelected
	}

	for x := x0; x < x1; x++ {
		a.screen.SetContent(x, y, ' ', nil, style)
	}
	a.drawText(x0, y, x1-x0, clipLabel(c), style)

	// Linked edges get a joint glyph on the boundary cell.
	if b.LinkLeftID != "" && x0 > nameColWidth {
		a.screen.SetContent(x0, y, '‖', nil, styleLink)
	}
	if b.LinkRightID != "" && x1 <= width {
		a.screen.SetContent(x1-1, y, '‖', nil, styleLink)
	}
}

func clipLabel(c engine.Clip) string {
	switch v := c.(type) {
	case *engine.Scene:
		if v.Label != "" {
			return v.Label
		}
		return v.AssetID
	case *engine.AudioClip:
		return v.AssetID
	}
	return ""
}

func (a *App) drawPlayhead(width, height int) {
	x := a.msToX(a.eng.PlayheadMs())
	if x < nameColWidth || x >= width {
		return
	}
	for y := 1; y < height-1; y++ {
		mainc, _, st, _ := a.screen.GetContent(x, y)
		_, bg, _ := st.Decompose()
		a.screen.SetContent(x, y, mainc, nil, stylePlayhead.Background(bg))
	}
}

func (a *App) drawStatus(width, height int) {
	help := "tab:select h/l:move [/]:trim s:split x:del X:ripple c:dup g:drag u:undo R:redo q:quit"
	line := help
	if a.status != "" {
		line = a.status + "  " + help
	}
	a.drawText(0, height-1, width, line, styleDefault.Reverse(true))
}

func (a *App) drawText(x, y, max int, s string, style tcell.Style) {
	col := x
	for _, r := range s {
		if col >= x+max {
			break
		}
		a.screen.SetContent(col, y, r, nil, style)
		col++
	}
}

func fmtTime(ms int64) string {
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}
