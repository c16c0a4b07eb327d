package engine

// normalizeDuration recomputes the timeline duration after any edit that
// can change the last clip's end: max clip end plus trailing padding,
// never below the configured floor. The playhead is clamped into the new
// range.
func (e *Engine) normalizeDuration() {
	d := e.model.MaxEndMs() + e.paddingMs
	if d < e.floorMs {
		d = e.floorMs
	}
	e.model.DurationMs = d
	if e.model.PlayheadMs > d {
		e.model.PlayheadMs = d
	}
}
