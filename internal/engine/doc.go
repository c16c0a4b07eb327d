// Package engine is the timeline editing core. It owns the clip model,
// routes every edit through the link engine for snapping and overlap
// rules, and wraps each operation in a history transaction so any edit
// undoes as a single step.
//
// The engine is not safe for concurrent use. Callers that edit from
// multiple goroutines must serialize access themselves; the expected
// shape is a single UI goroutine driving the engine directly.
//
// Interactive drags span many intermediate states. BeginGesture and
// EndGesture bracket them so the whole drag collapses into one undo
// entry:
//
//	eng.BeginGesture()
//	for ev := range drags {
//		eng.MoveClip(id, ev.Ms)
//	}
//	eng.EndGesture()
package engine
