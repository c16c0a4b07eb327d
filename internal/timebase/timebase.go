// Package timebase provides the canonical frame/millisecond unit system
// for the timeline.
//
// Frames are the smallest addressable time unit and the source of truth
// for every stored position and duration. Millisecond values are always
// projections of frame values: they are recomputed from frames, never
// adjusted independently, so repeated edits cannot accumulate drift.
package timebase

import "math"

// Default values used when no explicit configuration is supplied.
const (
	DefaultFPS = 30

	// MinFPS and MaxFPS bound the accepted frame rates.
	MinFPS = 1
	MaxFPS = 240
)

// MsToFrames converts a millisecond timestamp to the nearest integer frame.
func MsToFrames(ms int64, fps int) int {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return int(math.Round(float64(ms) * float64(fps) / 1000.0))
}

// FramesToMs converts a frame count to the nearest millisecond.
func FramesToMs(frame int, fps int) int64 {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return int64(math.Round(float64(frame) * 1000.0 / float64(fps)))
}

// Quantize snaps an arbitrary millisecond timestamp to the nearest frame
// boundary, returning the boundary in milliseconds.
func Quantize(ms int64, fps int) int64 {
	return FramesToMs(MsToFrames(ms, fps), fps)
}

// PxToMs converts a pixel distance to milliseconds at the given zoom level.
// Zoom is expressed in screen pixels per second of timeline.
func PxToMs(px float64, pxPerSecond float64) int64 {
	if pxPerSecond <= 0 {
		return 0
	}
	return int64(math.Round(px * 1000.0 / pxPerSecond))
}

// MsToPx converts a millisecond distance to pixels at the given zoom level.
func MsToPx(ms int64, pxPerSecond float64) float64 {
	return float64(ms) * pxPerSecond / 1000.0
}

// MaxFramesFor returns the largest whole frame count that fits inside the
// given millisecond budget. Used for asset-derived duration ceilings, where
// rounding up could reveal material past the end of the source.
func MaxFramesFor(ms int64, fps int) int {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return int(float64(ms) * float64(fps) / 1000.0)
}
