package engine

import (
	"github.com/dshills/clipstorm/internal/asset"
	"github.com/dshills/clipstorm/internal/notify"
	"github.com/dshills/clipstorm/internal/timebase"
)

// Default configuration values.
const (
	DefaultFPS             = timebase.DefaultFPS
	DefaultHistoryDepth    = 100
	DefaultMinClipMs       = 100
	DefaultSnapPx          = 8.0
	DefaultUnlinkPx        = 14.0
	DefaultZoomPxPerSecond = 100.0
	DefaultClipMs          = 5000
	DefaultImageMs         = 4000
	DefaultPaddingMs       = 2000
	DefaultDurationFloorMs = 10000
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithFPS sets the project frame rate.
func WithFPS(fps int) Option {
	return func(e *Engine) {
		if fps >= timebase.MinFPS && fps <= timebase.MaxFPS {
			e.fps = fps
		}
	}
}

// WithHistoryDepth bounds the number of undo steps retained.
func WithHistoryDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.historyDepth = depth
		}
	}
}

// WithResolver sets the asset lookup the engine consults on insertion.
func WithResolver(r asset.Resolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithNotifier sets the change notifier mutations publish to.
func WithNotifier(n *notify.Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithSnapThresholds sets the magnetic thresholds in pixels together
// with the zoom level used to convert them to time.
func WithSnapThresholds(snapPx, unlinkPx, pxPerSecond float64) Option {
	return func(e *Engine) {
		if snapPx > 0 {
			e.snapPx = snapPx
		}
		if unlinkPx > 0 {
			e.unlinkPx = unlinkPx
		}
		if pxPerSecond > 0 {
			e.zoom = pxPerSecond
		}
	}
}

// WithMinClipMs sets the minimum clip duration.
func WithMinClipMs(ms int64) Option {
	return func(e *Engine) {
		if ms > 0 {
			e.minClipMs = ms
		}
	}
}

// WithDurationBounds sets the padding appended past the last clip end
// and the floor the total duration never drops below.
func WithDurationBounds(paddingMs, floorMs int64) Option {
	return func(e *Engine) {
		if paddingMs >= 0 {
			e.paddingMs = paddingMs
		}
		if floorMs >= 0 {
			e.floorMs = floorMs
		}
	}
}

// WithDefaultClipMs sets the default durations for inserted clips whose
// asset duration is not yet known, and for still images.
func WithDefaultClipMs(clipMs, imageMs int64) Option {
	return func(e *Engine) {
		if clipMs > 0 {
			e.defaultClipMs = clipMs
		}
		if imageMs > 0 {
			e.defaultImageMs = imageMs
		}
	}
}
