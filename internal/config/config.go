// Package config loads editor settings from a TOML file.
//
// A missing file is not an error; every field has a default and partial
// files override only what they name. Settings map directly onto engine
// options, so the hosting layer loads once and hands the result to
// engine.New.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/clipstorm/internal/engine"
	"github.com/dshills/clipstorm/internal/timebase"
)

// ErrInvalidSetting indicates a config value outside its allowed range.
var ErrInvalidSetting = errors.New("invalid setting")

// Settings is the editor configuration.
type Settings struct {
	// FPS is the project frame rate.
	FPS int `toml:"fps"`

	// SnapPx and UnlinkPx are the magnetic thresholds in screen pixels.
	// SnapPx must stay below UnlinkPx or linked edges could never hold.
	SnapPx   float64 `toml:"snap_px"`
	UnlinkPx float64 `toml:"unlink_px"`

	// ZoomPxPerSecond is the initial timeline zoom.
	ZoomPxPerSecond float64 `toml:"zoom_px_per_second"`

	// MinClipMs is the smallest duration a trim can leave.
	MinClipMs int64 `toml:"min_clip_ms"`

	// HistoryDepth bounds the undo stack.
	HistoryDepth int `toml:"history_depth"`

	// DefaultClipMs and DefaultImageMs are insertion lengths for media
	// without a known duration and for still images.
	DefaultClipMs  int64 `toml:"default_clip_ms"`
	DefaultImageMs int64 `toml:"default_image_ms"`

	// PaddingMs trails the last clip; DurationFloorMs is the minimum
	// total duration.
	PaddingMs       int64 `toml:"padding_ms"`
	DurationFloorMs int64 `toml:"duration_floor_ms"`

	// Output geometry.
	Aspect string `toml:"aspect"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Default returns the settings used when no file overrides them.
func Default() Settings {
	return Settings{
		FPS:             engine.DefaultFPS,
		SnapPx:          engine.DefaultSnapPx,
		UnlinkPx:        engine.DefaultUnlinkPx,
		ZoomPxPerSecond: engine.DefaultZoomPxPerSecond,
		MinClipMs:       engine.DefaultMinClipMs,
		HistoryDepth:    engine.DefaultHistoryDepth,
		DefaultClipMs:   engine.DefaultClipMs,
		DefaultImageMs:  engine.DefaultImageMs,
		PaddingMs:       engine.DefaultPaddingMs,
		DurationFloorMs: engine.DefaultDurationFloorMs,
		Aspect:          "16:9",
		Width:           1920,
		Height:          1080,
	}
}

// Load reads settings from path. A missing file returns defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML data over the defaults.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	if s.FPS < timebase.MinFPS || s.FPS > timebase.MaxFPS {
		return fmt.Errorf("%w: fps %d outside [%d,%d]", ErrInvalidSetting, s.FPS, timebase.MinFPS, timebase.MaxFPS)
	}
	if s.SnapPx <= 0 || s.UnlinkPx <= 0 {
		return fmt.Errorf("%w: snap thresholds must be positive", ErrInvalidSetting)
	}
	if s.SnapPx >= s.UnlinkPx {
		return fmt.Errorf("%w: snap_px %.1f must be below unlink_px %.1f", ErrInvalidSetting, s.SnapPx, s.UnlinkPx)
	}
	if s.ZoomPxPerSecond <= 0 {
		return fmt.Errorf("%w: zoom_px_per_second must be positive", ErrInvalidSetting)
	}
	if s.MinClipMs <= 0 {
		return fmt.Errorf("%w: min_clip_ms must be positive", ErrInvalidSetting)
	}
	if s.HistoryDepth <= 0 {
		return fmt.Errorf("%w: history_depth must be positive", ErrInvalidSetting)
	}
	if s.PaddingMs < 0 || s.DurationFloorMs < 0 {
		return fmt.Errorf("%w: duration bounds must not be negative", ErrInvalidSetting)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: output geometry must be positive", ErrInvalidSetting)
	}
	return nil
}

// EngineOptions converts the settings into engine options.
func (s Settings) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithFPS(s.FPS),
		engine.WithHistoryDepth(s.HistoryDepth),
		engine.WithMinClipMs(s.MinClipMs),
		engine.WithSnapThresholds(s.SnapPx, s.UnlinkPx, s.ZoomPxPerSecond),
		engine.WithDefaultClipMs(s.DefaultClipMs, s.DefaultImageMs),
		engine.WithDurationBounds(s.PaddingMs, s.DurationFloorMs),
	}
}
