package engine

import "github.com/dshills/clipstorm/internal/engine/clip"

// ClipsAt reports every clip under the given timeline position, in
// track order. Clip intervals are end-exclusive, so a position exactly
// on a boundary belongs to the clip that starts there.
func (e *Engine) ClipsAt(ms int64) []clip.Clip {
	var out []clip.Clip
	for _, t := range e.model.Tracks {
		if c := e.model.ClipAt(t.ID, ms); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// AudibleAt reports the audio-producing clips under the given position
// after applying track mute and solo state. When any track is soloed,
// only soloed tracks sound. Scene clips with muted audio are excluded.
func (e *Engine) AudibleAt(ms int64) []clip.Clip {
	solo := false
	for _, t := range e.model.Tracks {
		if t.Soloed {
			solo = true
			break
		}
	}

	var out []clip.Clip
	for _, t := range e.model.Tracks {
		if t.Muted {
			continue
		}
		if solo && !t.Soloed {
			continue
		}
		c := e.model.ClipAt(t.ID, ms)
		if c == nil {
			continue
		}
		if s, ok := c.(*clip.Scene); ok && s.AudioMuted {
			continue
		}
		out = append(out, c)
	}
	return out
}
