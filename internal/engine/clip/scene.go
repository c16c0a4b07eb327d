package clip

// Transform positions a scene inside the output frame.
type Transform struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Scale float64 `json:"scale" yaml:"scale"`
}

// Scene is a visual clip on a video track. A scene may be backed by a
// video asset (bounded by the source duration once known) or a still
// image (unbounded).
type Scene struct {
	ClipBase `yaml:",inline"`

	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	AssetID string `json:"assetId,omitempty" yaml:"assetId,omitempty"`

	Transform *Transform `json:"transform,omitempty" yaml:"transform,omitempty"`

	// Audio properties for video-with-audio sources.
	Gain       float64 `json:"gain,omitempty" yaml:"gain,omitempty"`
	AudioMuted bool    `json:"audioMuted,omitempty" yaml:"audioMuted,omitempty"`

	// TrimOffsetMs is the in-point into the source media. Trimming the
	// left edge shifts it so the visible region keeps addressing the same
	// slice of source material.
	TrimOffsetMs float64 `json:"trimOffsetMs,omitempty" yaml:"trimOffsetMs,omitempty"`
}

// Base returns the shared timing state.
func (s *Scene) Base() *ClipBase { return &s.ClipBase }

// OffsetMs returns the source in-point.
func (s *Scene) OffsetMs() float64 { return s.TrimOffsetMs }

// ShiftOffset moves the source in-point, clamped at 0.
func (s *Scene) ShiftOffset(delta float64) {
	s.TrimOffsetMs += delta
	if s.TrimOffsetMs < 0 {
		s.TrimOffsetMs = 0
	}
}

// Media reports the track kind scenes belong on.
func (s *Scene) Media() MediaKind { return MediaVideo }

// Clone returns a deep copy of the scene.
func (s *Scene) Clone() *Scene {
	c := *s
	if s.Transform != nil {
		tr := *s.Transform
		c.Transform = &tr
	}
	return &c
}
