package clip

// AudioKind distinguishes the two audio clip roles.
type AudioKind int

const (
	// AudioVoiceOver is recorded narration.
	AudioVoiceOver AudioKind = iota

	// AudioMusic is a music bed.
	AudioMusic
)

// String returns the kind name.
func (k AudioKind) String() string {
	switch k {
	case AudioMusic:
		return "music"
	default:
		return "voice-over"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k AudioKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *AudioKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "music":
		*k = AudioMusic
	default:
		*k = AudioVoiceOver
	}
	return nil
}

// AudioClip is a clip on an audio track. AudioOffsetMs keeps sub-frame
// precision: it stays in milliseconds and is never quantized to the frame
// grid.
type AudioClip struct {
	ClipBase `yaml:",inline"`

	AssetID string    `json:"assetId" yaml:"assetId"`
	Kind    AudioKind `json:"kind" yaml:"kind"`
	Gain    float64   `json:"gain,omitempty" yaml:"gain,omitempty"`

	// AudioOffsetMs is the current in-point within the source media.
	// Sampling local time t inside the clip maps to source time
	// AudioOffsetMs + t.
	AudioOffsetMs float64 `json:"audioOffsetMs" yaml:"audioOffsetMs"`

	FadeInMs  int64 `json:"fadeInMs,omitempty" yaml:"fadeInMs,omitempty"`
	FadeOutMs int64 `json:"fadeOutMs,omitempty" yaml:"fadeOutMs,omitempty"`
}

// Base returns the shared timing state.
func (a *AudioClip) Base() *ClipBase { return &a.ClipBase }

// OffsetMs returns the source in-point.
func (a *AudioClip) OffsetMs() float64 { return a.AudioOffsetMs }

// ShiftOffset moves the source in-point, clamped at 0.
func (a *AudioClip) ShiftOffset(delta float64) {
	a.AudioOffsetMs += delta
	if a.AudioOffsetMs < 0 {
		a.AudioOffsetMs = 0
	}
}

// Media reports the track kind audio clips belong on.
func (a *AudioClip) Media() MediaKind { return MediaAudio }

// Clone returns a deep copy of the audio clip.
func (a *AudioClip) Clone() *AudioClip {
	c := *a
	return &c
}
