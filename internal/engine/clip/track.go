package clip

// MediaKind identifies the media lane a track carries.
type MediaKind int

const (
	// MediaVideo is a visual track holding scenes.
	MediaVideo MediaKind = iota

	// MediaAudio is an audio track holding audio clips.
	MediaAudio
)

// String returns the kind name.
func (k MediaKind) String() string {
	switch k {
	case MediaVideo:
		return "video"
	case MediaAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so kinds serialize as names.
func (k MediaKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *MediaKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "audio":
		*k = MediaAudio
	default:
		*k = MediaVideo
	}
	return nil
}

// Track is an ordered lane of same-kind clips. Video tracks always come
// before audio tracks in the track list.
type Track struct {
	ID     string    `json:"id" yaml:"id"`
	Name   string    `json:"name" yaml:"name"`
	Kind   MediaKind `json:"kind" yaml:"kind"`
	Muted  bool      `json:"muted,omitempty" yaml:"muted,omitempty"`
	Soloed bool      `json:"soloed,omitempty" yaml:"soloed,omitempty"`
}

// Clone returns a deep copy of the track.
func (t *Track) Clone() *Track {
	c := *t
	return &c
}
