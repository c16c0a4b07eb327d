// Package project persists timelines to disk.
//
// The on-disk document is a flat, ordered rendition of the engine model:
// clip maps become slices sorted by track and start frame so diffs stay
// stable across saves. JSON is the primary format; YAML is supported for
// hand-edited projects. Older documents that carry only millisecond
// positions load fine, the frame fields are derived on restore.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/clipstorm/internal/engine/clip"
)

// FormatVersion is written into every saved document.
const FormatVersion = 2

// ErrUnsupportedFormat indicates a file extension with no codec.
var ErrUnsupportedFormat = errors.New("unsupported project format")

// ErrBadDocument indicates a document that decoded but cannot restore.
var ErrBadDocument = errors.New("bad project document")

// Document is the serialized timeline.
type Document struct {
	Version    int               `json:"version" yaml:"version"`
	FPS        int               `json:"fps" yaml:"fps"`
	Aspect     string            `json:"aspect,omitempty" yaml:"aspect,omitempty"`
	Width      int               `json:"width,omitempty" yaml:"width,omitempty"`
	Height     int               `json:"height,omitempty" yaml:"height,omitempty"`
	DurationMs int64             `json:"durationMs" yaml:"durationMs"`
	PlayheadMs int64             `json:"playheadMs" yaml:"playheadMs"`
	Tracks     []*clip.Track     `json:"tracks" yaml:"tracks"`
	Scenes     []*clip.Scene     `json:"scenes" yaml:"scenes"`
	AudioClips []*clip.AudioClip `json:"audioClips" yaml:"audioClips"`
}

// FromModel builds a document from a model snapshot. The caller passes a
// detached snapshot; the document aliases its clips.
func FromModel(m *clip.Model, fps int) *Document {
	d := &Document{
		Version:    FormatVersion,
		FPS:        fps,
		DurationMs: m.DurationMs,
		PlayheadMs: m.PlayheadMs,
		Tracks:     m.Tracks,
	}

	trackPos := make(map[string]int, len(m.Tracks))
	for i, t := range m.Tracks {
		trackPos[t.ID] = i
	}

	for _, s := range m.Scenes {
		d.Scenes = append(d.Scenes, s)
	}
	for _, a := range m.Audio {
		d.AudioClips = append(d.AudioClips, a)
	}
	sort.Slice(d.Scenes, func(i, j int) bool {
		return clipLess(&d.Scenes[i].ClipBase, &d.Scenes[j].ClipBase, trackPos)
	})
	sort.Slice(d.AudioClips, func(i, j int) bool {
		return clipLess(&d.AudioClips[i].ClipBase, &d.AudioClips[j].ClipBase, trackPos)
	})
	return d
}

func clipLess(a, b *clip.ClipBase, trackPos map[string]int) bool {
	if ta, tb := trackPos[a.TrackID], trackPos[b.TrackID]; ta != tb {
		return ta < tb
	}
	if a.StartFrame != b.StartFrame {
		return a.StartFrame < b.StartFrame
	}
	return a.ID < b.ID
}

// ToModel rebuilds the engine model. Frame data is derived for documents
// saved before frames were recorded.
func (d *Document) ToModel() (*clip.Model, error) {
	if len(d.Tracks) == 0 && (len(d.Scenes) > 0 || len(d.AudioClips) > 0) {
		return nil, fmt.Errorf("%w: clips without tracks", ErrBadDocument)
	}

	m := clip.NewModel()
	m.DurationMs = d.DurationMs
	m.PlayheadMs = d.PlayheadMs

	known := make(map[string]bool, len(d.Tracks))
	for _, t := range d.Tracks {
		if t.ID == "" {
			return nil, fmt.Errorf("%w: track without id", ErrBadDocument)
		}
		if known[t.ID] {
			return nil, fmt.Errorf("%w: duplicate track id %q", ErrBadDocument, t.ID)
		}
		known[t.ID] = true
		m.Tracks = append(m.Tracks, t)
	}

	for _, s := range d.Scenes {
		if s.ID == "" || !known[s.TrackID] {
			return nil, fmt.Errorf("%w: scene %q on unknown track %q", ErrBadDocument, s.ID, s.TrackID)
		}
		m.PutScene(s)
	}
	for _, a := range d.AudioClips {
		if a.ID == "" || !known[a.TrackID] {
			return nil, fmt.Errorf("%w: audio clip %q on unknown track %q", ErrBadDocument, a.ID, a.TrackID)
		}
		m.PutAudio(a)
	}

	fps := d.FPS
	m.EnsureFrameData(fps)
	return m, nil
}

// ============================================================================
// Codecs
// ============================================================================

// EncodeJSON renders the document as indented JSON.
func EncodeJSON(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// DecodeJSON parses a JSON document.
func DecodeJSON(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding project: %w", err)
	}
	return &d, nil
}

// EncodeYAML renders the document as YAML.
func EncodeYAML(d *Document) ([]byte, error) {
	return yaml.Marshal(d)
}

// DecodeYAML parses a YAML document.
func DecodeYAML(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding project: %w", err)
	}
	return &d, nil
}

func encodeFor(path string, d *Document) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".clipstorm":
		return EncodeJSON(d)
	case ".yaml", ".yml":
		return EncodeYAML(d)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func decodeFor(path string, data []byte) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".clipstorm":
		return DecodeJSON(data)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ============================================================================
// Disk
// ============================================================================

// Save writes the document to path, choosing the codec by extension. The
// write goes through a temp file and rename so a crash mid-save never
// destroys the previous version.
func Save(path string, d *Document) error {
	data, err := encodeFor(path, d)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".clipstorm-save-*")
	if err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("saving project: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving project: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving project: %w", err)
	}
	return nil
}

// Load reads a document from path, choosing the codec by extension.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return decodeFor(path, data)
}
