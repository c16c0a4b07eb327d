// Package asset provides the media library the timeline references.
//
// The editor never decodes media itself; it only needs an asset's kind,
// its locator, and, once probing has finished, its true duration.
// Duration metadata may arrive after clips referencing the asset already
// exist, so lookups distinguish "unknown" from "zero".
package asset

import "sync"

// Kind identifies the media type of an asset.
type Kind int

const (
	// KindVideo is a video source, possibly with audio.
	KindVideo Kind = iota

	// KindImage is a still image.
	KindImage

	// KindAudio is an audio-only source.
	KindAudio
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	default:
		return "video"
	}
}

// Asset describes one media source.
type Asset struct {
	ID      string
	Kind    Kind
	Locator string

	// DurationMs is the source media duration. Valid only when
	// DurationKnown is true; probing may still be in flight.
	DurationMs    int64
	DurationKnown bool
}

// Resolver is the lookup interface the engine consumes.
type Resolver interface {
	Lookup(id string) (Asset, bool)
}

// Library is an in-memory Resolver implementation.
type Library struct {
	mu     sync.RWMutex
	assets map[string]Asset
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{assets: make(map[string]Asset)}
}

// Add registers an asset. An existing asset with the same id is
// replaced.
func (l *Library) Add(a Asset) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.assets[a.ID] = a
}

// Lookup returns the asset with the given id.
func (l *Library) Lookup(id string) (Asset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.assets[id]
	return a, ok
}

// SetDuration records an asset's probed duration. Reports false if the
// asset is unknown.
func (l *Library) SetDuration(id string, durationMs int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.assets[id]
	if !ok {
		return false
	}
	a.DurationMs = durationMs
	a.DurationKnown = true
	l.assets[id] = a
	return true
}

// Len returns the number of registered assets.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.assets)
}
