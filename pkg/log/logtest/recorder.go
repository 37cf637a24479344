// Package logtest provides a recording log.Platform for tests.
package logtest

import (
	"sync"

	"github.com/bft-labs/oslog/pkg/log"
)

// Emit is one recorded Handle.Emit call.
type Emit struct {
	Channel log.Identity
	Level   log.Level
	Text    string
}

// Marker is one recorded Handle.EmitMarker call.
type Marker struct {
	Channel log.Identity
	log.Marker
}

// Recorder is a log.Platform that remembers every call made to its handles.
// It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	emits    []Emit
	markers  []Marker
	channels []log.Identity
	nextID   map[log.Identity]log.SignpostID
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{nextID: make(map[log.Identity]log.SignpostID)}
}

// Channel records the channel creation and returns a recording handle.
func (r *Recorder) Channel(id log.Identity) log.Handle {
	r.mu.Lock()
	r.channels = append(r.channels, id)
	r.mu.Unlock()
	return &handle{rec: r, id: id}
}

// DefaultChannel returns a recording handle for the zero identity.
func (r *Recorder) DefaultChannel() log.Handle {
	return &handle{rec: r}
}

// Emits returns a copy of the recorded emits.
func (r *Recorder) Emits() []Emit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Emit(nil), r.emits...)
}

// Markers returns a copy of the recorded markers.
func (r *Recorder) Markers() []Marker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Marker(nil), r.markers...)
}

// Channels returns the identities passed to Channel, in call order.
func (r *Recorder) Channels() []log.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]log.Identity(nil), r.channels...)
}

// Calls returns the total number of Emit and EmitMarker calls.
func (r *Recorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.emits) + len(r.markers)
}

// Reset forgets everything recorded so far. Identifier counters are kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emits = nil
	r.markers = nil
	r.channels = nil
}

type handle struct {
	rec *Recorder
	id  log.Identity
}

func (h *handle) Emit(level log.Level, text string) {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	h.rec.emits = append(h.rec.emits, Emit{Channel: h.id, Level: level, Text: text})
}

func (h *handle) EmitMarker(m log.Marker) {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	h.rec.markers = append(h.rec.markers, Marker{Channel: h.id, Marker: m})
}

func (h *handle) NewSignpostID() log.SignpostID {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	h.rec.nextID[h.id]++
	return h.rec.nextID[h.id]
}
