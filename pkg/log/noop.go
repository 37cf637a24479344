package log

import "sync/atomic"

// NoopPlatform discards every message and signpost. Signpost identifiers are
// still unique per handle.
type NoopPlatform struct {
	def noopHandle
}

// NewNoopPlatform creates a platform that discards everything.
func NewNoopPlatform() *NoopPlatform {
	return &NoopPlatform{}
}

// Channel returns a fresh discarding handle.
func (p *NoopPlatform) Channel(Identity) Handle { return &noopHandle{} }

// DefaultChannel returns the shared discarding handle.
func (p *NoopPlatform) DefaultChannel() Handle { return &p.def }

type noopHandle struct {
	ids atomic.Uint64
}

func (*noopHandle) Emit(Level, string) {}

func (*noopHandle) EmitMarker(Marker) {}

func (h *noopHandle) NewSignpostID() SignpostID { return SignpostID(h.ids.Add(1)) }
