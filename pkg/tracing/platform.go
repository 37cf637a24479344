package tracing

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bft-labs/oslog/pkg/log"
)

// InstrumentationName names the tracer used for the default channel.
const InstrumentationName = "github.com/bft-labs/oslog"

// Span attribute keys.
const (
	AttrSubsystem = attribute.Key("oslog.subsystem")
	AttrCategory  = attribute.Key("oslog.category")
	AttrID        = attribute.Key("oslog.signpost.id")
	AttrMessage   = attribute.Key("oslog.signpost.message")
	AttrUnmatched = attribute.Key("oslog.signpost.unmatched")
)

// Platform decorates another log.Platform, turning signposts into spans:
// a begin signpost starts a span, the end signpost with the same name and
// identifier ends it, and an event signpost becomes a span event on the open
// interval with its identifier, or a zero-length span when there is none.
// Every call is also forwarded to the inner platform.
//
// Error and fault messages are recorded as events on the channel's most
// recently opened span.
type Platform struct {
	inner    log.Platform
	provider trace.TracerProvider
	def      *handle
}

// NewPlatform decorates inner with spans from provider. A nil inner platform
// is replaced by a no-op one.
func NewPlatform(inner log.Platform, provider trace.TracerProvider) *Platform {
	if inner == nil {
		inner = log.NewNoopPlatform()
	}
	return &Platform{
		inner:    inner,
		provider: provider,
		def:      newHandle(inner.DefaultChannel(), provider.Tracer(InstrumentationName), nil),
	}
}

// Channel returns a span-producing handle for id.
func (p *Platform) Channel(id log.Identity) log.Handle {
	name := id.Subsystem
	if name == "" {
		name = InstrumentationName
	}
	attrs := []attribute.KeyValue{
		AttrSubsystem.String(id.Subsystem),
		AttrCategory.String(id.Category),
	}
	return newHandle(p.inner.Channel(id), p.provider.Tracer(name), attrs)
}

// DefaultChannel returns the span-producing default handle.
func (p *Platform) DefaultChannel() log.Handle { return p.def }

type intervalKey struct {
	name string
	id   log.SignpostID
}

type openSpan struct {
	key  intervalKey
	span trace.Span
}

type handle struct {
	inner  log.Handle
	tracer trace.Tracer
	attrs  []attribute.KeyValue

	mu   sync.Mutex
	open []openSpan // in begin order
}

func newHandle(inner log.Handle, tracer trace.Tracer, attrs []attribute.KeyValue) *handle {
	return &handle{inner: inner, tracer: tracer, attrs: attrs}
}

func (h *handle) Emit(level log.Level, text string) {
	h.inner.Emit(level, text)

	if level != log.LevelError && level != log.LevelFault {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.open); n > 0 {
		span := h.open[n-1].span
		span.AddEvent(level.String(), trace.WithAttributes(attribute.String("message", text)))
		span.SetStatus(codes.Error, text)
	}
}

func (h *handle) NewSignpostID() log.SignpostID {
	return h.inner.NewSignpostID()
}

func (h *handle) EmitMarker(m log.Marker) {
	h.inner.EmitMarker(m)

	switch m.Type {
	case log.SignpostBegin:
		h.begin(m)
	case log.SignpostEnd:
		h.end(m)
	default:
		h.event(m)
	}
}

func (h *handle) markerAttrs(m log.Marker) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(h.attrs)+2)
	attrs = append(attrs, h.attrs...)
	if m.ID != log.SignpostIDNone {
		attrs = append(attrs, AttrID.Int64(int64(m.ID)))
	}
	if m.HasMessage {
		attrs = append(attrs, AttrMessage.String(m.Message))
	}
	return attrs
}

func (h *handle) begin(m log.Marker) {
	_, span := h.tracer.Start(context.Background(), m.Name,
		trace.WithAttributes(h.markerAttrs(m)...))

	h.mu.Lock()
	h.open = append(h.open, openSpan{key: intervalKey{name: m.Name, id: m.ID}, span: span})
	h.mu.Unlock()
}

func (h *handle) end(m log.Marker) {
	key := intervalKey{name: m.Name, id: m.ID}

	h.mu.Lock()
	var span trace.Span
	for i := len(h.open) - 1; i >= 0; i-- {
		if h.open[i].key == key {
			span = h.open[i].span
			h.open = append(h.open[:i], h.open[i+1:]...)
			break
		}
	}
	h.mu.Unlock()

	if span == nil {
		attrs := append(h.markerAttrs(m), AttrUnmatched.Bool(true))
		_, span = h.tracer.Start(context.Background(), m.Name, trace.WithAttributes(attrs...))
		span.End()
		return
	}
	if m.HasMessage {
		span.AddEvent("end", trace.WithAttributes(AttrMessage.String(m.Message)))
	}
	span.End()
}

func (h *handle) event(m log.Marker) {
	if m.ID != log.SignpostIDNone {
		h.mu.Lock()
		for i := len(h.open) - 1; i >= 0; i-- {
			if h.open[i].key.id == m.ID {
				span := h.open[i].span
				span.AddEvent(m.Name, trace.WithAttributes(h.markerAttrs(m)...))
				h.mu.Unlock()
				return
			}
		}
		h.mu.Unlock()
	}

	_, span := h.tracer.Start(context.Background(), m.Name, trace.WithAttributes(h.markerAttrs(m)...))
	span.AddEvent(m.Name)
	span.End()
}

// openIntervals reports how many begin signposts are waiting for an end.
func (h *handle) openIntervals() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.open)
}
