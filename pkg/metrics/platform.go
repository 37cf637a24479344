// Package metrics counts messages and signposts with Prometheus and times
// begin/end signpost intervals.
package metrics

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/oslog/pkg/log"
)

// Namespace prefixes every metric name.
const Namespace = "oslog"

// maxLabelLength bounds label values to keep cardinality in check.
const maxLabelLength = 128

// DefaultMaxOpenIntervals is how many begin signposts a handle remembers
// while waiting for their ends. Past it the oldest begin is forgotten and
// its end is counted but not timed.
const DefaultMaxOpenIntervals = 1024

// Platform decorates another log.Platform with Prometheus metrics:
//
//   - oslog_messages_total{subsystem,category,level}
//   - oslog_signposts_total{subsystem,category,type}
//   - oslog_signpost_interval_seconds{subsystem,category,name}
//
// Messages are counted only when they reach the platform, so messages from
// disabled logs are not counted.
type Platform struct {
	inner   log.Platform
	now     func() time.Time
	maxOpen int

	messages  *prometheus.CounterVec
	signposts *prometheus.CounterVec
	intervals *prometheus.HistogramVec

	def *handle
}

// NewPlatform registers the metrics with reg and decorates inner. A nil
// inner platform is replaced by a no-op one.
func NewPlatform(inner log.Platform, reg prometheus.Registerer) (*Platform, error) {
	if inner == nil {
		inner = log.NewNoopPlatform()
	}

	messages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "messages_total",
			Help:      "Total number of leveled messages forwarded to the platform",
		},
		[]string{"subsystem", "category", "level"},
	)
	signposts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "signposts_total",
			Help:      "Total number of signposts forwarded to the platform",
		},
		[]string{"subsystem", "category", "type"},
	)
	// Buckets cover the 1ms to 1s intervals typical of signposted work, and
	// then some.
	intervals := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "signpost_interval_seconds",
			Help:      "Duration between matching begin and end signposts in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 60},
		},
		[]string{"subsystem", "category", "name"},
	)

	for _, c := range []prometheus.Collector{messages, signposts, intervals} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}

	p := &Platform{
		inner:     inner,
		now:       time.Now,
		maxOpen:   DefaultMaxOpenIntervals,
		messages:  messages,
		signposts: signposts,
		intervals: intervals,
	}
	p.def = p.newHandle(log.Identity{}, inner.DefaultChannel())
	return p, nil
}

// Channel returns a counting handle for id.
func (p *Platform) Channel(id log.Identity) log.Handle {
	return p.newHandle(id, p.inner.Channel(id))
}

// DefaultChannel returns the counting default handle.
func (p *Platform) DefaultChannel() log.Handle { return p.def }

func (p *Platform) newHandle(id log.Identity, inner log.Handle) *handle {
	return &handle{
		p:         p,
		inner:     inner,
		subsystem: sanitizeLabel(id.Subsystem),
		category:  sanitizeLabel(id.Category),
		begun:     make(map[intervalKey][]time.Time),
	}
}

type intervalKey struct {
	name string
	id   log.SignpostID
}

type handle struct {
	p         *Platform
	inner     log.Handle
	subsystem string
	category  string

	mu    sync.Mutex
	begun map[intervalKey][]time.Time
	open  int
}

func (h *handle) Emit(level log.Level, text string) {
	h.inner.Emit(level, text)
	h.p.messages.WithLabelValues(h.subsystem, h.category, level.String()).Inc()
}

func (h *handle) EmitMarker(m log.Marker) {
	h.inner.EmitMarker(m)
	h.p.signposts.WithLabelValues(h.subsystem, h.category, m.Type.String()).Inc()

	key := intervalKey{name: m.Name, id: m.ID}
	switch m.Type {
	case log.SignpostBegin:
		h.mu.Lock()
		if h.open >= h.p.maxOpen {
			h.evictOldest()
		}
		h.begun[key] = append(h.begun[key], h.p.now())
		h.open++
		h.mu.Unlock()
	case log.SignpostEnd:
		h.mu.Lock()
		starts := h.begun[key]
		if len(starts) == 0 {
			h.mu.Unlock()
			return
		}
		start := starts[len(starts)-1]
		if len(starts) == 1 {
			delete(h.begun, key)
		} else {
			h.begun[key] = starts[:len(starts)-1]
		}
		h.open--
		h.mu.Unlock()

		h.p.intervals.WithLabelValues(h.subsystem, h.category, sanitizeLabel(m.Name)).
			Observe(h.p.now().Sub(start).Seconds())
	}
}

// evictOldest forgets the earliest pending begin. Each key's starts are in
// begin order. Callers hold h.mu.
func (h *handle) evictOldest() {
	var (
		oldestKey intervalKey
		oldest    time.Time
		found     bool
	)
	for key, starts := range h.begun {
		if !found || starts[0].Before(oldest) {
			oldestKey, oldest, found = key, starts[0], true
		}
	}
	if !found {
		return
	}
	if starts := h.begun[oldestKey]; len(starts) == 1 {
		delete(h.begun, oldestKey)
	} else {
		h.begun[oldestKey] = starts[1:]
	}
	h.open--
}

// pending reports how many begin signposts are waiting for an end.
func (h *handle) pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.open
}

func (h *handle) NewSignpostID() log.SignpostID {
	return h.inner.NewSignpostID()
}

// sanitizeLabel replaces control characters and truncates to maxLabelLength
// runes.
func sanitizeLabel(value string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return '_'
		}
		return r
	}, value)

	runes := []rune(clean)
	if len(runes) > maxLabelLength {
		return string(runes[:maxLabelLength])
	}
	return clean
}
