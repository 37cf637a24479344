package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/oslog/pkg/log"
	"github.com/bft-labs/oslog/pkg/log/logtest"
)

func newTestPlatform(t *testing.T) (*Platform, *logtest.Recorder, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	rec := logtest.NewRecorder()
	p, err := NewPlatform(rec, reg)
	require.NoError(t, err)
	return p, rec, reg
}

func TestPlatform_CountsMessages(t *testing.T) {
	p, rec, _ := newTestPlatform(t)
	l := log.New(p, "com.example", "app")

	l.Info(func() string { return "a" })
	l.Info(func() string { return "b" })
	l.Error(func() string { return "c" })
	l.SetEnabled(false)
	l.Error(func() string { return "dropped" })

	assert.Equal(t, 2.0, testutil.ToFloat64(p.messages.WithLabelValues("com.example", "app", "info")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.messages.WithLabelValues("com.example", "app", "error")))
	assert.Len(t, rec.Emits(), 3)
}

func TestPlatform_CountsSignposts(t *testing.T) {
	p, rec, _ := newTestPlatform(t)
	l := log.New(p, "com.example", "timing", log.WithEnabled(false))

	l.Signpost(log.SignpostEvent, "tap")
	l.BeginInterval("work").End()

	assert.Equal(t, 1.0, testutil.ToFloat64(p.signposts.WithLabelValues("com.example", "timing", "event")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.signposts.WithLabelValues("com.example", "timing", "begin")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.signposts.WithLabelValues("com.example", "timing", "end")))
	assert.Len(t, rec.Markers(), 3)
}

func TestPlatform_TimesIntervals(t *testing.T) {
	p, _, reg := newTestPlatform(t)
	clock := time.Unix(0, 0)
	p.now = func() time.Time { return clock }
	l := log.New(p, "s", "c")

	iv := l.BeginInterval("work")
	clock = clock.Add(250 * time.Millisecond)
	iv.End()

	// Unmatched end is counted but not timed.
	l.SignpostWithID(log.SignpostEnd, "work", 42)

	expected := `
# HELP oslog_signpost_interval_seconds Duration between matching begin and end signposts in seconds
# TYPE oslog_signpost_interval_seconds histogram
oslog_signpost_interval_seconds_bucket{category="c",name="work",subsystem="s",le="0.0005"} 0
oslog_signpost_interval_seconds_bucket{category="c",name="work",subsystem="s",le="0.001"} 0
oslog_signpost_interval_seconds_bucket{category="c",name="work",subsystem="s",le="0.005"} 0
oslog_signpost_interval_seconds_bucket{category="c",name="work",subsystem="s",le="0.01"} 0
oslog_signpost_interval_seconds_bucket{category="c",name="work",subsystem="s",le="0.05"} 0
oslog_signpost_interval_seconds_bucket{category="c",name="work",subsystem="s",le="0.1"} 0
oslog_signpost_interval_seconds_bucket{category="c",name="work",subsystem="s",le="0.5"} 1
oslog_signpost_interval_seconds_bucket{category="c",name="work",subsystem="s",le="1"} 1
oslog_signpost_interval_seconds_bucket{category="c",name="work",subsystem="s",le="5"} 1
oslog_signpost_interval_seconds_bucket{category="c",name="work",subsystem="s",le="10"} 1
oslog_signpost_interval_seconds_bucket{category="c",name="work",subsystem="s",le="60"} 1
oslog_signpost_interval_seconds_bucket{category="c",name="work",subsystem="s",le="+Inf"} 1
oslog_signpost_interval_seconds_sum{category="c",name="work",subsystem="s"} 0.25
oslog_signpost_interval_seconds_count{category="c",name="work",subsystem="s"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "oslog_signpost_interval_seconds"))
}

func TestNewPlatform_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPlatform(nil, reg)
	require.NoError(t, err)

	_, err = NewPlatform(nil, reg)
	assert.Error(t, err)
}

func TestPlatform_DefaultChannel(t *testing.T) {
	p, _, _ := newTestPlatform(t)
	reg := log.NewRegistry(p)

	reg.Fault(func() string { return "x" })

	assert.Equal(t, 1.0, testutil.ToFloat64(p.messages.WithLabelValues("", "", "fault")))
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "a_b", sanitizeLabel("a\nb"))
	long := strings.Repeat("é", maxLabelLength+10)
	assert.Len(t, []rune(sanitizeLabel(long)), maxLabelLength)
}

func TestPlatform_ForgetsOldestPendingBegin(t *testing.T) {
	p, _, _ := newTestPlatform(t)
	p.maxOpen = 2
	clock := time.Unix(0, 0)
	p.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}
	l := log.New(p, "s", "c")
	h := l.Handle().(*handle)

	for _, name := range []string{"a", "b", "c"} {
		l.SignpostWithID(log.SignpostBegin, name, 1)
	}
	assert.Equal(t, 2, h.pending())

	// "a" was forgotten: its end is counted but not timed.
	l.SignpostWithID(log.SignpostEnd, "a", 1)
	assert.Equal(t, 0, testutil.CollectAndCount(p.intervals))
	assert.Equal(t, 2, h.pending())

	l.SignpostWithID(log.SignpostEnd, "c", 1)
	assert.Equal(t, 1, testutil.CollectAndCount(p.intervals))
	assert.Equal(t, 1, h.pending())

	// Leaked begins with fresh ids never grow past the cap.
	for i := 0; i < 50; i++ {
		l.BeginInterval("leak")
	}
	assert.Equal(t, 2, h.pending())
}
