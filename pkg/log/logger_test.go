package log_test

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/oslog/pkg/log"
	"github.com/bft-labs/oslog/pkg/log/logtest"
)

// countingStringer counts how many times it was rendered.
type countingStringer struct{ calls int }

func (c *countingStringer) String() string {
	c.calls++
	return "rendered"
}

func leveledCalls(l *log.Log) map[log.Level]func(func() string) {
	return map[log.Level]func(func() string){
		log.LevelDefault: func(m func() string) { l.Msg(m) },
		log.LevelInfo:    func(m func() string) { l.Info(m) },
		log.LevelDebug:   func(m func() string) { l.Debug(m) },
		log.LevelError:   func(m func() string) { l.Error(m) },
		log.LevelFault:   func(m func() string) { l.Fault(m) },
	}
}

func TestLog_EnabledForwardsOncePerCall(t *testing.T) {
	rec := logtest.NewRecorder()
	l := log.New(rec, "com.example.test", "unit")

	for level, call := range leveledCalls(l) {
		rec.Reset()
		call(func() string { return "hello" })

		emits := rec.Emits()
		require.Len(t, emits, 1, "level %s", level)
		assert.Equal(t, level, emits[0].Level)
		assert.Equal(t, log.Identity{Subsystem: "com.example.test", Category: "unit"}, emits[0].Channel)
		assert.True(t, strings.HasPrefix(emits[0].Text, "["+level.String()+"] (logger_test.go:"), emits[0].Text)
		assert.True(t, strings.HasSuffix(emits[0].Text, ") hello"), emits[0].Text)
	}
}

func TestLog_DisabledDoesNoWork(t *testing.T) {
	rec := logtest.NewRecorder()
	formatted := 0
	l := log.New(rec, "com.example.test", "unit",
		log.WithEnabled(false),
		log.WithFormatter(log.FormatterFunc(func(r log.Record) string {
			formatted++
			return r.Message
		})),
	)

	evaluated := 0
	message := func() string {
		evaluated++
		return "never"
	}
	for _, call := range leveledCalls(l) {
		call(message)
	}

	stringer := &countingStringer{}
	l.Msgf("%s", stringer)
	l.Infof("%s", stringer)
	l.Debugf("%s", stringer)
	l.Errorf("%s", stringer)
	l.Faultf("%s", stringer)
	l.LogAt(log.LevelError, log.Source{File: "/x.go", Line: 1}, message)

	assert.Zero(t, evaluated, "message closure must not run while disabled")
	assert.Zero(t, stringer.calls, "arguments must not be formatted while disabled")
	assert.Zero(t, formatted, "formatter must not run while disabled")
	assert.Empty(t, rec.Emits())
}

func TestLog_CapturesCallSite(t *testing.T) {
	rec := logtest.NewRecorder()
	l := log.New(rec, "s", "c", log.WithFormatter(log.FormatterFunc(func(r log.Record) string {
		return fmt.Sprintf("%s|%s|%d", filepath.Base(r.Source.File), r.Source.Function, r.Source.Line)
	})))

	_, _, line, _ := runtime.Caller(0)
	l.Info(func() string { return "x" })
	l.Errorf("y")

	emits := rec.Emits()
	require.Len(t, emits, 2)
	assert.Equal(t, fmt.Sprintf("logger_test.go|github.com/bft-labs/oslog/pkg/log_test.TestLog_CapturesCallSite|%d", line+1), emits[0].Text)
	assert.Equal(t, fmt.Sprintf("logger_test.go|github.com/bft-labs/oslog/pkg/log_test.TestLog_CapturesCallSite|%d", line+2), emits[1].Text)
}

func TestLog_ErrorEndToEnd(t *testing.T) {
	rec := logtest.NewRecorder()
	l := log.New(rec, "com.example", "e2e", log.WithEnabled(true))

	l.LogAt(log.LevelError, log.Source{File: "/a/b/Foo.ext", Function: "run", Line: 42},
		func() string { return "boom" })

	emits := rec.Emits()
	require.Len(t, emits, 1)
	assert.Equal(t, log.LevelError, emits[0].Level)
	assert.Equal(t, "[error] (Foo.ext:42) boom", emits[0].Text)
}

func TestLog_DisabledDebugEndToEnd(t *testing.T) {
	rec := logtest.NewRecorder()
	l := log.New(rec, "com.example", "e2e", log.WithEnabled(false))

	l.Debug(func() string { return "x" })

	assert.Zero(t, rec.Calls())
}

func TestLog_FormattedVariants(t *testing.T) {
	rec := logtest.NewRecorder()
	l := log.NewDefault(rec)

	l.Msgf("a=%d", 1)
	l.Infof("b=%s", "two")
	l.Debugf("c=%v", true)
	l.Errorf("d")
	l.Faultf("e=%.1f", 1.5)

	emits := rec.Emits()
	require.Len(t, emits, 5)
	wantLevels := []log.Level{log.LevelDefault, log.LevelInfo, log.LevelDebug, log.LevelError, log.LevelFault}
	wantSuffix := []string{"a=1", "b=two", "c=true", "d", "e=1.5"}
	for i, e := range emits {
		assert.Equal(t, wantLevels[i], e.Level)
		assert.True(t, strings.HasSuffix(e.Text, ") "+wantSuffix[i]), e.Text)
		assert.Equal(t, log.Identity{}, e.Channel)
	}
}

func TestLog_NilMessageAndFormatter(t *testing.T) {
	rec := logtest.NewRecorder()
	l := log.New(rec, "s", "c", log.WithFormatter(nil))

	l.Info(nil)

	emits := rec.Emits()
	require.Len(t, emits, 1)
	assert.True(t, strings.HasSuffix(emits[0].Text, ") "), emits[0].Text)
}

func TestLog_SetEnabled(t *testing.T) {
	rec := logtest.NewRecorder()
	l := log.New(rec, "s", "c")
	assert.True(t, l.IsEnabled())

	l.SetEnabled(false)
	assert.False(t, l.IsEnabled())
	l.Info(func() string { return "dropped" })

	l.SetEnabled(true)
	l.Info(func() string { return "kept" })

	emits := rec.Emits()
	require.Len(t, emits, 1)
	assert.Contains(t, emits[0].Text, "kept")
}

func TestLog_ConcurrentToggleAndLog(t *testing.T) {
	rec := logtest.NewRecorder()
	l := log.New(rec, "s", "c")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.SetEnabled((i+j)%2 == 0)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Infof("n=%d", j)
				l.Signpost(log.SignpostEvent, "tick")
			}
		}()
	}
	wg.Wait()

	assert.Len(t, rec.Markers(), 800)
	assert.LessOrEqual(t, len(rec.Emits()), 800)
}
