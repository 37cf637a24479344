package log_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/oslog/pkg/log"
	"github.com/bft-labs/oslog/pkg/log/logtest"
)

func TestSignpost_Shapes(t *testing.T) {
	rec := logtest.NewRecorder()
	l := log.New(rec, "com.example", "timing")
	id := l.CreateSignpostID()

	l.Signpost(log.SignpostEvent, "tap")
	l.SignpostMessage(log.SignpostEvent, "tap", "button 1")
	l.SignpostWithID(log.SignpostBegin, "work", id)
	l.SignpostWithIDMessage(log.SignpostEnd, "work", id, "done")
	l.SignpostMessage(log.SignpostEvent, "empty", "")

	markers := rec.Markers()
	require.Len(t, markers, 5)

	assert.Equal(t, log.Marker{Type: log.SignpostEvent, Name: "tap"}, markers[0].Marker)
	assert.Equal(t, log.Marker{Type: log.SignpostEvent, Name: "tap", Message: "button 1", HasMessage: true}, markers[1].Marker)
	assert.Equal(t, log.Marker{Type: log.SignpostBegin, Name: "work", ID: id}, markers[2].Marker)
	assert.Equal(t, log.Marker{Type: log.SignpostEnd, Name: "work", ID: id, Message: "done", HasMessage: true}, markers[3].Marker)
	assert.True(t, markers[4].HasMessage)
	assert.Empty(t, markers[4].Message)

	for _, m := range markers {
		assert.Equal(t, log.Identity{Subsystem: "com.example", Category: "timing"}, m.Channel)
	}
	assert.Empty(t, rec.Emits(), "signposts must not produce leveled messages")
}

func TestSignpost_IgnoresEnableFlag(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		rec := logtest.NewRecorder()
		l := log.New(rec, "s", "c", log.WithEnabled(enabled))
		id := l.CreateSignpostID()

		l.Signpost(log.SignpostEvent, "a")
		l.SignpostMessage(log.SignpostEvent, "b", "m")
		l.SignpostWithID(log.SignpostBegin, "c", id)
		l.SignpostWithIDMessage(log.SignpostEnd, "c", id, "m")

		assert.Len(t, rec.Markers(), 4, "enabled=%v", enabled)
		assert.Empty(t, rec.Emits())
	}
}

func TestCreateSignpostID_Unique(t *testing.T) {
	rec := logtest.NewRecorder()
	l := log.New(rec, "s", "c")

	seen := map[log.SignpostID]bool{}
	for i := 0; i < 100; i++ {
		id := l.CreateSignpostID()
		assert.NotEqual(t, log.SignpostIDNone, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestSignpost_BeginEndCorrelation(t *testing.T) {
	rec := logtest.NewRecorder()
	l := log.New(rec, "s", "c")
	id := l.CreateSignpostID()

	l.SignpostWithID(log.SignpostBegin, "work", id)
	l.SignpostWithID(log.SignpostEnd, "work", id)

	markers := rec.Markers()
	require.Len(t, markers, 2)
	assert.Equal(t, log.SignpostBegin, markers[0].Type)
	assert.Equal(t, log.SignpostEnd, markers[1].Type)
	assert.Equal(t, id, markers[0].ID)
	assert.Equal(t, markers[0].ID, markers[1].ID)
}

func TestInterval(t *testing.T) {
	rec := logtest.NewRecorder()
	l := log.New(rec, "s", "c", log.WithEnabled(false))

	iv := l.BeginInterval("load")
	iv.End()
	iv2 := l.BeginIntervalMessage("save", "start")
	iv2.EndMessage("finish")

	markers := rec.Markers()
	require.Len(t, markers, 4)
	assert.Equal(t, iv.ID(), markers[0].ID)
	assert.Equal(t, iv.ID(), markers[1].ID)
	assert.NotEqual(t, iv.ID(), iv2.ID())
	assert.Equal(t, log.SignpostEnd, markers[3].Type)
	assert.Equal(t, "finish", markers[3].Message)
	assert.Equal(t, "start", markers[2].Message)
}

func TestSignpostType_String(t *testing.T) {
	assert.Equal(t, "event", log.SignpostEvent.String())
	assert.Equal(t, "begin", log.SignpostBegin.String())
	assert.Equal(t, "end", log.SignpostEnd.String())
	assert.Equal(t, "???", log.SignpostType(9).String())
}
