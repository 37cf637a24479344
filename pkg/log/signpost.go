package log

import "strconv"

// SignpostType is the role a signpost plays in a trace.
type SignpostType uint8

const (
	// SignpostEvent marks a single point in time.
	SignpostEvent SignpostType = iota

	// SignpostBegin opens an interval.
	SignpostBegin

	// SignpostEnd closes the interval opened by the begin signpost with the
	// same name and identifier.
	SignpostEnd
)

// String returns "event", "begin" or "end".
func (t SignpostType) String() string {
	switch t {
	case SignpostEvent:
		return "event"
	case SignpostBegin:
		return "begin"
	case SignpostEnd:
		return "end"
	default:
		return "???"
	}
}

// SignpostID correlates signposts on a single handle. Correlation is managed
// by the caller: a Log does not remember which identifiers are open.
type SignpostID uint64

// SignpostIDNone is the identifier used by signposts emitted without one.
const SignpostIDNone SignpostID = 0

// String renders the identifier in decimal.
func (id SignpostID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// CreateSignpostID returns an identifier unique among signposts on this log's
// handle.
func (l *Log) CreateSignpostID() SignpostID {
	return l.handle.NewSignpostID()
}

// Signpost marks a point of interest named name. Signposts are forwarded even
// when the log is disabled.
func (l *Log) Signpost(t SignpostType, name string) {
	l.handle.EmitMarker(Marker{Type: t, Name: name})
}

// SignpostMessage is Signpost with an attached message.
func (l *Log) SignpostMessage(t SignpostType, name, message string) {
	l.handle.EmitMarker(Marker{Type: t, Name: name, Message: message, HasMessage: true})
}

// SignpostWithID is Signpost with a correlation identifier, so that begin and
// end markers can be grouped into one interval.
func (l *Log) SignpostWithID(t SignpostType, name string, id SignpostID) {
	l.handle.EmitMarker(Marker{Type: t, Name: name, ID: id})
}

// SignpostWithIDMessage combines SignpostWithID and SignpostMessage.
func (l *Log) SignpostWithIDMessage(t SignpostType, name string, id SignpostID, message string) {
	l.handle.EmitMarker(Marker{Type: t, Name: name, ID: id, Message: message, HasMessage: true})
}

// Interval is an open begin signpost waiting for its end.
type Interval struct {
	log  *Log
	name string
	id   SignpostID
}

// BeginInterval creates a fresh identifier and emits a begin signpost with it.
func (l *Log) BeginInterval(name string) *Interval {
	id := l.CreateSignpostID()
	l.SignpostWithID(SignpostBegin, name, id)
	return &Interval{log: l, name: name, id: id}
}

// BeginIntervalMessage is BeginInterval with a message on the begin signpost.
func (l *Log) BeginIntervalMessage(name, message string) *Interval {
	id := l.CreateSignpostID()
	l.SignpostWithIDMessage(SignpostBegin, name, id, message)
	return &Interval{log: l, name: name, id: id}
}

// ID returns the interval's correlation identifier.
func (iv *Interval) ID() SignpostID { return iv.id }

// End emits the end signpost.
func (iv *Interval) End() {
	iv.log.SignpostWithID(SignpostEnd, iv.name, iv.id)
}

// EndMessage emits the end signpost with a message.
func (iv *Interval) EndMessage(message string) {
	iv.log.SignpostWithIDMessage(SignpostEnd, iv.name, iv.id, message)
}
