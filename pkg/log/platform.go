package log

// Identity names a logging channel to the platform. The subsystem is usually
// a reverse-DNS identifier ("com.example.app") and the category narrows it
// ("network", "timing"). The zero Identity names the platform default channel.
type Identity struct {
	Subsystem string
	Category  string
}

// String renders the identity as "subsystem/category", or "default" for the
// zero identity.
func (id Identity) String() string {
	if id == (Identity{}) {
		return "default"
	}
	return id.Subsystem + "/" + id.Category
}

// Platform is the host logging and tracing facility a Log forwards to.
// Storage, filtering, retention and display all belong to the platform.
type Platform interface {
	// Channel returns the handle for a named channel. Identity strings are
	// passed through unvalidated.
	Channel(id Identity) Handle

	// DefaultChannel returns the platform's default handle.
	DefaultChannel() Handle
}

// Handle is a platform channel. Every method is fire-and-forget: failures
// stay inside the platform.
type Handle interface {
	// Emit writes one already-formatted line at the given level.
	Emit(level Level, text string)

	// EmitMarker writes one signpost.
	EmitMarker(m Marker)

	// NewSignpostID returns an identifier unique among signposts on this
	// handle. It never returns SignpostIDNone.
	NewSignpostID() SignpostID
}

// Marker is a signpost as it crosses the platform boundary.
type Marker struct {
	Type SignpostType
	Name string

	// ID correlates begin and end markers. SignpostIDNone when the caller
	// supplied no identifier.
	ID SignpostID

	// Message is only meaningful when HasMessage is set, so that an
	// intentionally empty message can be told apart from none.
	Message    string
	HasMessage bool
}
