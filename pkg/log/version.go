package log

// Version information for the log package.
const (
	// Version is the current version of the log package.
	Version = "1.0.0"

	// MinCompatibleVersion is the oldest version whose Platform and Handle
	// implementations still satisfy this version's interfaces.
	MinCompatibleVersion = "1.0.0"
)
